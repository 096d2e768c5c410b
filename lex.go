package ecoli

import (
	"strings"

	"github.com/vjardin/ecoli/internal/ecerr"
)

// LexMode selects how ShellLex treats an unterminated quote and trailing
// whitespace.
type LexMode int

const (
	// LexStrict rejects an unterminated quote with an EBADMSG error.
	LexStrict LexMode = iota
	// LexTrailingSpace behaves like LexStrict, but additionally appends
	// one empty token when the line ends in whitespace, so the caller
	// can drive completion of the position after the last real token.
	LexTrailingSpace
	// LexLenient tolerates an unterminated quote (reporting which quote
	// character was left open) and records each token's source byte
	// offsets as attributes, for completion. Like LexTrailingSpace, it
	// appends one empty token when the line ends in whitespace.
	LexLenient
)

func isBlank(b byte) bool { return b == ' ' || b == '\t' }

func isQuote(b byte) bool { return b == '"' || b == '\'' }

// eatQuotedSpan returns the number of bytes, starting at s[0] (the
// opening quote), that make up a quoted span: everything up to and
// including the closing quote, or (if never closed) the whole remainder
// of s.
func eatQuotedSpan(s string) int {
	quote := s[0]
	i := 1
	for i < len(s) {
		if s[i] == quote && (i == 1 || s[i-1] != '\\') {
			return i + 1
		}
		i++
	}
	return i
}

// unquote strips the surrounding quotes from span (which starts and, if
// closed, ends with the same quote character), processing \<quote> and
// \\ escapes. closed reports whether a matching closing quote was found.
func unquote(span string) (value string, closed bool) {
	quote := span[0]
	var sb strings.Builder
	i := 1
	for i < len(span) {
		if span[i] == '\\' && i+1 < len(span) && span[i+1] == quote {
			sb.WriteByte(quote)
			i += 2
			continue
		}
		if span[i] == '\\' && i+1 < len(span) && span[i+1] == '\\' {
			sb.WriteByte('\\')
			i += 2
			continue
		}
		if span[i] == quote {
			return sb.String(), true
		}
		sb.WriteByte(span[i])
		i++
	}
	return sb.String(), false
}

// eatBareWord returns the number of bytes of a non-quoted, non-blank run
// starting at s[0]. A '#' outside a quote ends the run, since it starts a
// comment running to the end of the line.
func eatBareWord(s string) int {
	i := 0
	for i < len(s) && !isBlank(s[i]) && !isQuote(s[i]) && s[i] != '#' {
		i++
	}
	return i
}

// ShellLex tokenises a single raw input line into a token vector,
// following shell-like quoting rules: unquoted runs and quoted spans
// adjacent to each other concatenate into a single token (so `'f'oo`
// yields one token "foo").
//
// On an unterminated quote, LexStrict and LexTrailingSpace fail with an
// EBADMSG error; LexLenient instead returns the tokens parsed so far
// (with the unterminated token included as best-effort) plus the quote
// character that was left open (0 if none was).
//
// A '#' outside of any quote starts a comment that runs to the end of
// line: everything from it onward is discarded before tokenising.
func ShellLex(line string, mode LexMode) (*StrVec, byte, error) {
	out := NewStrVec()
	var missingQuote byte
	lastIsSpace := true

	off := 0
	for off < len(line) {
		missingQuote = 0
		for off < len(line) && isBlank(line[off]) {
			off++
			lastIsSpace = true
		}
		if off >= len(line) {
			break
		}
		if line[off] == '#' {
			line = line[:off]
			break
		}

		startTok := off
		var sb strings.Builder
		for off < len(line) {
			missingQuote = 0
			if isBlank(line[off]) {
				break
			}
			lastIsSpace = false
			if isQuote(line[off]) {
				span := eatQuotedSpan(line[off:])
				value, closed := unquote(line[off : off+span])
				if !closed {
					if mode == LexLenient {
						missingQuote = line[off]
					} else {
						return nil, 0, ecerr.New(ecerr.EBADMSG, "unterminated quote")
					}
				}
				sb.WriteString(value)
				off += span
				continue
			}
			n := eatBareWord(line[off:])
			if n == 0 {
				break
			}
			sb.WriteString(line[off : off+n])
			off += n
		}

		tok := sb.String()
		out.Push(tok)
		if mode == LexLenient {
			attrs := out.AttrsGet(out.Len() - 1)
			attrs.Set("start", startTok)
			attrs.Set("end", off)
		}
	}

	if (mode == LexTrailingSpace || mode == LexLenient) && lastIsSpace {
		out.Push("")
	}

	return out, missingQuote, nil
}
