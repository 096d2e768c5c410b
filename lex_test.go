package ecoli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ShellLex_bareWords(t *testing.T) {
	out, missing, err := ShellLex("foo bar  baz", LexStrict)
	require.NoError(t, err)
	assert.Equal(t, byte(0), missing)
	assert.Equal(t, []string{"foo", "bar", "baz"}, out.Strings())
}

func Test_ShellLex_quotedConcatenation(t *testing.T) {
	out, _, err := ShellLex(`'f'oo"bar"`, LexStrict)
	require.NoError(t, err)
	assert.Equal(t, []string{"foobar"}, out.Strings())
}

func Test_ShellLex_escapes(t *testing.T) {
	out, _, err := ShellLex(`"a\"b\\c"`, LexStrict)
	require.NoError(t, err)
	assert.Equal(t, []string{`a"b\c`}, out.Strings())
}

func Test_ShellLex_unterminatedQuote_strict(t *testing.T) {
	_, _, err := ShellLex(`"unterminated`, LexStrict)
	assert.Error(t, err)
}

func Test_ShellLex_unterminatedQuote_lenient(t *testing.T) {
	out, missing, err := ShellLex(`foo "b`, LexLenient)
	require.NoError(t, err)
	assert.Equal(t, byte('"'), missing)
	assert.Equal(t, []string{"foo", "b"}, out.Strings())
}

func Test_ShellLex_lenientRecordsOffsets(t *testing.T) {
	out, _, err := ShellLex("foo bar", LexLenient)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	a := out.AttrsGet(0)
	start, ok := a.Get("start")
	require.True(t, ok)
	assert.Equal(t, 0, start)
	end, ok := a.Get("end")
	require.True(t, ok)
	assert.Equal(t, 3, end)

	b := out.AttrsGet(1)
	bstart, _ := b.Get("start")
	assert.Equal(t, 4, bstart)
}

func Test_ShellLex_trailingSpaceAppendsEmptyToken(t *testing.T) {
	out, _, err := ShellLex("foo bar ", LexTrailingSpace)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar", ""}, out.Strings())
}

func Test_ShellLex_noTrailingSpaceNoExtraToken(t *testing.T) {
	out, _, err := ShellLex("foo bar", LexTrailingSpace)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, out.Strings())
}

func Test_ShellLex_emptyInput(t *testing.T) {
	out, missing, err := ShellLex("", LexStrict)
	require.NoError(t, err)
	assert.Equal(t, byte(0), missing)
	assert.Equal(t, 0, out.Len())
}

func Test_ShellLex_hashComment(t *testing.T) {
	out, _, err := ShellLex("foo # bar", LexStrict)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, out.Strings())
}

func Test_ShellLex_hashInQuoteIsNotAComment(t *testing.T) {
	out, _, err := ShellLex(`"foo#bar" baz`, LexStrict)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo#bar", "baz"}, out.Strings())
}

func Test_ShellLex_hashMidBareWordStartsComment(t *testing.T) {
	out, _, err := ShellLex("foo#bar baz", LexStrict)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, out.Strings())
}

func Test_ShellLex_leadingHashIsWhollyAComment(t *testing.T) {
	out, _, err := ShellLex("# nothing here", LexStrict)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}
