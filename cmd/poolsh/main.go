/*
Poolsh is an interactive shell over an in-memory set of named IPv4
address pools, demonstrating the grammar engine end to end.

Usage:

	poolsh [flags]

The flags are:

	-v, --version
		Print the version and exit.

	-s, --seed FILE
		Load pools from the given TOML seed file at startup.

	-c, --command COMMANDS
		Immediately run the given command(s) and exit. Can be multiple
		commands separated by the ";" character.

	-d, --direct
		Force reading commands directly from stdin line by line instead
		of through the readline-based interactive shell.

Once running, input is parsed as one of:

	pool list
	pool add|del <name>
	addr pool <name> list
	addr pool <name> add|del <ipv4>
	exit

Type "exit" or send EOF to leave the shell.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/internal/input"
	"github.com/vjardin/ecoli/nodes"
)

const (
	// ExitSuccess indicates the shell exited normally.
	ExitSuccess = iota

	// ExitInitError indicates grammar construction or seed loading failed.
	ExitInitError
)

const version = "poolsh 0.1.0 (ecoli example)"

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "print the version and exit")
	seedFile    = pflag.StringP("seed", "s", "", "load pools from the given TOML seed file")
	startCmds   = pflag.StringP("command", "c", "", "run the given command(s) immediately and exit, separated by ';'")
	forceDirect = pflag.BoolP("direct", "d", false, "read commands directly from stdin instead of through the interactive shell")
)

func main() {
	defer func() {
		if p := recover(); p != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", p))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Println(version)
		return
	}

	store := NewStore()
	if *seedFile != "" {
		var seed Seed
		if _, err := toml.DecodeFile(*seedFile, &seed); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: loading seed: %s\n", err)
			returnCode = ExitInitError
			return
		}
		store.LoadSeed(&seed)
	}

	box := &resultBox{cur: &result{}}
	grammar, err := buildGrammar(store, box)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: building grammar: %s\n", err)
		returnCode = ExitInitError
		return
	}
	defer ecoli.Free(grammar)

	if *startCmds != "" {
		for _, line := range strings.Split(*startCmds, ";") {
			if runAndPrint(grammar, box, line) {
				return
			}
		}
		return
	}

	if *forceDirect {
		runDirect(grammar, box)
		return
	}
	runREPL(grammar, box)
}

// runDirect drives a non-interactive read loop over stdin, for piped
// input or terminals where the readline-based shell isn't appropriate.
func runDirect(grammar *ecoli.Node, box *resultBox) {
	reader := input.NewDirectReader(os.Stdin)
	defer reader.Close()

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			}
			return
		}
		if runAndPrint(grammar, box, line) {
			return
		}
	}
}

// runAndPrint runs line against grammar, printing any resulting output
// lines, or the error if the engine itself failed (as opposed to the
// line simply failing to parse). It reports whether the shell should
// quit.
func runAndPrint(grammar *ecoli.Node, box *resultBox, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	res, err := runLine(grammar, box, line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return false
	}
	for _, l := range res.lines {
		fmt.Println(l)
	}
	return res.quit
}

// autoCompleter adapts the engine's Complete into chzyer/readline's
// AutoCompleter interface: it retokenizes the full line up to the cursor
// on every keystroke, the way the shell completion examples in the
// ecoli test scenarios expect.
type autoCompleter struct {
	grammar *ecoli.Node
}

func (a *autoCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	prefix := string(line[:pos])
	comp, err := ecoli.Complete(a.grammar, prefix)
	if err != nil {
		return nil, 0
	}

	lastWord := prefix
	if idx := strings.LastIndexAny(prefix, " \t"); idx >= 0 {
		lastWord = prefix[idx+1:]
	}

	for item := comp.IterFirst(ecoli.CompFull); item != nil; item = comp.IterNext(item, ecoli.CompFull) {
		full := item.Str()
		if !strings.HasPrefix(full, lastWord) {
			continue
		}
		newLine = append(newLine, []rune(full[len(lastWord):]))
	}
	return newLine, len(lastWord)
}

// runREPL drives an interactive read-eval-print loop over grammar,
// backed by readline for history and completion.
func runREPL(grammar *ecoli.Node, box *resultBox) {
	reader, err := input.NewInteractiveReader("poolsh> ", &autoCompleter{grammar: grammar})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: starting readline: %s\n", err)
		returnCode = ExitInitError
		return
	}
	defer reader.Close()

	printHelp(grammar)

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			}
			return
		}
		if runAndPrint(grammar, box, line) {
			return
		}
	}
}

// printHelp lists every completion of the empty input alongside its help
// text, wrapped to a terminal-friendly width.
func printHelp(grammar *ecoli.Node) {
	comp, err := ecoli.Complete(grammar, "")
	if err != nil {
		return
	}
	var sb strings.Builder
	for _, h := range nodes.GetHelps(comp) {
		sb.WriteString(fmt.Sprintf("  %s - %s\n", h.Description, h.Help))
	}
	if sb.Len() == 0 {
		return
	}
	fmt.Println(rosed.Edit(sb.String()).Wrap(72).String())
}
