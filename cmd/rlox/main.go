// Command rlox is the interpreter's CLI: zero arguments start a REPL, one
// argument interprets the file at that path, and anything else is a usage
// error. The REPL uses github.com/chzyer/readline for line history and
// basic editing.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"rlox/interpret"
	"rlox/rlerr"
)

func main() {
	switch args := os.Args[1:]; len(args) {
	case 0:
		runREPL()
	case 1:
		runFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "Usage: rlox [path]")
		os.Exit(64)
	}
}

func runFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 could not read %q: %v\n", path, err)
		os.Exit(74)
	}
	exit(run(string(data)))
}

// run interprets one source string, printing its result or its error, and
// returns the process exit code the caller should use for it.
func run(src string) int {
	v, err := interpret.Source(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if rlerr.IsCompile(err) {
			return 65
		}
		return 70
	}
	fmt.Println(v.String())
	return 0
}

func exit(code int) {
	if code != 0 {
		os.Exit(code)
	}
}

// runREPL reads one line at a time, interpreting each line independently
// with a fresh Chunk and VM (interpret.Source never reuses either across
// calls — see its doc comment for why). Per-line errors are printed and the
// session continues. EOF (Ctrl-D), an interrupt (Ctrl-C) on an empty line,
// or a read error ends it, always with exit 0.
func runREPL() {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(70)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, err)
			break
		}

		run(line)
	}
}
