// Command rloxtool is a developer-tooling CLI separate from rlox's plain
// run-a-file/REPL contract: it exposes tokenize/compile/disasm verbs
// through github.com/google/subcommands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"rlox/chunk"
	"rlox/compiler"
	"rlox/debug"
	"rlox/scanner"
	"rlox/token"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&tokenizeCmd{}, "")
	subcommands.Register(&compileCmd{}, "")
	subcommands.Register(&disasmCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

func readArg(f *flag.FlagSet) (string, error) {
	if f.NArg() < 1 {
		return "", fmt.Errorf("expected a source file path")
	}
	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type tokenizeCmd struct{}

func (*tokenizeCmd) Name() string             { return "tokenize" }
func (*tokenizeCmd) Synopsis() string         { return "print the token stream for a source file" }
func (*tokenizeCmd) Usage() string            { return "rloxtool tokenize <file>\n" }
func (*tokenizeCmd) SetFlags(f *flag.FlagSet) {}

func (*tokenizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	src, err := readArg(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	s := scanner.New(src)
	for {
		tok, err := s.ScanToken()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Println(tok.String())
		if tok.Type == token.EOF {
			return subcommands.ExitSuccess
		}
	}
}

type compileCmd struct{}

func (*compileCmd) Name() string             { return "compile" }
func (*compileCmd) Synopsis() string         { return "compile a source file and report errors, if any" }
func (*compileCmd) Usage() string            { return "rloxtool compile <file>\n" }
func (*compileCmd) SetFlags(f *flag.FlagSet) {}

func (*compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	src, err := readArg(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ch := chunk.New()
	if _, err := compiler.New(src, ch).Compile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type disasmCmd struct{}

func (*disasmCmd) Name() string             { return "disasm" }
func (*disasmCmd) Synopsis() string         { return "compile a source file and disassemble its bytecode" }
func (*disasmCmd) Usage() string            { return "rloxtool disasm <file>\n" }
func (*disasmCmd) SetFlags(f *flag.FlagSet) {}

func (*disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	src, err := readArg(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ch := chunk.New()
	compiled, err := compiler.New(src, ch).Compile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	debug.DisassembleChunk(os.Stdout, compiled, f.Arg(0))
	return subcommands.ExitSuccess
}
