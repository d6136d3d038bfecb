// Command opp prints the logical lines dcrx assembles from a Dockerfile,
// before any instruction is parsed.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/Sarang095/dcrx/internal/lexer"
)

func main() {
	mode := flag.StringP("match", "m", "leading", "Keyword match mode, leading or anywhere")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: opp [--match MODE] <path-to-dockerfile>")
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *mode, os.Stdout); err != nil {
		fmt.Printf("Error parsing Dockerfile: %v\n", err)
		os.Exit(1)
	}
}

func run(path, mode string, w io.Writer) error {
	matchMode, err := lexer.ParseMatchMode(mode)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open Dockerfile")
	}
	defer f.Close()

	lines, err := lexer.NewLexer(f, matchMode).All()
	if err != nil {
		return err
	}

	for _, line := range lines {
		keyword := string(line.Keyword)
		if !line.Recognized() {
			keyword = "(unrecognized)"
		}
		fmt.Fprintf(w, "Command: %s\nArgs: %s\nLines: %d-%d\nRaw: %s\n\n",
			keyword, line.Args, line.Line, line.EndLine, line.Text)
	}
	return nil
}
