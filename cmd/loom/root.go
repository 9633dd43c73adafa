package main

import (
	"fmt"
	"os"

	"github.com/hane9/loom/grammar"
	"github.com/hane9/loom/spec"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Generate an LALR(1) parsing table from a grammar",
	Long: `loom builds LALR(1) parsing tables from grammar definitions:
- Checks whether a grammar belongs to the LALR(1) class.
- Describes the generated item-set family for debugging a grammar.
- Parses a text stream according to the grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func readGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar file %v: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}
