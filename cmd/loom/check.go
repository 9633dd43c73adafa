package main

import (
	"fmt"
	"os"

	"github.com/hane9/loom/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Check whether a grammar belongs to the LALR(1) class",
		Example: `  loom check grammar.loom`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	tab, err := grammar.GenTable(gram)
	if err != nil {
		if cErr, ok := err.(*grammar.ConflictError); ok {
			fmt.Fprintf(os.Stderr, "%v\n", cErr)
			return fmt.Errorf("the grammar is not LALR(1)")
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "the grammar is LALR(1): %v states, %v terminals, %v non-terminals, %v productions\n",
		tab.StateCount(), tab.TerminalCount(), tab.NonTerminalCount(), tab.ProductionCount())
	return nil
}
