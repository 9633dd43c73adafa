package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hane9/loom/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Describe the item-set family generated from a grammar",
		Example: `  loom show grammar.loom`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	rep, err := grammar.GenReport(gram)
	if err != nil {
		return err
	}

	writeReport(os.Stdout, rep)
	return nil
}

func writeReport(w io.Writer, rep *grammar.Report) {
	if rep.Name != "" {
		fmt.Fprintf(w, "# %v\n\n", rep.Name)
	}

	fmt.Fprintf(w, "## Productions\n\n")
	for i, prod := range rep.Productions {
		fmt.Fprintf(w, "%4v: %v\n", i, prod)
	}
	fmt.Fprintf(w, "\n## States\n")
	for _, state := range rep.States {
		fmt.Fprintf(w, "\n### State %v\n\n", state.Number)
		for _, item := range state.Items {
			fmt.Fprintf(w, "  %v\n", item)
		}
		if len(state.Shift) > 0 {
			fmt.Fprintf(w, "\n  shift:\n")
			for _, e := range state.Shift {
				fmt.Fprintf(w, "    %v\n", e)
			}
		}
		if len(state.GoTo) > 0 {
			fmt.Fprintf(w, "\n  goto:\n")
			for _, e := range state.GoTo {
				fmt.Fprintf(w, "    %v\n", e)
			}
		}
		if len(state.Reduce) > 0 {
			fmt.Fprintf(w, "\n  reduce:\n")
			for _, e := range state.Reduce {
				fmt.Fprintf(w, "    %v\n", e)
			}
		}
	}
}
