package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hane9/loom/driver"
	"github.com/hane9/loom/grammar"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	cst    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a text stream according to a grammar",
		Example: `  loom parse grammar.loom -s input.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "when set, print the concrete syntax tree")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	tab, err := grammar.GenTable(gram)
	if err != nil {
		return err
	}
	lexSpec, err := grammar.GenLexerSpec(gram)
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("cannot open the source file %v: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	ts, err := driver.NewTokenStream(lexSpec, src)
	if err != nil {
		return err
	}

	var opts []driver.ParserOption
	if *parseFlags.cst {
		opts = append(opts, driver.MakeCST())
	}
	p, err := driver.NewParser(tab, opts...)
	if err != nil {
		return err
	}

	err = p.Parse(ts)
	if err != nil {
		return err
	}

	if *parseFlags.cst {
		driver.PrintTree(os.Stdout, p.CST())
	} else {
		fmt.Fprintln(os.Stdout, "accepted")
	}
	return nil
}
