package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dmc/internal/diag"
	"dmc/internal/preproc"
	"dmc/internal/source"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [flags] unit.dms",
	Short: "Expand includes and macros and print the result",
	Long:  `Preprocess prints the unit as the tokenizer sees it, with GCC-style line markers`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPreprocess,
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	fs := source.NewFileSet()
	bag := diag.NewBag(s.cfg.Diagnostics.Max)
	id, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}
	opts := s.opts.Preproc
	opts.Reporter = diag.BagReporter{Bag: bag}
	text, ppErr := preproc.Preprocess(s.ctx, fs, fs.Get(id), opts)

	if err := s.printDiagnostics(fs, bag.Items()); err != nil {
		return err
	}
	if ppErr != nil {
		if _, ok := diag.AsFatal(ppErr); ok {
			return errFailed
		}
		return ppErr
	}
	_, err = io.WriteString(os.Stdout, text)
	return err
}
