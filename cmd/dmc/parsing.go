package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dmc/internal/diagfmt"
	"dmc/internal/driver"
	"dmc/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] unit.dms",
	Short: "Parse a unit and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	res, err := driver.Parse(s.ctx, source.NewFileSet(), args[0], s.opts)
	if err := s.reportSingle(res, err); err != nil {
		return err
	}

	if format == "json" {
		return diagfmt.FormatASTJSON(os.Stdout, res.Builder, res.Unit)
	}
	return diagfmt.FormatASTTree(os.Stdout, res.Builder, res.Unit)
}
