package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dmc/internal/diagfmt"
	"dmc/internal/driver"
	"dmc/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] unit.dms",
	Short: "Tokenize a unit",
	Long:  `Tokenize preprocesses a unit and prints its token stream, including synthesized block tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "text", "output format (text|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	res, err := driver.Tokenize(s.ctx, source.NewFileSet(), args[0], s.opts)
	if err := s.reportSingle(res, err); err != nil {
		return err
	}

	switch format {
	case "json":
		return diagfmt.MarshalTokens(os.Stdout, res.Tokens)
	default:
		return diagfmt.FormatTokens(os.Stdout, res.Tokens)
	}
}
