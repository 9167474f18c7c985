package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dmc/internal/diag"
	"dmc/internal/diagfmt"
	"dmc/internal/driver"
	"dmc/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <unit|directory>...",
	Short: "Run the full pipeline on units or directories",
	Long:  `Check preprocesses, parses and type-checks every unit; directories are searched for .dms, .dm and .dme files`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	checkCmd.Flags().String("ui", "off", "progress view (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "max parallel units (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include notes in JSON output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	useUI, err := progressViewWanted(uiValue)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()
	s.openCache()
	s.opts.Jobs = jobs

	units, err := driver.ExpandUnits(args)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return fmt.Errorf("no units found in %s", strings.Join(args, ", "))
	}

	var (
		fs      *source.FileSet
		results []*driver.Result
	)
	if useUI && !s.quiet {
		fs, results, err = runCheckWithUI(s.ctx, fmt.Sprintf("checking %d units", len(units)), units, s.opts)
	} else {
		fs, results, err = driver.CheckUnits(s.ctx, units, s.opts)
	}

	all := diag.NewBag(0)
	failed := false
	for _, res := range results {
		if res == nil {
			continue
		}
		all.Merge(res.Bag)
		failed = failed || res.Failed() || res.Bag.HasErrors()
	}
	all.Dedup()
	items := all.Items()

	if format == "json" {
		if jerr := diagfmt.JSON(os.Stdout, s.visible(items), diagfmt.JSONOpts{IncludeNotes: withNotes}); jerr != nil {
			return jerr
		}
	} else if perr := s.printDiagnostics(fs, items); perr != nil {
		return perr
	}

	if err != nil && !failed {
		return err
	}
	if failed {
		return errFailed
	}
	return nil
}

// progressViewWanted resolves --ui. Auto needs both streams to be
// terminals, since diagnostics follow on stderr.
func progressViewWanted(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return isTerminal(os.Stdout) && isTerminal(os.Stderr), nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}
