package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dmc/internal/version"
)

// errFailed ends the process with a non-zero status after diagnostics were
// already printed.
var errFailed = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:           "dmc",
	Short:         "DM script compiler front end",
	Long:          `dmc tokenizes, parses and type-checks DM script and object-tree units`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(preprocessCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|always|never)")
	pf.Bool("quiet", false, "print errors only")
	pf.Bool("timings", false, "report phase timings")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per unit")
	pf.String("config", "", "configuration file (default: dmc.toml or dmc.yaml found upwards)")
	pf.Bool("no-cache", false, "disable the on-disk check cache")
	pf.Bool("no-preprocess", false, "lex units without running the preprocessor")
	pf.String("dialect", "", "dialect for units without a known extension (script|objtree)")
	pf.StringArrayP("include", "I", nil, "add an include directory")
	pf.StringArrayP("define", "D", nil, "define a macro (NAME or NAME=VALUE)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file on exit")
	pf.String("exectrace", "", "write a runtime execution trace to file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "dmc: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
