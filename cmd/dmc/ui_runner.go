package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dmc/internal/driver"
	"dmc/internal/source"
	"dmc/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []*driver.Result
	err     error
}

// runCheckWithUI runs CheckUnits while a progress view consumes its events.
func runCheckWithUI(ctx context.Context, title string, units []string, opts driver.Options) (*source.FileSet, []*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.CheckUnits(ctx, units, opts)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, units, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit before the last event
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
