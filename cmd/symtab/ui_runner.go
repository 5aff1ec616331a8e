package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"symtab/internal/driver"
	"symtab/internal/ui"
)

type analyzeOutcome struct {
	result *driver.Result
	err    error
}

// runAnalyzeWithUI draws the progress view on stderr while the driver runs;
// stdout stays reserved for the dump.
func runAnalyzeWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events // closed by AnalyzeFiles
		res, err := driver.AnalyzeFiles(ctx, files, optsCopy)
		outcomeCh <- analyzeOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the driver from blocking on a dead view
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
