package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"minilex/internal/driver"
	"minilex/internal/source"
	"minilex/internal/ui"
)

type dirOutcome struct {
	fs      *source.FileSet
	results []driver.TokenizeDirResult
	err     error
}

// runTokenizeDirWithUI runs TokenizeDir in the background and renders its
// progress events until the driver finishes.
func runTokenizeDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*source.FileSet, []driver.TokenizeDirResult, error) {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = func(ev driver.ProgressEvent) { events <- ev }
		fs, results, err := driver.TokenizeDir(ctx, dir, optsCopy)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы воркеры не заблокировались
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
