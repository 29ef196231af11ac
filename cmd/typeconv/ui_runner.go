package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"typeconv/internal/stress"
	"typeconv/internal/typeconv"
	"typeconv/internal/types"
	"typeconv/internal/ui"
)

type stressOutcome struct {
	report stress.Report
	err    error
}

func runStressWithUI(ctx context.Context, out io.Writer, m *typeconv.Manager, pool []types.Type, opts stress.Options) (stress.Report, error) {
	events := make(chan stress.Event, 256)
	outcomeCh := make(chan stressOutcome, 1)

	go func() {
		o := opts
		o.Progress = stress.ChannelSink{Ch: events}
		rep, err := stress.Run(ctx, m, pool, o)
		outcomeCh <- stressOutcome{report: rep, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("stress", opts.Workers, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep the workers unblocked once nobody reads progress.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
