package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cargomate/internal/pipeline"
	"cargomate/internal/ui"
)

type pipelineOutcome struct {
	result pipeline.Result
	err    error
}

// runPipelineWithUI runs the build pipeline in a goroutine while a Bubble
// Tea program renders the live counters, then hands back the pipeline
// result.
func runPipelineWithUI(ctx context.Context, title string, req *pipeline.Request) (pipeline.Result, error) {
	if req == nil {
		return pipeline.Result{}, fmt.Errorf("missing pipeline request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan pipelineOutcome, 1)

	counters := req.Counters
	if counters == nil {
		counters = &pipeline.Counters{}
	}

	go func() {
		reqCopy := *req
		reqCopy.Counters = counters
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, &reqCopy)
		outcomeCh <- pipelineOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, counters, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
