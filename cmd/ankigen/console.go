package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/phrazzld/ankigen/internal/events"
)

var (
	bold   = color.New(color.Bold)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
)

// console prints pipeline progress for a human watching the run.
type console struct {
	w       io.Writer
	csvPath string
}

var _ events.EventHandler = console{}

func newConsole(w io.Writer, csvPath string) console {
	return console{w: w, csvPath: csvPath}
}

// HandleEvent implements events.EventHandler.
func (c console) HandleEvent(_ context.Context, event *events.PipelineEvent) error {
	var err error
	switch event.Type {
	case events.WordStarted:
		_, err = fmt.Fprintf(c.w, "Processing '%s' …\n", event.Word)
	case events.WordSkipped:
		_, err = yellow.Fprintf(c.w, "  skipped '%s': %s\n", event.Word, event.Reason)
	case events.RunFinished:
		_, err = green.Fprintf(c.w, "Done. %d written, %d skipped. ", event.Written, event.Skipped)
		if err == nil {
			_, err = bold.Fprintf(c.w, "Cards saved to %s\n", c.csvPath)
		}
	}
	return err
}
