package workspace

import (
	"context"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/internal/util"
)

// LogObserver logs every tree event at info level
type LogObserver struct{}

func (LogObserver) OnEvent(_ context.Context, ev codecollab.Event) {
	logger := util.GetLogger("Workspace.Event")
	e := logger.Info().
		Str("project", ev.Project).
		Str("op", string(ev.Op)).
		Str("path", ev.Path)
	if ev.NewPath != "" {
		e = e.Str("new_path", ev.NewPath)
	}
	e.Msg("Tree changed")
}

var _ codecollab.Observer = LogObserver{}
