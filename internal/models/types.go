package models

import (
	"context"
	"io"
)

// Collector fetches availability rows for a host group
type Collector interface {
	Collect(ctx context.Context, group string, days int) (*Report, error)
}

// Renderer writes a report document
type Renderer interface {
	Render(w io.Writer, report *Report) error
}

// History defines operations for run persistence
type History interface {
	SaveRun(run *Run) (int64, error)
	ListRuns(limit int) ([]Run, error)
	GetRun(id int64) (*Run, error)
	PruneRuns(retentionDays int) (int64, error)
	Close() error
}
