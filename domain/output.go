package domain

import (
	"context"
	"io"
	"time"
)

// ReportWriter sends a rendered report to its destination. A non-empty
// outputPath names a file that is created or truncated; otherwise writeFunc
// receives writer.
type ReportWriter interface {
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}

// ProgressManager receives per-file progress of an analysis run.
// Update may be called from several workers at once.
type ProgressManager interface {
	Initialize(total int)
	Start()
	Update(processed, total int)
	Complete(success bool)
}

// ParallelExecutor runs file tasks on a bounded worker pool
type ParallelExecutor interface {
	// Execute runs every enabled task and returns the joined task errors
	Execute(ctx context.Context, tasks []ExecutableTask) error

	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}

// ExecutableTask is one unit of work for a ParallelExecutor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}
