package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ludo-technologies/pyblocks/domain"
)

// ParallelExecutorImpl runs tasks on a fixed pool of workers
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
}

// NewParallelExecutor creates a parallel executor with one worker per CPU
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        10 * time.Minute,
	}
}

// Execute runs the enabled tasks and waits for all of them. Task failures do
// not stop the remaining tasks; they are joined into the returned error.
// Tasks that have not started when the context ends are reported as cancelled.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	var enabled []domain.ExecutableTask
	for _, task := range tasks {
		if task.IsEnabled() {
			enabled = append(enabled, task)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	if pe.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pe.timeout)
		defer cancel()
	}

	workers := pe.maxConcurrency
	if workers <= 0 || workers > len(enabled) {
		workers = len(enabled)
	}

	queue := make(chan domain.ExecutableTask)
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				if err := ctx.Err(); err != nil {
					record(fmt.Errorf("task %s cancelled: %w", task.Name(), err))
					continue
				}
				if _, err := task.Execute(ctx); err != nil {
					record(fmt.Errorf("task %s failed: %w", task.Name(), err))
				}
			}
		}()
	}

	for _, task := range enabled {
		queue <- task
	}
	close(queue)
	wg.Wait()

	if len(errs) > 0 {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("parallel execution timed out after %v: %w", pe.timeout, errors.Join(errs...))
		}
		return errors.Join(errs...)
	}
	return nil
}

// SetMaxConcurrency sets the number of workers; values <= 0 mean one per task
func (pe *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	pe.maxConcurrency = max
}

// SetTimeout sets the timeout for the whole run; 0 disables it
func (pe *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	pe.timeout = timeout
}

// SimpleTask adapts a function to domain.ExecutableTask
type SimpleTask struct {
	name    string
	enabled bool
	execute func(context.Context) (interface{}, error)
}

// NewSimpleTask creates a new simple task
func NewSimpleTask(name string, enabled bool, execute func(context.Context) (interface{}, error)) *SimpleTask {
	return &SimpleTask{name: name, enabled: enabled, execute: execute}
}

func (t *SimpleTask) Name() string { return t.name }

func (t *SimpleTask) IsEnabled() bool { return t.enabled }

func (t *SimpleTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execute == nil {
		return nil, fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}
