package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyblocks/domain"
)

func TestParallelExecutor_EmptyTasks(t *testing.T) {
	assert.NoError(t, NewParallelExecutor().Execute(context.Background(), nil))
}

func TestParallelExecutor_RunsEnabledTasks(t *testing.T) {
	var counter int32
	tasks := make([]domain.ExecutableTask, 0, 6)
	for i := 0; i < 6; i++ {
		tasks = append(tasks, NewSimpleTask("task", i%3 != 0, func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&counter, 1)
			return nil, nil
		}))
	}

	require.NoError(t, NewParallelExecutor().Execute(context.Background(), tasks))
	assert.Equal(t, int32(4), atomic.LoadInt32(&counter))
}

func TestParallelExecutor_BoundsConcurrency(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(2)

	var running, peak int32
	tasks := make([]domain.ExecutableTask, 8)
	for i := range tasks {
		tasks[i] = NewSimpleTask("task", true, func(ctx context.Context) (interface{}, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil, nil
		})
	}

	require.NoError(t, executor.Execute(context.Background(), tasks))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestParallelExecutor_JoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var ran int32

	tasks := []domain.ExecutableTask{
		NewSimpleTask("a", true, func(ctx context.Context) (interface{}, error) { return nil, errA }),
		NewSimpleTask("ok", true, func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&ran, 1)
			return nil, nil
		}),
		NewSimpleTask("b", true, func(ctx context.Context) (interface{}, error) { return nil, errB }),
	}

	err := NewParallelExecutor().Execute(context.Background(), tasks)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran), "failures do not stop other tasks")
}

func TestParallelExecutor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executed := false
	task := NewSimpleTask("late", true, func(ctx context.Context) (interface{}, error) {
		executed = true
		return nil, nil
	})

	err := NewParallelExecutor().Execute(ctx, []domain.ExecutableTask{task})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, executed)
}

func TestSimpleTask_WithoutFunction(t *testing.T) {
	task := NewSimpleTask("empty", true, nil)
	_, err := task.Execute(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "empty", task.Name())
	assert.True(t, task.IsEnabled())
}
