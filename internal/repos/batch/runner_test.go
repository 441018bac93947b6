package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sammy/internal/repos/batch"
)

func delayedTask(value string, delay time.Duration) batch.Task[string] {
	return func(context.Context) (string, error) {
		time.Sleep(delay)
		return value, nil
	}
}

func TestRunDrainsInDispatchOrder(testInstance *testing.T) {
	testCases := []struct {
		name  string
		limit int
	}{
		{name: "unbounded", limit: 0},
		{name: "bounded", limit: 2},
		{name: "serial", limit: 1},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			tasks := []batch.Task[string]{
				delayedTask("first", 30*time.Millisecond),
				delayedTask("second", 20*time.Millisecond),
				delayedTask("third", 10*time.Millisecond),
				delayedTask("fourth", 0),
			}

			var drainedIndexes []int
			var drainedValues []string
			runError := batch.Run(context.Background(), testCase.limit, tasks, func(index int, value string) error {
				drainedIndexes = append(drainedIndexes, index)
				drainedValues = append(drainedValues, value)
				return nil
			})

			require.NoError(testInstance, runError)
			require.Equal(testInstance, []int{0, 1, 2, 3}, drainedIndexes)
			require.Equal(testInstance, []string{"first", "second", "third", "fourth"}, drainedValues)
		})
	}
}

func TestRunRespectsLimit(testInstance *testing.T) {
	var active int32
	var peak int32
	tasks := make([]batch.Task[int], 8)
	for index := range tasks {
		taskIndex := index
		tasks[index] = func(context.Context) (int, error) {
			current := atomic.AddInt32(&active, 1)
			for {
				observed := atomic.LoadInt32(&peak)
				if current <= observed || atomic.CompareAndSwapInt32(&peak, observed, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return taskIndex, nil
		}
	}

	drainedCount := 0
	runError := batch.Run(context.Background(), 3, tasks, func(index int, value int) error {
		require.Equal(testInstance, index, value)
		drainedCount++
		return nil
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, len(tasks), drainedCount)
	require.LessOrEqual(testInstance, atomic.LoadInt32(&peak), int32(3))
}

func TestRunStopsDrainingAtFirstTaskError(testInstance *testing.T) {
	fatalError := errors.New("restore failed")
	var completed int32
	tasks := make([]batch.Task[int], 5)
	for index := range tasks {
		taskIndex := index
		tasks[index] = func(context.Context) (int, error) {
			defer atomic.AddInt32(&completed, 1)
			if taskIndex == 2 {
				return 0, fatalError
			}
			if taskIndex == 0 {
				time.Sleep(20 * time.Millisecond)
			}
			return taskIndex, nil
		}
	}

	var drainedIndexes []int
	runError := batch.Run(context.Background(), 0, tasks, func(index int, _ int) error {
		drainedIndexes = append(drainedIndexes, index)
		return nil
	})

	require.ErrorIs(testInstance, runError, fatalError)
	require.Equal(testInstance, []int{0, 1}, drainedIndexes)
	require.Equal(testInstance, int32(len(tasks)), atomic.LoadInt32(&completed))
}

func TestRunWithoutTasks(testInstance *testing.T) {
	drained := false
	runError := batch.Run(context.Background(), 0, nil, func(int, string) error {
		drained = true
		return nil
	})

	require.NoError(testInstance, runError)
	require.False(testInstance, drained)
}
