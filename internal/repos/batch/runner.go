// Package batch runs one task per repository concurrently and hands results
// back in dispatch order, regardless of completion order.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task computes the outcome for the repository at its dispatch index.
type Task[Result any] func(executionContext context.Context) (Result, error)

// DrainFunc consumes the result of the task dispatched at index.
type DrainFunc[Result any] func(index int, result Result) error

type slot[Result any] struct {
	result Result
	err    error
	done   chan struct{}
}

// Run dispatches every task and drains results strictly in dispatch order.
// A limit of zero or less starts all tasks at once. The first task error, or the
// first drain error, stops draining and further dispatch; tasks already dispatched
// still run to completion before Run returns that error.
func Run[Result any](executionContext context.Context, limit int, tasks []Task[Result], drain DrainFunc[Result]) error {
	slots := make([]*slot[Result], len(tasks))
	for index := range tasks {
		slots[index] = &slot[Result]{done: make(chan struct{})}
	}

	group := &errgroup.Group{}
	if limit > 0 {
		group.SetLimit(limit)
	}

	stopped := make(chan struct{})
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for index, task := range tasks {
			select {
			case <-stopped:
				return
			default:
			}
			current := slots[index]
			currentTask := task
			group.Go(func() error {
				defer close(current.done)
				current.result, current.err = currentTask(executionContext)
				return nil
			})
		}
	}()

	drainError := drainInOrder(slots, drain)
	close(stopped)

	<-dispatched
	_ = group.Wait()
	return drainError
}

func drainInOrder[Result any](slots []*slot[Result], drain DrainFunc[Result]) error {
	for index, current := range slots {
		<-current.done
		if current.err != nil {
			return current.err
		}
		if drain == nil {
			continue
		}
		if drainError := drain(index, current.result); drainError != nil {
			return drainError
		}
	}
	return nil
}
