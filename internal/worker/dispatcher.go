// Package worker runs a backlog of jobs with a fixed cap on how many are in
// flight at once.
//
// A single dispatcher loop owns the scheduling state: how many jobs are
// active, the index of the next job that has never been started, and how
// many have completed. Jobs report back over a channel, so none of that
// state is shared between goroutines and no locks are needed.
package worker

import (
	"context"
	"fmt"
)

// Item is one unit of work. Key must be unique within a backlog; Path and
// Digest are carried through to the task untouched.
type Item struct {
	Key    string
	Path   string
	Digest string
}

// Task processes a single item.
type Task[T any] func(ctx context.Context, item Item) (T, error)

// Result is the outcome of exactly one item.
type Result[T any] struct {
	Item  Item
	Value T
	Err   error
}

// Dispatcher runs backlogs with at most Limit tasks in flight.
type Dispatcher[T any] struct {
	Limit    int
	Observer Observer[T]
}

// Run is shorthand for a Dispatcher without an observer.
func Run[T any](ctx context.Context, backlog []Item, limit int, task func(context.Context, Item) (T, error)) *Results[T] {
	d := &Dispatcher[T]{Limit: limit}
	return d.Run(ctx, backlog, task)
}

// Run starts the first Limit items of backlog and then starts the next
// never-started item each time one completes, until every item has a
// Result. Task errors and panics become failed Results; they never stop the
// remaining items. Run returns once the whole backlog has drained.
func (d *Dispatcher[T]) Run(ctx context.Context, backlog []Item, task Task[T]) *Results[T] {
	limit := d.Limit
	if limit < 1 {
		limit = 1
	}
	obs := d.Observer
	if obs == nil {
		obs = nopObserver[T]{}
	}

	results := newResults[T](backlog)
	total := len(backlog)
	if total == 0 {
		obs.OnDone(0, 0)
		return results
	}

	done := make(chan Result[T], limit)
	var next, active, completed int

	start := func() {
		item := backlog[next]
		next++
		active++
		obs.OnStart(item, active)
		go execute(ctx, item, task, done)
	}

	for next < total && active < limit {
		start()
	}

	for completed < total {
		res := <-done
		active--
		completed++
		results.record(res)
		obs.OnComplete(Event[T]{
			Completed: completed,
			Total:     total,
			Active:    active,
			Result:    res,
		})

		if next < total {
			start()
		}
	}

	obs.OnDone(completed, total)
	return results
}

func execute[T any](ctx context.Context, item Item, task Task[T], done chan<- Result[T]) {
	res := Result[T]{Item: item}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("task %s panicked: %v", item.Key, r)
		}
		done <- res
	}()

	res.Value, res.Err = task(ctx, item)
}
