package worker

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Results maps each backlog key to its Result.
type Results[T any] struct {
	order []string
	byKey map[string]Result[T]
}

func newResults[T any](backlog []Item) *Results[T] {
	r := &Results[T]{
		order: make([]string, 0, len(backlog)),
		byKey: make(map[string]Result[T], len(backlog)),
	}
	seen := make(map[string]struct{}, len(backlog))
	for _, item := range backlog {
		if _, dup := seen[item.Key]; dup {
			panic(fmt.Sprintf("worker: duplicate key %q in backlog", item.Key))
		}
		seen[item.Key] = struct{}{}
		r.order = append(r.order, item.Key)
	}
	return r
}

func (r *Results[T]) record(res Result[T]) {
	r.byKey[res.Item.Key] = res
}

// Get returns the Result for key.
func (r *Results[T]) Get(key string) (Result[T], bool) {
	res, ok := r.byKey[key]
	return res, ok
}

// Len is the number of recorded results.
func (r *Results[T]) Len() int {
	return len(r.byKey)
}

// Ordered returns the results in backlog order.
func (r *Results[T]) Ordered() []Result[T] {
	out := make([]Result[T], 0, len(r.byKey))
	for _, key := range r.order {
		if res, ok := r.byKey[key]; ok {
			out = append(out, res)
		}
	}
	return out
}

// Succeeded returns the successful results in backlog order.
func (r *Results[T]) Succeeded() []Result[T] {
	var out []Result[T]
	for _, res := range r.Ordered() {
		if res.Err == nil {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the failed results in backlog order.
func (r *Results[T]) Failed() []Result[T] {
	var out []Result[T]
	for _, res := range r.Ordered() {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every failure, or returns nil if all items succeeded.
func (r *Results[T]) Err() error {
	var errs *multierror.Error
	for _, res := range r.Failed() {
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", res.Item.Key, res.Err))
	}
	return errs.ErrorOrNil()
}
