package internal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCyclicDependency is matched by errors raised when a computed
// (transitively) reads itself while being evaluated.
var ErrCyclicDependency = errors.New("reactive: cyclic dependency")

// ErrRecursionLimit is matched by errors raised when a watcher keeps
// re-triggering itself within a single flush.
var ErrRecursionLimit = errors.New("reactive: maximum recursive updates exceeded")

// CycleError reports the chain of nodes that led back to a computed
// still being evaluated.
type CycleError struct {
	// Path lists node labels from the computed that re-entered itself
	// to the innermost reader, the last entry being the re-entered node again.
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCyclicDependency.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// RecursionError reports the watcher that exceeded the recursion limit.
type RecursionError struct {
	Watcher NodeInfo
	Limit   int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("%s: %s ran more than %d times in one flush", ErrRecursionLimit, e.Watcher.Label(), e.Limit)
}

func (e *RecursionError) Is(target error) bool {
	return target == ErrRecursionLimit
}

// PanicError wraps a value recovered from a panicking callback
// so it can be aggregated with other errors.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("reactive: panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r}
}
