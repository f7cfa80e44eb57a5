package reactive

import "github.com/AnatoleLucet/reactive/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

func equalFunc[T any](fn func(a, b T) bool) internal.EqualFunc {
	if fn == nil {
		return nil
	}

	return func(a, b any) bool {
		return fn(as[T](a), as[T](b))
	}
}

// Readable is implemented by both signals and computeds.
type Readable[T any] interface {
	Read() T
	Peek() T
}

var (
	_ Readable[int] = (*Signal[int])(nil)
	_ Readable[int] = (*Computed[int])(nil)
)

type Signal[T any] struct {
	signal *internal.Signal
}

// NewSignal creates a read/write signal (a "ref") in the current runtime.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		internal.GetRuntime().NewSignal(initial),
	}
}

// Read the current value of the signal, tracking the dependency if within a reactive context.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.Read())
}

// Peek reads the current value without tracking it.
func (s *Signal[T]) Peek() T {
	return as[T](s.signal.Peek())
}

// Write a new value to the signal, triggering updates to any dependents.
// Writing a value equal to the current one does nothing.
func (s *Signal[T]) Write(v T) {
	s.signal.Write(v)
}

// Update writes fn applied to the current value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Write(fn(s.Peek()))
}

// WithEquals overrides the equality used to skip redundant writes.
func (s *Signal[T]) WithEquals(fn func(a, b T) bool) *Signal[T] {
	s.signal.SetEqual(equalFunc(fn))
	return s
}

// Named sets the name used in logs, errors and observers.
func (s *Signal[T]) Named(name string) *Signal[T] {
	s.signal.SetName(name)
	return s
}

func (s *Signal[T]) Info() NodeInfo {
	return s.signal.Info()
}

type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a derived value (a memo). The derivation only runs
// when the value is read and one of the dependencies it read last time changed.
func NewComputed[T any](compute func() T) *Computed[T] {
	return &Computed[T]{
		internal.GetRuntime().NewComputed(func() any {
			return compute()
		}),
	}
}

// Read the current value of the computed, tracking the dependency if within a reactive context.
// Panics with a *CycleError if the computed depends on itself.
func (c *Computed[T]) Read() T {
	return as[T](c.computed.Read())
}

// Get is Read, returning a cyclic dependency as an error instead of panicking.
func (c *Computed[T]) Get() (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			cycle, ok := r.(*internal.CycleError)
			if !ok {
				panic(r)
			}
			err = cycle
		}
	}()

	return c.Read(), nil
}

// Peek reads the current value without tracking it.
func (c *Computed[T]) Peek() T {
	return as[T](c.computed.Peek())
}

// Dirty reports whether one of the dependencies changed since the last evaluation.
func (c *Computed[T]) Dirty() bool {
	return c.computed.State() != internal.StateClean
}

// WithEquals overrides the equality deciding whether a new result is a change.
func (c *Computed[T]) WithEquals(fn func(a, b T) bool) *Computed[T] {
	c.computed.SetEqual(equalFunc(fn))
	return c
}

// Named sets the name used in logs, errors and observers.
func (c *Computed[T]) Named(name string) *Computed[T] {
	c.computed.SetName(name)
	return c
}

func (c *Computed[T]) Info() NodeInfo {
	return c.computed.Info()
}

// Batch groups writes so watchers run once, after fn returns.
func Batch(fn func()) {
	internal.GetRuntime().Batch(fn)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// IsTracking reports whether a read right now would register a dependency.
func IsTracking() bool {
	return internal.GetRuntime().IsTracking()
}

// OnCleanup registers a function to be called when the current owner is disposed,
// or before the current watcher runs again.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}
