package reactive

import "github.com/AnatoleLucet/reactive/internal"

type Watcher struct {
	watcher *internal.Watcher
}

// NewEffect creates a reactive effect that runs the given function now,
// and again whenever one of the dependencies it read changes.
func NewEffect(fn func()) *Watcher {
	return &Watcher{internal.GetRuntime().NewEffect(internal.EffectUser, fn)}
}

// NewRenderEffect is NewEffect for rendering work: render effects run
// before user effects within a flush.
func NewRenderEffect(fn func()) *Watcher {
	return &Watcher{internal.GetRuntime().NewEffect(internal.EffectRender, fn)}
}

// Mount creates a render unit: render runs now and again whenever
// a value it read changes, until unmount is called.
func Mount(render func()) (unmount func()) {
	return NewRenderEffect(render).Stop
}

type WatchOption func(*internal.WatchOptions)

// Immediate also invokes the callback at registration, with a zero old value.
func Immediate() WatchOption {
	return func(o *internal.WatchOptions) { o.Immediate = true }
}

// Once stops the watcher after the first callback.
func Once() WatchOption {
	return func(o *internal.WatchOptions) { o.Once = true }
}

// Watch calls callback with the new and old values each time the value
// returned by source changes. Only the reads made by source are tracked.
func Watch[T any](source func() T, callback func(newValue, oldValue T), opts ...WatchOption) *Watcher {
	options := internal.WatchOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return &Watcher{
		internal.GetRuntime().NewWatch(
			func() any { return source() },
			func(newValue, oldValue any) { callback(as[T](newValue), as[T](oldValue)) },
			options,
		),
	}
}

// WatchAll is Watch over several sources, the callback runs when at least one changed.
func WatchAll[T any](sources []func() T, callback func(newValues, oldValues []T), opts ...WatchOption) *Watcher {
	rt := internal.GetRuntime()

	options := internal.WatchOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	// compare element by element, a fresh slice is collected on every run
	options.Equal = func(a, b any) bool {
		x, y := as[[]T](a), as[[]T](b)
		if b == nil || len(x) != len(y) {
			return false
		}

		for i := range x {
			if !rt.Equal()(x[i], y[i]) {
				return false
			}
		}
		return true
	}

	return &Watcher{
		rt.NewWatch(
			func() any {
				values := make([]T, len(sources))
				for i, source := range sources {
					values[i] = source()
				}
				return values
			},
			func(newValue, oldValue any) { callback(as[[]T](newValue), as[[]T](oldValue)) },
			options,
		),
	}
}

// Stop the watcher: its cleanups run and it never runs again.
func (w *Watcher) Stop() { w.watcher.Stop() }

func (w *Watcher) Stopped() bool { return w.watcher.Stopped() }

// Named sets the name used in logs, errors and observers.
func (w *Watcher) Named(name string) *Watcher {
	w.watcher.SetName(name)
	return w
}

func (w *Watcher) Info() NodeInfo { return w.watcher.Info() }
