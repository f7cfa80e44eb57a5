package internal

import (
	"fmt"
	"log/slog"
	"time"
)

type EffectType int

const (
	EffectRender EffectType = iota
	EffectUser
)

func (t EffectType) String() string {
	switch t {
	case EffectRender:
		return "render"
	case EffectUser:
		return "user"
	default:
		return fmt.Sprintf("EffectType(%d)", t)
	}
}

type WatchOptions struct {
	// Immediate invokes the callback at registration with a nil old value.
	Immediate bool
	// Once stops the watcher after the first callback.
	Once bool
	// Equal decides whether the watched value changed, defaults to the runtime equality.
	Equal EqualFunc
}

// Watcher is either an effect, re-run as a whole whenever one of the
// dependencies it read changes, or an explicit watch: a getter tracked
// like an effect and a callback receiving the new and old getter values.
type Watcher struct {
	*Owner

	info NodeInfo
	rt   *Runtime
	typ  EffectType

	state   State
	stopped bool
	warned  bool

	// dependencies read during the last run
	deps *DepSet

	effect func()

	getter   func() any
	callback func(newValue, oldValue any)
	value    any
	equal    EqualFunc
	once     bool
}

func (r *Runtime) newWatcher(typ EffectType) *Watcher {
	w := &Watcher{
		Owner: r.NewOwner(),
		info:  NodeInfo{ID: nextID(), Kind: KindWatcher},
		rt:    r,
		typ:   typ,
	}
	w.OnDispose(w.stop)

	return w
}

// NewEffect creates a watcher running fn right away and again each time
// a dependency read during the previous run changes.
func (r *Runtime) NewEffect(typ EffectType, fn func()) *Watcher {
	w := r.newWatcher(typ)
	w.effect = fn

	w.execute()

	return w
}

// NewWatch creates a watcher calling callback each time the value returned
// by getter changes. The getter runs right away to record the baseline.
func (r *Runtime) NewWatch(getter func() any, callback func(newValue, oldValue any), opts WatchOptions) *Watcher {
	w := r.newWatcher(EffectUser)
	w.getter = getter
	w.callback = callback
	w.equal = opts.Equal
	w.once = opts.Once

	Use(r, func() {
		defer w.recover()

		w.value = w.collect()
		if opts.Immediate {
			w.invoke(w.value, nil)
		}
	})

	return w
}

func (w *Watcher) Info() NodeInfo { return w.info }

func (w *Watcher) SetName(name string) { w.info.Name = name }

func (w *Watcher) Type() EffectType { return w.typ }

func (w *Watcher) State() State { return w.state }

func (w *Watcher) Stopped() bool { return w.stopped }

// Stop disposes the watcher: cleanups run, dependencies are dropped
// and it will never run again.
func (w *Watcher) Stop() {
	if w.stopped {
		return
	}

	parent := w.Parent()
	if err := w.Dispose(); err != nil {
		if parent != nil {
			parent.handle(err)
			return
		}
		panic(err)
	}
}

func (w *Watcher) notify(level State) {
	if w.stopped || w.state >= level {
		return
	}

	w.state = level
	w.rt.queue.Enqueue(w)
}

// flush is called by the runtime queue, it reports whether the watcher ran.
func (w *Watcher) flush() (ran bool) {
	defer w.recover()

	if w.stopped || w.state == StateClean {
		return false
	}

	state := w.state
	w.state = StateClean

	if state == StateCheck && !depsChanged(w.deps) {
		return false
	}

	w.run()
	return true
}

func (w *Watcher) execute() {
	defer w.recover()

	w.run()
}

func (w *Watcher) run() {
	w.state = StateClean
	start := time.Now()

	// nodes created or cleanups registered by user code belong to this runtime
	Use(w.rt, func() {
		if w.effect != nil {
			w.runEffect()
		} else {
			w.runWatch()
		}
	})

	w.rt.observer.OnRun(w.info, w.typ, time.Since(start))
}

func (w *Watcher) runEffect() {
	if err := w.Reset(); err != nil {
		panic(err)
	}

	deps := w.rt.tracker.RunTracked(w, func() {
		w.rt.tracker.RunWithOwner(w.Owner, w.effect)
	})

	if w.stopped {
		return
	}

	relink(w, w.deps, deps)
	w.deps = deps

	if deps.Len() == 0 && !w.warned {
		w.warned = true
		w.rt.logger.Warn("effect read no reactive value, it will not re-run",
			slog.String("watcher", w.info.Label()),
		)
	}
}

func (w *Watcher) runWatch() {
	value := w.collect()
	if w.stopped || w.equals(value, w.value) {
		return
	}

	old := w.value
	w.value = value

	w.invoke(value, old)
}

// collect runs the getter, tracking what it reads.
func (w *Watcher) collect() any {
	var value any

	deps := w.rt.tracker.RunTracked(w, func() {
		value = w.getter()
	})

	if !w.stopped {
		relink(w, w.deps, deps)
		w.deps = deps
	}

	return value
}

// invoke runs the previous callback cleanups then the callback, untracked.
func (w *Watcher) invoke(newValue, oldValue any) {
	if err := w.Reset(); err != nil {
		panic(err)
	}

	w.rt.tracker.RunUntracked(func() {
		w.rt.tracker.RunWithOwner(w.Owner, func() {
			w.callback(newValue, oldValue)
		})
	})

	if w.once {
		w.Stop()
	}
}

func (w *Watcher) equals(a, b any) bool {
	if w.equal != nil {
		return w.equal(a, b)
	}
	return w.rt.equal(a, b)
}

// stop is the dispose hook of the watcher owner.
func (w *Watcher) stop() {
	if w.stopped {
		return
	}
	w.stopped = true

	unlinkAll(w, w.deps)
	w.deps = nil
	w.rt.queue.Remove(w)

	w.rt.logger.Debug("watcher stopped", slog.String("watcher", w.info.Label()))
}
