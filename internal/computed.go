package internal

import (
	"log/slog"
	"time"
)

// Computed is a lazily evaluated, cached derivation.
//
// It moves through clean -> check/dirty -> clean: writes upstream only
// mark it, the derivation runs on the next read that finds it dirty.
type Computed struct {
	Source

	rt *Runtime

	state     State
	computing bool
	evaluated bool
	disposed  bool
	warned    bool

	// set when a read during the current evaluation hit a cycle,
	// even if the derivation recovered from it
	cycle *CycleError

	compute func() any
	value   any
	equal   EqualFunc // nil uses the runtime equality

	// dependencies read during the last evaluation
	deps *DepSet
}

func (r *Runtime) NewComputed(compute func() any) *Computed {
	c := &Computed{
		Source:  newSource(KindComputed),
		rt:      r,
		state:   StateDirty,
		compute: compute,
	}

	// created during a watcher run, it only lives until the next run
	if owner := r.CurrentOwner(); owner != nil {
		owner.OnCleanup(c.Dispose)
	}

	return c
}

func (c *Computed) source() *Source { return &c.Source }

func (c *Computed) Runtime() *Runtime { return c.rt }

func (c *Computed) SetEqual(fn EqualFunc) { c.equal = fn }

func (c *Computed) State() State { return c.state }

// Read refreshes the value if needed and tracks the dependency if within a reactive context.
// Panics with a *CycleError if the computed is read during its own evaluation.
func (c *Computed) Read() any {
	c.refresh()

	if c.disposed && !c.warned && c.rt.tracker.ShouldTrack() {
		c.warned = true
		c.rt.logger.Warn("disposed computed read, the reader will not be notified of changes",
			slog.String("computed", c.info.Label()),
		)
	}
	c.rt.tracker.Track(c)

	return c.value
}

// Peek refreshes the value if needed without tracking.
func (c *Computed) Peek() any {
	c.refresh()

	return c.value
}

func (c *Computed) refresh() {
	if c.computing {
		panic(c.rt.cycleError(c))
	}

	if c.state == StateCheck {
		if depsChanged(c.deps) {
			c.state = StateDirty
		} else {
			c.state = StateClean
		}
	}

	if c.state == StateDirty || c.disposed {
		c.recompute()
	}
}

func (c *Computed) recompute() {
	c.computing = true
	c.cycle = nil
	// optimistic: a dependency written during the derivation puts it back to dirty
	c.state = StateClean

	completed := false
	defer func() {
		c.computing = false
		if !completed {
			c.state = StateDirty
		}
	}()

	var value any
	start := time.Now()
	var deps *DepSet
	Use(c.rt, func() {
		deps = c.rt.tracker.RunTracked(c, func() {
			value = c.compute()
		})
	})

	if err := c.cycle; err != nil {
		c.cycle = nil
		panic(err)
	}
	completed = true

	if !c.disposed {
		relink(c, c.deps, deps)
		c.deps = deps
	}

	if !c.evaluated || !c.equals(c.value, value) {
		c.value = value
		c.version++
	}
	c.evaluated = true

	c.rt.observer.OnCompute(c.info, time.Since(start))
}

func (c *Computed) notify(level State) {
	if c.state >= level {
		return
	}

	prev := c.state
	c.state = level

	if prev == StateClean {
		c.propagate(StateCheck)
	}
}

// Dispose detaches the computed from its dependencies.
// It can still be read, recomputing on every read, but nodes reading it
// are no longer notified when its dependencies change.
func (c *Computed) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true

	unlinkAll(c, c.deps)
	c.deps = nil
	c.state = StateDirty
}

func (c *Computed) equals(a, b any) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return c.rt.equal(a, b)
}
