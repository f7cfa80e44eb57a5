package internal

import (
	"log/slog"
	"time"
)

// Runtime is one reactive graph: its tracking stack, batch depth,
// watcher queue and configuration. A runtime is not safe for concurrent use.
type Runtime struct {
	id uint64

	logger    *slog.Logger
	equal     EqualFunc
	observer  observers
	flushMode FlushMode
	maxRuns   int

	tracker   *Tracker
	batcher   *Batcher
	scheduler *Scheduler
	queue     *EffectQueue
	settled   *SettledQueues
}

func NewRuntime(opts ...Option) *Runtime {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := nextID()

	return &Runtime{
		id: id,

		logger:    cfg.Logger.With(slog.Uint64("runtime", id)),
		equal:     cfg.Equal,
		observer:  observers(cfg.Observers),
		flushMode: cfg.FlushMode,
		maxRuns:   cfg.RecursionLimit,

		tracker:   NewTracker(),
		batcher:   NewBatcher(),
		scheduler: NewScheduler(),
		queue:     NewEffectQueue(),
		settled:   NewSettledQueues(),
	}
}

func (r *Runtime) ID() uint64 { return r.id }

func (r *Runtime) Logger() *slog.Logger { return r.logger }

func (r *Runtime) Equal() EqualFunc { return r.equal }

// Schedule requests a flush, performed right away unless batching,
// already flushing, or in manual mode.
func (r *Runtime) Schedule() {
	r.scheduler.Schedule()

	if r.flushMode == FlushSync && !r.batcher.IsBatching() {
		r.Flush()
	}
}

// Flush runs queued watchers until the graph settles.
//
// Each pass runs the render watchers queued so far, then the user ones.
// Watchers queued while a pass runs are picked up by the next pass.
func (r *Runtime) Flush() {
	r.scheduler.Run(func() {
		// a write from inside a derivation must not attribute watcher cleanups to it
		Use(r, func() { r.tracker.RunUntracked(r.flush) })
	})
}

func (r *Runtime) flush() {
	start := time.Now()
	stats := FlushStats{}
	runs := make(map[*Watcher]int)

	run := func(w *Watcher) {
		if w.stopped {
			return
		}

		runs[w]++
		if runs[w] > r.maxRuns {
			w.state = StateClean
			r.logger.Error("flush aborted",
				slog.String("watcher", w.Info().Label()),
				slog.Int("limit", r.maxRuns),
			)
			panic(&RecursionError{Watcher: w.Info(), Limit: r.maxRuns})
		}

		if w.flush() {
			stats.Runs++
		}
	}

	for {
		for r.queue.Len() > 0 {
			stats.Passes++

			r.queue.RunEffects(EffectRender, run)
			r.settled.Run(EffectRender)

			r.queue.RunEffects(EffectUser, run)
			r.settled.Run(EffectUser)
		}

		// settled callbacks may write again
		r.settled.RunAll()
		if r.queue.Len() == 0 {
			break
		}
	}

	stats.Duration = time.Since(start)
	r.observer.OnFlush(stats)
	r.logger.Debug("flushed",
		slog.Int("tick", r.scheduler.Time()),
		slog.Int("passes", stats.Passes),
		slog.Int("runs", stats.Runs),
		slog.Duration("took", stats.Duration),
	)
}

func (r *Runtime) Batch(fn func()) {
	r.batcher.Batch(fn, func() {
		if r.flushMode == FlushSync && r.scheduler.IsScheduled() {
			r.Flush()
		}
	})
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) IsTracking() bool {
	return r.tracker.ShouldTrack()
}

func (r *Runtime) IsBatching() bool {
	return r.batcher.IsBatching()
}

// IsFlushing reports whether queued watchers are being run.
func (r *Runtime) IsFlushing() bool {
	return r.scheduler.IsRunning()
}

// Pending returns the number of watchers waiting for the next flush.
func (r *Runtime) Pending() int {
	return r.queue.Len()
}

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

// OnCleanup registers fn on the current owner, if any.
func (r *Runtime) OnCleanup(fn func()) {
	owner := r.CurrentOwner()
	if owner != nil {
		owner.OnCleanup(fn)
	}
}

// OnSettled registers fn to run once the next flush has drained the queue.
func (r *Runtime) OnSettled(fn func()) {
	r.settled.Enqueue(settledAll, fn)
}

// OnTypeSettled registers fn to run after the next pass of watchers of type typ.
func (r *Runtime) OnTypeSettled(typ EffectType, fn func()) {
	r.settled.Enqueue(settledKind(typ), fn)
}

// cycleError builds the error for c being re-entered and marks every
// evaluation from c inwards as failed, so a derivation recovering from it
// cannot cache a result.
func (r *Runtime) cycleError(c *Computed) *CycleError {
	nodes := r.tracker.path(c)

	path := make([]string, 0, len(nodes)+1)
	for _, node := range nodes {
		path = append(path, node.Info().Label())
	}
	path = append(path, c.Info().Label())

	err := &CycleError{Path: path}
	for _, node := range nodes {
		if computing, ok := node.(*Computed); ok {
			computing.cycle = err
		}
	}
	r.observer.OnCycle(err)
	r.logger.Warn("cyclic dependency", slog.String("path", err.Error()))

	return err
}
