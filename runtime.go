package reactive

import (
	"log/slog"

	"github.com/AnatoleLucet/reactive/internal"
)

type (
	Option     = internal.Option
	EqualFunc  = internal.EqualFunc
	FlushMode  = internal.FlushMode
	Observer   = internal.Observer
	FlushStats = internal.FlushStats
	NodeInfo   = internal.NodeInfo
	NodeKind   = internal.NodeKind
	EffectType = internal.EffectType

	NopObserver = internal.NopObserver
)

const (
	FlushSync   = internal.FlushSync
	FlushManual = internal.FlushManual

	EffectRender = internal.EffectRender
	EffectUser   = internal.EffectUser
)

var (
	// Identical compares with == (slices and maps by reference). The default.
	Identical  EqualFunc = internal.Identical
	// Structural compares values deeply, unexported fields included.
	Structural EqualFunc = internal.Structural
)

// WithLogger sets the structured logger of the runtime. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option { return internal.WithLogger(logger) }

// WithEquality sets the equality used to skip redundant writes and recomputations.
func WithEquality(fn EqualFunc) Option { return internal.WithEquality(fn) }

// WithObserver adds an observer notified of writes, evaluations, watcher runs and flushes.
func WithObserver(o Observer) Option { return internal.WithObserver(o) }

// WithFlushMode chooses between flushing after each write (FlushSync)
// and flushing on Runtime.Flush only (FlushManual).
func WithFlushMode(mode FlushMode) Option { return internal.WithFlushMode(mode) }

// WithRecursionLimit sets how many times a watcher may run within a single flush.
func WithRecursionLimit(n int) Option { return internal.WithRecursionLimit(n) }

// Runtime is an independent reactive graph.
// Nodes created while a runtime is bound with Run belong to it.
type Runtime struct {
	rt *internal.Runtime
}

func NewRuntime(opts ...Option) *Runtime {
	return &Runtime{internal.NewRuntime(opts...)}
}

// Default returns the runtime nodes are currently created in by the calling goroutine.
func Default() *Runtime {
	return &Runtime{internal.GetRuntime()}
}

// Run binds the runtime to the calling goroutine for the duration of fn.
func (r *Runtime) Run(fn func()) {
	internal.Use(r.rt, fn)
}

// Flush runs the queued watchers. Required in FlushManual mode.
func (r *Runtime) Flush() {
	r.rt.Flush()
}

func (r *Runtime) Batch(fn func()) {
	r.rt.Batch(fn)
}

func (r *Runtime) IsBatching() bool {
	return r.rt.IsBatching()
}

// IsFlushing reports whether the runtime is running queued watchers.
func (r *Runtime) IsFlushing() bool {
	return r.rt.IsFlushing()
}

// Pending returns the number of watchers waiting for the next flush.
func (r *Runtime) Pending() int {
	return r.rt.Pending()
}

func (r *Runtime) Logger() *slog.Logger {
	return r.rt.Logger()
}

// Flush runs the watchers queued in the current runtime.
func Flush() {
	internal.GetRuntime().Flush()
}

// Release forgets the default runtime of the calling goroutine.
func Release() {
	internal.Release()
}

// OnSettled registers fn to run once, when the next flush is done.
func OnSettled(fn func()) {
	internal.GetRuntime().OnSettled(fn)
}

// OnUserSettled registers fn to run once, after the next pass of user effects.
func OnUserSettled(fn func()) {
	internal.GetRuntime().OnTypeSettled(internal.EffectUser, fn)
}

// OnRenderSettled registers fn to run once, after the next pass of render effects.
func OnRenderSettled(fn func()) {
	internal.GetRuntime().OnTypeSettled(internal.EffectRender, fn)
}
