package internal

import "log/slog"

type Signal struct {
	Source

	rt *Runtime

	value any
	equal EqualFunc // nil uses the runtime equality
}

func (r *Runtime) NewSignal(initial any) *Signal {
	return &Signal{
		Source: newSource(KindSignal),
		rt:     r,
		value:  initial,
	}
}

func (s *Signal) source() *Source { return &s.Source }

func (s *Signal) refresh() {}

func (s *Signal) Runtime() *Runtime { return s.rt }

func (s *Signal) SetEqual(fn EqualFunc) { s.equal = fn }

// Read returns the current value, tracking the dependency if within a reactive context.
func (s *Signal) Read() any {
	s.rt.tracker.Track(s)

	return s.value
}

// Peek returns the current value without tracking.
func (s *Signal) Peek() any {
	return s.value
}

// Write stores v and notifies dependents, unless v equals the current value.
func (s *Signal) Write(v any) {
	if s.equals(s.value, v) {
		s.rt.logger.Debug("write skipped", slog.String("signal", s.info.Label()))
		return
	}

	s.value = v
	s.version++
	s.rt.observer.OnWrite(s.info)

	// direct subscribers are dirty, theirs will only need a check
	s.propagate(StateDirty)
	s.rt.Schedule()
}

func (s *Signal) equals(a, b any) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return s.rt.equal(a, b)
}
