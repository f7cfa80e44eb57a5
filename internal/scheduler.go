package internal

type Scheduler struct {
	// incremented each time the scheduler is flushed
	clock int

	scheduled bool
	running   bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		clock: 0,

		scheduled: false,
		running:   false,
	}
}

// Run calls fn if a flush was scheduled and none is in progress.
// Nested calls (writes from within fn) are no-ops, fn is expected to loop
// until there is no more work.
func (s *Scheduler) Run(fn func()) {
	if s.running || !s.scheduled {
		return
	}

	s.scheduled = false
	s.running = true
	defer func() {
		s.scheduled = false
		s.running = false
	}()

	fn()

	s.clock++
}

func (s *Scheduler) Schedule() {
	s.scheduled = true
}

func (s *Scheduler) IsScheduled() bool {
	return s.scheduled
}

func (s *Scheduler) IsRunning() bool {
	return s.running
}

// Time returns the number of completed flushes.
func (s *Scheduler) Time() int {
	return s.clock
}
