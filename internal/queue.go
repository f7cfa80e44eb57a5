package internal

type EffectQueue struct {
	effects map[EffectType]*PriorityHeap
}

func NewEffectQueue() *EffectQueue {
	effects := make(map[EffectType]*PriorityHeap)
	effects[EffectRender] = NewHeap()
	effects[EffectUser] = NewHeap()

	return &EffectQueue{effects}
}

func (q *EffectQueue) Enqueue(w *Watcher) {
	q.effects[w.typ].Insert(w)
}

func (q *EffectQueue) Remove(w *Watcher) {
	q.effects[w.typ].Remove(w)
}

// RunEffects runs every watcher of type typ queued so far.
func (q *EffectQueue) RunEffects(typ EffectType, run func(*Watcher)) {
	q.effects[typ].Drain(run)
}

func (q *EffectQueue) Len() int {
	n := 0
	for _, h := range q.effects {
		n += h.Len()
	}
	return n
}

// settledKind is an EffectType, or settledAll for the end of a flush.
type settledKind int

const settledAll settledKind = -1

// SettledQueues holds one-shot callbacks waiting for a flush to reach
// a given point.
type SettledQueues struct {
	callbacks map[settledKind][]func()
}

func NewSettledQueues() *SettledQueues {
	return &SettledQueues{
		callbacks: make(map[settledKind][]func()),
	}
}

func (q *SettledQueues) Enqueue(kind settledKind, fn func()) {
	q.callbacks[kind] = append(q.callbacks[kind], fn)
}

func (q *SettledQueues) Run(typ EffectType) {
	q.run(settledKind(typ))
}

func (q *SettledQueues) RunAll() {
	q.run(settledAll)
}

func (q *SettledQueues) run(kind settledKind) {
	callbacks := q.callbacks[kind]
	if len(callbacks) == 0 {
		return
	}
	delete(q.callbacks, kind)

	for _, cb := range callbacks {
		cb()
	}
}
