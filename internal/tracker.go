package internal

// frame is one level of the tracking stack.
// A nil node means reads are not tracked (Untrack).
type frame struct {
	node Subscriber
	deps *DepSet
}

type Tracker struct {
	stack []*frame

	currentOwner *Owner // for lifecycle/cleanup tracking
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// RunTracked runs fn with node as the active subscriber and returns
// every dependency read during the call, in read order.
func (t *Tracker) RunTracked(node Subscriber, fn func()) *DepSet {
	f := &frame{node: node, deps: NewDepSet()}

	t.stack = append(t.stack, f)
	defer t.pop()

	fn()

	return f.deps
}

// RunUntracked runs fn without attributing reads to any subscriber.
func (t *Tracker) RunUntracked(fn func()) {
	t.stack = append(t.stack, &frame{})
	defer t.pop()

	fn()
}

func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	prev := t.currentOwner
	t.currentOwner = owner
	defer func() { t.currentOwner = prev }()

	fn()
}

func (t *Tracker) pop() {
	t.stack[len(t.stack)-1] = nil
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Tracker) top() *frame {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// Track registers dep with the active subscriber, if any.
func (t *Tracker) Track(dep Dependency) {
	if f := t.top(); f != nil && f.node != nil {
		f.deps.Add(dep)
	}
}

// ShouldTrack reports whether a read right now would register a dependency.
func (t *Tracker) ShouldTrack() bool {
	f := t.top()
	return f != nil && f.node != nil
}

func (t *Tracker) CurrentOwner() *Owner {
	return t.currentOwner
}

// path returns the subscribers from the outermost frame evaluating node
// up to the innermost frame.
func (t *Tracker) path(node Subscriber) []Subscriber {
	start := -1
	for i, f := range t.stack {
		if f.node == node {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	nodes := []Subscriber{}
	for _, f := range t.stack[start:] {
		if f.node != nil {
			nodes = append(nodes, f.node)
		}
	}

	return nodes
}
