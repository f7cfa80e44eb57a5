package internal

import (
	"fmt"
	"sync/atomic"
)

// State is the freshness of a derived node (computed or watcher).
//
// The order matters: a node only ever moves "up" when notified
// (clean -> check -> dirty) and goes back to clean once refreshed.
type State uint8

const (
	// StateClean means the cached value/run is current.
	StateClean State = iota
	// StateCheck means an upstream computed may have changed,
	// the node must verify its dependencies before recomputing.
	StateCheck
	// StateDirty means a direct dependency changed, the node must recompute.
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateCheck:
		return "check"
	case StateDirty:
		return "dirty"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// NodeKind identifies the concrete type behind a node.
type NodeKind uint8

const (
	KindSignal NodeKind = iota
	KindComputed
	KindWatcher
)

func (k NodeKind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindComputed:
		return "computed"
	case KindWatcher:
		return "watcher"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// NodeInfo describes a node to loggers and observers.
type NodeInfo struct {
	ID   uint64
	Name string
	Kind NodeKind
}

// Label is the human readable name of the node.
func (n NodeInfo) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("%s#%d", n.Kind, n.ID)
}

var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// Subscriber is a node that reacts to changes of its dependencies.
type Subscriber interface {
	// notify is called by a dependency that (maybe) changed.
	notify(level State)

	Info() NodeInfo
}

// Dependency is a node that can be read and tracked.
type Dependency interface {
	source() *Source

	// refresh brings the node up to date before its version is compared.
	// No-op for signals.
	refresh()
}

// Source is the subscriber bookkeeping shared by signals and computeds.
type Source struct {
	info NodeInfo

	// bumped each time the observable value changes
	version uint64

	subs *OrderedSet[Subscriber]
}

func newSource(kind NodeKind) Source {
	return Source{
		info: NodeInfo{ID: nextID(), Kind: kind},
		subs: NewOrderedSet[Subscriber](),
	}
}

func (s *Source) Info() NodeInfo { return s.info }

func (s *Source) SetName(name string) { s.info.Name = name }

func (s *Source) Version() uint64 { return s.version }

func (s *Source) subscribe(sub Subscriber) { s.subs.Add(sub) }

func (s *Source) unsubscribe(sub Subscriber) { s.subs.Remove(sub) }

// SubscriberCount returns the number of nodes currently depending on this source.
func (s *Source) SubscriberCount() int { return s.subs.Len() }

// propagate notifies every current subscriber.
// Iterates over a copy since notified nodes may unsubscribe.
func (s *Source) propagate(level State) {
	for _, sub := range s.subs.Snapshot() {
		sub.notify(level)
	}
}

// relink diffs the dependencies observed during the last run of `sub`
// against the previous ones, keeping source subscriptions in sync.
func relink(sub Subscriber, prev, next *DepSet) {
	if prev != nil {
		for dep := range prev.All() {
			if !next.Has(dep) {
				dep.source().unsubscribe(sub)
			}
		}
	}

	for dep := range next.All() {
		if prev == nil || !prev.Has(dep) {
			dep.source().subscribe(sub)
		}
	}
}

// unlinkAll removes `sub` from every source in deps.
func unlinkAll(sub Subscriber, deps *DepSet) {
	if deps == nil {
		return
	}

	for dep := range deps.All() {
		dep.source().unsubscribe(sub)
	}
}

// depsChanged refreshes every dependency in read order and reports
// whether one of them moved past the version observed during the last run.
func depsChanged(deps *DepSet) bool {
	if deps == nil {
		return true
	}

	for dep := range deps.All() {
		dep.refresh()

		if dep.source().version != deps.Version(dep) {
			return true
		}
	}

	return false
}
