package internal

import (
	"iter"
	"slices"
)

// OrderedSet is a set that remembers insertion order.
type OrderedSet[T comparable] struct {
	items []T
	index map[T]int
}

func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{
		index: make(map[T]int),
	}
}

// Add appends v if not already present and reports whether it was added.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}

	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Remove deletes v, keeping the order of the remaining items.
func (s *OrderedSet[T]) Remove(v T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}

	delete(s.index, v)
	s.items = slices.Delete(s.items, i, i+1)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}

	return true
}

func (s *OrderedSet[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}

// All iterates over the items in insertion order.
func (s *OrderedSet[T]) All() iter.Seq[T] {
	return slices.Values(s.items)
}

// Snapshot returns a copy of the items, safe to use while the set is mutated.
func (s *OrderedSet[T]) Snapshot() []T {
	return slices.Clone(s.items)
}

// DepSet is the set of dependencies observed during one run of a subscriber,
// along with the version of each dependency at the time it was read.
type DepSet struct {
	deps     *OrderedSet[Dependency]
	versions map[Dependency]uint64
}

func NewDepSet() *DepSet {
	return &DepSet{
		deps:     NewOrderedSet[Dependency](),
		versions: make(map[Dependency]uint64),
	}
}

// Add records a read of dep. Reading the same dependency twice keeps
// its first position but the latest version.
func (d *DepSet) Add(dep Dependency) {
	d.deps.Add(dep)
	d.versions[dep] = dep.source().version
}

func (d *DepSet) Has(dep Dependency) bool {
	return d.deps.Has(dep)
}

func (d *DepSet) Len() int {
	if d == nil {
		return 0
	}
	return d.deps.Len()
}

// Version returns the version of dep when it was last read.
func (d *DepSet) Version(dep Dependency) uint64 {
	return d.versions[dep]
}

func (d *DepSet) All() iter.Seq[Dependency] {
	return d.deps.All()
}
