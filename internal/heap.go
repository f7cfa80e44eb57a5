package internal

// PriorityHeap orders queued watchers by owner depth, parents first.
// Watchers at the same depth keep their insertion order.
type PriorityHeap struct {
	min  int
	max  int
	size int

	nodes []*heapNode // [depth]head

	lookup map[*Watcher]*heapNode // for O(1) removal
}

type heapNode struct {
	node *Watcher

	next *heapNode
	prev *heapNode
}

func NewHeap() *PriorityHeap {
	return &PriorityHeap{
		min:    0,
		max:    0,
		nodes:  make([]*heapNode, 16),
		lookup: make(map[*Watcher]*heapNode),
	}
}

func (h *PriorityHeap) Len() int {
	return h.size
}

func (h *PriorityHeap) Has(node *Watcher) bool {
	_, ok := h.lookup[node]
	return ok
}

func (h *PriorityHeap) Insert(node *Watcher) {
	if h.Has(node) {
		return
	}

	entry := &heapNode{node: node}
	h.lookup[node] = entry
	h.size++

	depth := node.Depth()
	for len(h.nodes) <= depth {
		h.nodes = append(h.nodes, nil)
	}

	if h.nodes[depth] == nil {
		h.nodes[depth] = entry
		entry.prev = entry // loop to self
		entry.next = nil
	} else {
		head := h.nodes[depth]
		tail := head.prev

		tail.next = entry
		entry.prev = tail
		entry.next = nil
		head.prev = entry
	}

	if h.size == 1 || depth < h.min {
		h.min = depth
	}
	if depth > h.max {
		h.max = depth
	}
}

func (h *PriorityHeap) Remove(node *Watcher) {
	entry, ok := h.lookup[node]
	if !ok {
		return
	}
	delete(h.lookup, node)
	h.size--

	depth := entry.node.Depth()
	head := h.nodes[depth]

	// single node
	if entry.prev == entry {
		h.nodes[depth] = nil
		entry.next = nil
		return
	}

	// multiple nodes
	if entry == head {
		h.nodes[depth] = entry.next
		entry.next.prev = entry.prev
	} else {
		entry.prev.next = entry.next

		next := entry.next
		if next == nil {
			next = head
		}
		next.prev = entry.prev
	}

	entry.prev = entry
	entry.next = nil
}

// Drain empties the heap and processes what it held in depth order.
// Nodes inserted by `process` are left in the heap for the next drain.
func (h *PriorityHeap) Drain(process func(*Watcher)) {
	if h.size == 0 {
		return
	}

	batch := make([]*Watcher, 0, h.size)
	for depth := h.min; depth <= h.max; depth++ {
		for entry := h.nodes[depth]; entry != nil; entry = entry.next {
			batch = append(batch, entry.node)
		}
		h.nodes[depth] = nil
	}

	clear(h.lookup)
	h.size = 0
	h.min = 0
	h.max = 0

	// if `process` panics, what was not processed goes back in the heap
	processed := 0
	defer func() {
		if processed < len(batch) {
			for _, node := range batch[processed+1:] {
				h.Insert(node)
			}
		}
	}()

	for _, node := range batch {
		process(node)
		processed++
	}
}
