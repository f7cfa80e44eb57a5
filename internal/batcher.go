package internal

type Batcher struct {
	// each nested batch increases the depth by 1
	// if depth > 0, flushes are deferred until the outermost batch is complete
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{
		depth: 0,
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Batch runs fn and calls onComplete when the outermost batch returns normally.
func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++

	completed := false
	defer func() {
		b.depth--
		if completed && b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
	completed = true
}
