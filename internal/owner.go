package internal

import (
	"iter"

	"github.com/hashicorp/go-multierror"
)

type Owner struct {
	rt *Runtime

	// cleanup functions called once on the next reset/dispose
	cleanups []func()

	// called on every dispose
	disposers []func()

	// panic error handlers
	catchers []func(any)

	// the context values of this owner
	context map[any]any

	// distance from the root owner, used to run parents before children
	depth int

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

// NewOwner creates an owner, child of the current owner if any.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{
		rt:      r,
		context: make(map[any]any),
	}

	if parent := r.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

// Run calls fn with o as the current owner.
// A panic is handed to the closest OnError handler up the owner chain,
// or propagates if there is none.
func (o *Owner) Run(fn func() error) (err error) {
	defer o.recover()

	Use(o.rt, func() {
		o.rt.tracker.RunWithOwner(o, func() {
			err = fn()
		})
	})

	return err
}

func (o *Owner) recover() {
	if r := recover(); r != nil {
		o.handle(r)
	}
}

func (o *Owner) handle(r any) {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(r)
		}
		return
	}

	panic(r)
}

func (o *Owner) Depth() int {
	return o.depth
}

func (o *Owner) Parent() *Owner {
	return o.parent
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.depth = parent.depth + 1
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (parent *Owner) removeChild(child *Owner) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if parent.childrenHead == child {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// Children iterates from the most recently added child to the oldest.
func (o *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := o.childrenHead

		for child != nil {
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

// Reset disposes the children and runs the pending cleanups,
// leaving the owner usable. Every cleanup runs even if some panic.
func (o *Owner) Reset() error {
	var errs *multierror.Error

	errs = multierror.Append(errs, o.DisposeChildren())

	cleanups := o.cleanups
	o.cleanups = nil
	for _, fn := range cleanups {
		errs = multierror.Append(errs, call(fn))
	}

	return errs.ErrorOrNil()
}

// Dispose resets the owner, calls its dispose hooks and detaches it from its parent.
func (o *Owner) Dispose() error {
	var errs *multierror.Error

	errs = multierror.Append(errs, o.Reset())

	for _, fn := range o.disposers {
		errs = multierror.Append(errs, call(fn))
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	return errs.ErrorOrNil()
}

func (o *Owner) DisposeChildren() error {
	var errs *multierror.Error

	for child := range o.Children() {
		errs = multierror.Append(errs, child.Dispose())
	}
	o.childrenHead = nil

	return errs.ErrorOrNil()
}

func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) OnDispose(fn func()) {
	o.disposers = append(o.disposers, fn)
}

func (o *Owner) OnError(fn func(any)) {
	o.catchers = append(o.catchers, fn)
}

// call runs fn, turning a panic into an error.
func call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	fn()
	return nil
}
