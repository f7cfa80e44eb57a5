//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// goroutine id -> *binding
var bindings sync.Map

type binding struct {
	fallback *Runtime
	stack    []*Runtime
}

func currentBinding() *binding {
	gid := goid.Get()

	if b, ok := bindings.Load(gid); ok {
		return b.(*binding)
	}

	b := &binding{fallback: NewRuntime()}
	bindings.Store(gid, b)
	return b
}

// GetRuntime returns the runtime new nodes are created in for the calling goroutine:
// the innermost one bound with Use, or a default one owned by the goroutine.
func GetRuntime() *Runtime {
	b := currentBinding()

	if n := len(b.stack); n > 0 {
		return b.stack[n-1]
	}
	return b.fallback
}

// Use binds r to the calling goroutine for the duration of fn.
func Use(r *Runtime, fn func()) {
	b := currentBinding()

	b.stack = append(b.stack, r)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	fn()
}

// Release forgets the default runtime of the calling goroutine.
// Nodes already created keep working, new ones go to a fresh runtime.
func Release() {
	bindings.Delete(goid.Get())
}
