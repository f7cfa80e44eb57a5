//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime
var stack []*Runtime

func GetRuntime() *Runtime {
	if n := len(stack); n > 0 {
		return stack[n-1]
	}

	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}

func Use(r *Runtime, fn func()) {
	stack = append(stack, r)
	defer func() { stack = stack[:len(stack)-1] }()

	fn()
}

// Release is a no-op on wasm: there is a single goroutine driving the graph.
func Release() {}
