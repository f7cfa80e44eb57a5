package reactive

import "github.com/AnatoleLucet/reactive/internal"

var (
	ErrCyclicDependency = internal.ErrCyclicDependency
	ErrRecursionLimit   = internal.ErrRecursionLimit
)

type (
	CycleError     = internal.CycleError
	RecursionError = internal.RecursionError
	PanicError     = internal.PanicError
)
