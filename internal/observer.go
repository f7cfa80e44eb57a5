package internal

import "time"

// FlushStats summarizes one flush of the watcher queue.
type FlushStats struct {
	Passes   int
	Runs     int
	Duration time.Duration
}

// Observer receives notifications about the activity of a runtime.
// Hooks are called synchronously, from the goroutine driving the graph.
type Observer interface {
	OnWrite(node NodeInfo)
	OnCompute(node NodeInfo, took time.Duration)
	OnRun(node NodeInfo, typ EffectType, took time.Duration)
	OnFlush(stats FlushStats)
	OnCycle(err *CycleError)
}

// NopObserver implements Observer with no-ops, meant for embedding.
type NopObserver struct{}

func (NopObserver) OnWrite(NodeInfo) {}
func (NopObserver) OnCompute(NodeInfo, time.Duration) {}
func (NopObserver) OnRun(NodeInfo, EffectType, time.Duration) {}
func (NopObserver) OnFlush(FlushStats) {}
func (NopObserver) OnCycle(*CycleError) {}

type observers []Observer

func (o observers) OnWrite(node NodeInfo) {
	for _, obs := range o {
		obs.OnWrite(node)
	}
}

func (o observers) OnCompute(node NodeInfo, took time.Duration) {
	for _, obs := range o {
		obs.OnCompute(node, took)
	}
}

func (o observers) OnRun(node NodeInfo, typ EffectType, took time.Duration) {
	for _, obs := range o {
		obs.OnRun(node, typ, took)
	}
}

func (o observers) OnFlush(stats FlushStats) {
	for _, obs := range o {
		obs.OnFlush(stats)
	}
}

func (o observers) OnCycle(err *CycleError) {
	for _, obs := range o {
		obs.OnCycle(err)
	}
}
