package reactive

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime(t *testing.T) {
	t.Run("graphs are independent", func(t *testing.T) {
		log := []string{}

		a, b := NewRuntime(), NewRuntime()

		var countA, countB *Signal[int]
		a.Run(func() { countA = NewSignal(0) })
		b.Run(func() { countB = NewSignal(0) })

		a.Run(func() {
			NewEffect(func() {
				log = append(log, fmt.Sprintf("a %d", countA.Read()))

				// another runtime's signal is read without being tracked
				countB.Read()
			})
		})

		countB.Write(1)
		countA.Write(1)

		assert.Equal(t, []string{
			"a 0",
			"a 1",
		}, log)
	})

	t.Run("nodes keep their runtime", func(t *testing.T) {
		rt := NewRuntime(WithFlushMode(FlushManual))

		var count *Signal[int]
		runs := 0
		rt.Run(func() {
			count = NewSignal(0)
			NewEffect(func() {
				count.Read()
				runs++
			})
		})

		// written outside of rt.Run, still queued in rt
		count.Write(1)
		assert.Equal(t, 1, rt.Pending())
		assert.Equal(t, 1, runs)

		rt.Flush()
		assert.Equal(t, 2, runs)
	})

	t.Run("batch on a runtime", func(t *testing.T) {
		log := []int{}

		rt := NewRuntime()

		var count *Signal[int]
		rt.Run(func() {
			count = NewSignal(0)
			NewEffect(func() {
				log = append(log, count.Read())
			})
		})

		rt.Batch(func() {
			count.Write(1)
			count.Write(2)
		})

		assert.Equal(t, []int{0, 2}, log)
	})

	t.Run("logs through the configured logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		rt := NewRuntime(WithLogger(logger))
		rt.Run(func() {
			count := NewSignal(0).Named("count")
			NewEffect(func() {}).Named("empty")

			count.Write(0)
		})

		out := buf.String()
		assert.Contains(t, out, "effect read no reactive value")
		assert.Contains(t, out, `msg="write skipped" runtime=`)
		assert.Contains(t, out, "signal=count")
	})

	t.Run("default runtime per goroutine", func(t *testing.T) {
		rt := Default()
		require.NotNil(t, rt)

		other := NewRuntime()
		other.Run(func() {
			assert.Same(t, other.rt, Default().rt)
		})

		assert.Same(t, rt.rt, Default().rt)
	})

	t.Run("reports batching and flushing", func(t *testing.T) {
		rt := NewRuntime()

		var batching, flushing []bool
		rt.Run(func() {
			count := NewSignal(0)
			NewEffect(func() {
				count.Read()
				flushing = append(flushing, rt.IsFlushing())
			})

			Batch(func() {
				batching = append(batching, rt.IsBatching())
				count.Write(1)
			})
		})

		assert.False(t, rt.IsBatching())
		assert.Equal(t, []bool{true}, batching)
		assert.Equal(t, []bool{false, true}, flushing)
	})

	t.Run("settled callbacks writing again are flushed", func(t *testing.T) {
		log := []int{}

		count := NewSignal(0)
		NewEffect(func() {
			log = append(log, count.Read())
		})

		OnSettled(func() {
			count.Write(2)
		})
		count.Write(1)

		assert.Equal(t, []int{0, 1, 2}, log)
	})

	t.Run("recursion limit", func(t *testing.T) {
		rt := NewRuntime(WithRecursionLimit(3))

		runs := 0
		var count *Signal[int]
		rt.Run(func() {
			count = NewSignal(0)
			NewEffect(func() {
				runs++
				count.Write(count.Read() + 1)
			}).Named("loop")
		})

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			count.Write(-1)
		}()

		err, ok := recovered.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrRecursionLimit)

		var rerr *RecursionError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 3, rerr.Limit)
		assert.Equal(t, "loop", rerr.Watcher.Name)
		assert.Equal(t, 4, runs)
		assert.Equal(t, 0, rt.Pending())
	})
}
