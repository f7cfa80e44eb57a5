package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect(t *testing.T) {
	t.Run("runs on signal change with cleanup", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		log = append(log, fmt.Sprintf("%d", count.Read()))

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)
		log = append(log, fmt.Sprintf("%d", count.Read()))
		count.Write(20)

		assert.Equal(t, []string{
			"0",
			"changed 0",
			"cleanup",
			"changed 10",
			"10",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("writes to another signal", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		double := NewSignal(0)

		NewEffect(func() {
			double.Write(count.Read() * 2)
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", double.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("nested effects", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		NewEffect(func() {
			count.Read()
			log = append(log, "running")

			NewEffect(func() {
				log = append(log, "running nested")

				OnCleanup(func() {
					log = append(log, "cleanup nested")
				})
			})

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"running",
			"running nested",
			"cleanup nested",
			"cleanup",
			"running",
			"running nested",
		}, log)
	})

	t.Run("diamond dependency", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		double := NewComputed(func() int { return count.Read() * 2 })
		quad := NewComputed(func() int { return count.Read() * 4 })

		NewEffect(func() {
			log = append(log, fmt.Sprintf("running %d %d", double.Read(), quad.Read()))

			OnCleanup(func() {
				log = append(log, fmt.Sprintf("cleanup %d %d", double.Read(), quad.Read()))
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"running 0 0",
			"cleanup 20 40",
			"running 20 40",
		}, log)
	})

	t.Run("diamond dependency nested", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		double := NewComputed(func() int { return count.Read() * 2 })
		quad := NewComputed(func() int { return count.Read() * 4 })

		NewEffect(func() {
			log = append(log, fmt.Sprintf("running %d %d", double.Read(), quad.Read()))

			NewEffect(func() {
				log = append(log, fmt.Sprintf("running nested %d %d", double.Read(), quad.Read()))
				OnCleanup(func() {
					log = append(log, fmt.Sprintf("cleanup nested %d %d", double.Read(), quad.Read()))
				})
			})

			OnCleanup(func() {
				log = append(log, fmt.Sprintf("cleanup %d %d", double.Read(), quad.Read()))
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"running 0 0",
			"running nested 0 0",
			"cleanup nested 20 40",
			"cleanup 20 40",
			"running 20 40",
			"running nested 20 40",
		}, log)
	})

	t.Run("deps change between runs", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		initialized := false
		NewEffect(func() {
			log = append(log, "running")
			if !initialized {
				count.Read()
			}
			initialized = true
		})

		count.Write(1)
		count.Write(2) // should not trigger since effect no longer depends on count

		assert.Equal(t, []string{
			"running",
			"running",
		}, log)
	})

	t.Run("coalesces writes in a batch", func(t *testing.T) {
		log := []int{}

		count := NewSignal(0)
		NewEffect(func() {
			log = append(log, count.Read())
		})

		Batch(func() {
			count.Write(1)
			count.Write(2)
		})

		assert.Equal(t, []int{0, 2}, log)
	})

	t.Run("runs once per write in a diamond", func(t *testing.T) {
		log := []string{}

		count := NewSignal(1)
		double := NewComputed(func() int { return count.Read() * 2 })
		triple := NewComputed(func() int { return count.Read() * 3 })
		sum := NewComputed(func() int { return double.Read() + triple.Read() })

		NewEffect(func() {
			log = append(log, fmt.Sprintf("%d = %d + %d", sum.Read(), double.Read(), triple.Read()))
		})

		count.Write(2)

		assert.Equal(t, []string{
			"5 = 2 + 3",
			"10 = 4 + 6",
		}, log)
	})

	t.Run("skips when computed inputs did not change", func(t *testing.T) {
		runs := 0

		count := NewSignal(1)
		positive := NewComputed(func() bool { return count.Read() > 0 })

		NewEffect(func() {
			positive.Read()
			runs++
		})

		count.Write(2)
		count.Write(3)
		assert.Equal(t, 1, runs)

		count.Write(-1)
		assert.Equal(t, 2, runs)
	})

	t.Run("stop prevents further runs", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		w := NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		w.Stop()
		assert.True(t, w.Stopped())

		count.Write(1)
		count.Write(2)

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
		}, log)
	})

	t.Run("stops itself while running", func(t *testing.T) {
		runs := 0

		count := NewSignal(0)

		var w *Watcher
		w = NewEffect(func() {
			runs++
			if count.Read() > 0 {
				w.Stop()
			}
		})

		count.Write(1)
		count.Write(2)

		assert.Equal(t, 2, runs)
	})

	t.Run("is not tracked in callbacks", func(t *testing.T) {
		tracked := []bool{}

		NewEffect(func() {
			tracked = append(tracked, IsTracking())
			Untrack(func() bool {
				tracked = append(tracked, IsTracking())
				return true
			})
		})

		assert.False(t, IsTracking())
		assert.Equal(t, []bool{true, false}, tracked)
	})

	t.Run("aborts a flush that never settles", func(t *testing.T) {
		count := NewSignal(0)

		NewEffect(func() {
			count.Write(count.Read() + 1)
		}).Named("loop")

		assert.PanicsWithError(t, "reactive: maximum recursive updates exceeded: loop ran more than 100 times in one flush", func() {
			count.Write(-1)
		})
	})
}
