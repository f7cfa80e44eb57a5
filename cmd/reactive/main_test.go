package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCounter(t *testing.T) {
	expected := strings.Join([]string{
		"render: count=0 doubled=0",
		"> increment",
		"render: count=1 doubled=2",
		"watch: count 0 -> 1",
		"> increment",
		"render: count=2 doubled=4",
		"watch: count 1 -> 2",
		"> batch: write 10 then 20",
		"render: count=20 doubled=40",
		"watch: count 2 -> 20",
		"> unmount, write 0",
		"watch: count 20 -> 0",
		"",
	}, "\n")

	t.Run("sync", func(t *testing.T) {
		out, _, err := execute(t, "counter", "--times", "2")
		require.NoError(t, err)
		assert.Equal(t, expected, out)
	})

	t.Run("manual flush", func(t *testing.T) {
		out, _, err := execute(t, "counter", "-n", "2", "--manual")
		require.NoError(t, err)
		assert.Equal(t, expected, out)
	})

	t.Run("metrics", func(t *testing.T) {
		out, _, err := execute(t, "counter", "-n", "1", "--metrics")
		require.NoError(t, err)

		assert.Contains(t, out, "metrics:\n")
		assert.Contains(t, out, "reactive_writes_total 4\n")
		assert.Contains(t, out, `reactive_watcher_runs_total{type="render"} 3`)
	})

	t.Run("trace", func(t *testing.T) {
		out, _, err := execute(t, "counter", "-n", "1", "--trace")
		require.NoError(t, err)

		assert.Contains(t, out, "spans:\n")
		assert.Contains(t, out, "reactive.run reactive.node.id=")
		assert.Contains(t, out, "reactive.node.name=watch reactive.effect_type=user")
		assert.Contains(t, out, "reactive.flush reactive.flush.passes=1 reactive.flush.runs=2")
	})
}

func TestTodo(t *testing.T) {
	t.Run("identity re-renders an equal copy", func(t *testing.T) {
		out, _, err := execute(t, "todo")
		require.NoError(t, err)

		assert.Equal(t, strings.Join([]string{
			"render (all, 1 left): [ ] learn signals",
			"> add a todo",
			"render (all, 2 left): [ ] learn signals, [ ] learn watchers",
			"> complete the first todo",
			"render (all, 1 left): [x] learn signals, [ ] learn watchers",
			"> show active todos",
			"render (active, 1 left): [ ] learn watchers",
			"> write an equal copy of the list",
			"render (active, 1 left): [ ] learn watchers",
			"",
		}, "\n"), out)
	})

	t.Run("structural skips an equal copy", func(t *testing.T) {
		out, _, err := execute(t, "todo", "--equality", "structural")
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(out, "> write an equal copy of the list\n"))
	})
}

func TestCycle(t *testing.T) {
	out, stderr, err := execute(t, "cycle")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"get: reactive: cyclic dependency: a -> b -> a",
		"caught: reactive: cyclic dependency: b -> a -> b",
		"",
	}, "\n"), out)
	assert.Contains(t, stderr, "level=WARN msg=\"cyclic dependency\"")
}

func TestFlags(t *testing.T) {
	t.Run("invalid equality", func(t *testing.T) {
		_, _, err := execute(t, "counter", "--equality", "deep")
		assert.EqualError(t, err, `invalid --equality "deep": expected identity or structural`)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, _, err := execute(t, "counter", "--log-level", "loud")
		assert.ErrorContains(t, err, `invalid --log-level "loud"`)
	})

	t.Run("debug logs", func(t *testing.T) {
		_, stderr, err := execute(t, "counter", "-n", "1", "--log-level", "debug")
		require.NoError(t, err)
		assert.Contains(t, stderr, "msg=flushed")
	})
}
