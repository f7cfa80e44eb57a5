package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerTree(t *testing.T) {
	t.Run("children are newest first", func(t *testing.T) {
		r := NewRuntime()

		root := r.NewOwner()
		a, b, c := &Owner{rt: r}, &Owner{rt: r}, &Owner{rt: r}
		root.AddChild(a)
		root.AddChild(b)
		root.AddChild(c)

		assert.Equal(t, []*Owner{c, b, a}, slices.Collect(root.Children()))
		assert.Equal(t, 1, b.Depth())
		assert.Same(t, root, b.Parent())

		root.removeChild(b)
		assert.Equal(t, []*Owner{c, a}, slices.Collect(root.Children()))
		assert.Nil(t, b.Parent())
	})

	t.Run("disposed children detach from their parent", func(t *testing.T) {
		r := NewRuntime()

		root := r.NewOwner()
		var child *Owner
		require.NoError(t, root.Run(func() error {
			child = r.NewOwner()
			return nil
		}))

		require.NoError(t, child.Dispose())
		assert.Empty(t, slices.Collect(root.Children()))
	})

	t.Run("reset keeps the owner usable", func(t *testing.T) {
		r := NewRuntime()
		log := []string{}

		o := r.NewOwner()
		o.OnCleanup(func() { log = append(log, "first") })
		o.OnDispose(func() { log = append(log, "dispose") })

		require.NoError(t, o.Reset())
		o.OnCleanup(func() { log = append(log, "second") })
		require.NoError(t, o.Dispose())

		assert.Equal(t, []string{"first", "second", "dispose"}, log)
	})

	t.Run("unhandled panics propagate", func(t *testing.T) {
		r := NewRuntime()

		o := r.NewOwner()
		assert.PanicsWithValue(t, "boom", func() {
			_ = o.Run(func() error { panic("boom") })
		})
	})
}

func TestContextLookup(t *testing.T) {
	r := NewRuntime()
	ctx := r.NewContext("default")

	parent := r.NewOwner()
	require.NoError(t, parent.Run(func() error {
		ctx.Set("parent")

		child := r.NewOwner()
		return child.Run(func() error {
			assert.Equal(t, "parent", ctx.Value())

			ctx.Set("child")
			assert.Equal(t, "child", ctx.Value())
			return nil
		})
	}))

	require.NoError(t, parent.Run(func() error {
		assert.Equal(t, "parent", ctx.Value())
		return nil
	}))
	assert.Equal(t, "default", ctx.Value())
}
