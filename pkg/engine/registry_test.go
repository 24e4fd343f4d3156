package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(newStub("prefetching", nil)))

	assert.True(t, reg.Has("prefetching"))
	assert.Equal(t, 1, reg.Count())

	controller, err := reg.Get("prefetching")
	require.NoError(t, err)
	assert.Equal(t, "prefetching", controller.Name())
}

func TestRegistry_RejectsNilController(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.Error(t, reg.Register(nil))
}

func TestRegistry_RejectsEmptyName(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.Error(t, reg.Register(newStub("", nil)))
}

func TestRegistry_RejectsDuplicate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(newStub("dup", nil)))

	err := reg.Register(newStub("dup", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_GetUnknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, err := reg.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.False(t, reg.Has("missing"))
}

func TestRegistry_NamesSorted(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(newStub("zeta", nil)))
	require.NoError(t, reg.Register(newStub("alpha", nil)))
	require.NoError(t, reg.Register(newStub("mid", nil)))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())

	listed := reg.List()
	require.Len(t, listed, 3)
	assert.Equal(t, "alpha", listed[0].Name())
	assert.Equal(t, "zeta", listed[2].Name())
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(newStub("once", nil))

	assert.Panics(t, func() {
		reg.MustRegister(newStub("once", nil))
	})
}
