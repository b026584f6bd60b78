package goadmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedAdmin(name string) *ExtendableModelAdmin {
	return &ExtendableModelAdmin{BaseModelAdmin: BaseModelAdmin{Name: name}}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(namedAdmin("User")))
	assert.Equal(t, 1, r.Len())

	admin, ok := r.Get("User")
	require.True(t, ok)
	assert.Equal(t, "User", admin.ModelName())

	_, ok = r.Get("Ghost")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(namedAdmin("User")))
	assert.Error(t, r.Register(namedAdmin("User")))
}

func TestRegistryRejectsUnnamed(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(namedAdmin("")))
}

func TestMustRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(namedAdmin("User"))
	assert.Panics(t, func() { r.MustRegister(namedAdmin("User")) })
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(namedAdmin("User"))

	assert.True(t, r.Unregister("User"))
	assert.False(t, r.Unregister("User"), "a second unregister finds nothing")
	assert.Equal(t, 0, r.Len())
}

func TestRegistryUnregisterHooks(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(namedAdmin("User"))

	var gone []string
	r.OnUnregister(func(model string) { gone = append(gone, model) })

	r.Unregister("User")
	assert.Equal(t, []string{"User"}, gone)

	// Hooks only fire for models that were actually present.
	r.Unregister("Ghost")
	assert.Equal(t, []string{"User"}, gone)
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		r.MustRegister(namedAdmin(name))
	}
	assert.Equal(t, []string{"Apple", "Mango", "Zebra"}, r.Names())
}
