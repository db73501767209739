package repository_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type memoryStorageSuite struct {
	storageSuite
}

func TestMemoryStorageSuite(t *testing.T) {
	suite.Run(t, new(memoryStorageSuite))
}

func (suite *memoryStorageSuite) SetupSuite() {
	suite.storage = repository.NewMemory()
}

type namespacedStorageSuite struct {
	storageSuite
}

func TestNamespacedStorageSuite(t *testing.T) {
	suite.Run(t, new(namespacedStorageSuite))
}

func (suite *namespacedStorageSuite) SetupSuite() {
	suite.storage = repository.Namespace(repository.NewMemory(), "session:test")
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := t.Context()
	storage := repository.NewMemory()

	value := []byte("abc")
	require.NoError(t, storage.SetItem(ctx, "k", value))
	value[0] = 'x'

	got, err := storage.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, err := storage.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestNamespace_Isolation(t *testing.T) {
	ctx := t.Context()
	backend := repository.NewMemory()

	alice := repository.Namespace(backend, "session:alice")
	bob := repository.Namespace(backend, "session:bob")

	require.NoError(t, alice.SetItem(ctx, "cartItems", []byte(`[1]`)))

	_, err := bob.GetItem(ctx, "cartItems")
	require.ErrorIs(t, err, port.ErrNotFound)

	_, err = backend.GetItem(ctx, "cartItems")
	require.ErrorIs(t, err, port.ErrNotFound)

	raw, err := backend.GetItem(ctx, "session:alice/cartItems")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), raw)
}

func TestNamespace_EmptyNamespace(t *testing.T) {
	backend := repository.NewMemory()
	assert.Same(t, backend, repository.Namespace(backend, ""))
}
