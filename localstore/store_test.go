package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetMissing(t *testing.T) {
	s := openTemp(t)

	value, ok, err := s.Get(KeyChatUsername)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestStore_SetGetReplace(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Set(KeyChatUsername, "calm-otter-1234"))
	require.NoError(t, s.Set(KeyChatUsername, "bold-fox-4321"))

	value, ok, err := s.Get(KeyChatUsername)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bold-fox-4321", value)
}

func TestStore_Delete(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Set(KeyAdminAuth, "true"))
	require.NoError(t, s.Delete(KeyAdminAuth))
	require.NoError(t, s.Delete(KeyAdminAuth))

	_, ok, err := s.Get(KeyAdminAuth)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyLocalStatus, `["a"]`))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	value, ok, err := s.Get(KeyLocalStatus)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["a"]`, value)
}

func TestMemory(t *testing.T) {
	var kv KV = NewMemory()

	_, ok, _ := kv.Get("k")
	assert.False(t, ok)

	require.NoError(t, kv.Set("k", "v"))
	v, ok, _ := kv.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, kv.Delete("k"))
	_, ok, _ = kv.Get("k")
	assert.False(t, ok)
}
