package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	v, err := s.Get("modFiles")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPutReplacesValue(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("modFiles", []byte(`[1]`)))
	require.NoError(t, s.Put("modFiles", []byte(`[1,2]`)))

	v, err := s.Get("modFiles")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(v))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"modFiles"}, keys)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("a", []byte("1")))
	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("missing"))

	v, err := s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("modFiles", []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get("modFiles")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(v))
}
