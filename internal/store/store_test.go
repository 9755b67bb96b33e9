// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip exercises the Store contract shared by all backends.
func roundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "receivers")
	require.NoError(t, err)
	assert.False(t, ok, "missing key must report !ok, not error")

	require.NoError(t, s.Set(ctx, "receivers", `["a"]`))
	v, ok, err := s.Get(ctx, "receivers")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["a"]`, v)

	require.NoError(t, s.Set(ctx, "receivers", `[]`))
	v, _, err = s.Get(ctx, "receivers")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Delete(ctx, "receivers"))
	_, ok, err = s.Get(ctx, "receivers")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()
	roundTrip(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := OpenRedis(RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()
	roundTrip(t, s)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "e2nav.json")
	s, err := OpenFile(path)
	require.NoError(t, err)
	roundTrip(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e2nav.json")
	ctx := context.Background()

	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "receivers", `["x"]`))

	s2, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := s2.Get(ctx, "receivers")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["x"]`, v)
}

func TestFileStoreCorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e2nav.json")
	require.NoError(t, os.WriteFile(path, []byte("not json{"), 0o600))

	s, err := OpenFile(path)
	require.NoError(t, err)
	_, ok, err := s.Get(context.Background(), "receivers")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenFactory(t *testing.T) {
	s, err := Open(Config{Backend: BackendFile, Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(Config{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
