// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"encoding/json"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e2nav/e2nav/internal/store"
)

func newRegistry(t *testing.T) (*Registry, store.Store) {
	t.Helper()
	s, err := store.OpenFile(filepath.Join(t.TempDir(), "e2nav.json"))
	require.NoError(t, err)
	return New(s), s
}

func TestAddListRoundTrip(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	_, err := r.Add(ctx, "Living Room", "http://192.168.0.10")
	require.NoError(t, err)

	eps, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 1)
	assert.Equal(t, "Living Room", eps[0].Name)
	assert.Equal(t, "http://192.168.0.10", eps[0].URL)
}

func TestAddPrepends(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	_, err := r.Add(ctx, "Bedroom", "http://192.168.0.11")
	require.NoError(t, err)
	_, err = r.Add(ctx, "Living Room", "http://192.168.0.10")
	require.NoError(t, err)

	eps, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "Living Room", eps[0].Name, "most recently added first")
	assert.Equal(t, "Bedroom", eps[1].Name)
}

func TestRemove(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	_, err := r.Add(ctx, "Living Room", "http://192.168.0.10")
	require.NoError(t, err)
	require.NoError(t, r.Remove(ctx, 0))

	eps, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, eps)

	assert.Error(t, r.Remove(ctx, 0))
	assert.Error(t, r.Remove(ctx, -1))
}

func TestAddValidation(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	_, err := r.Add(ctx, "", "http://192.168.0.10")
	assert.Error(t, err)
	_, err = r.Add(ctx, "x", "ftp://192.168.0.10")
	assert.Error(t, err)
	_, err = r.Add(ctx, "x", "192.168.0.10")
	assert.Error(t, err)
}

func TestEmptyStore(t *testing.T) {
	r, _ := newRegistry(t)
	eps, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, eps)
}

func TestCorruptStoreResets(t *testing.T) {
	r, s := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "receivers", "function(){}"))
	eps, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, eps)

	// The reset must have been persisted as a clean empty array.
	raw, ok, err := s.Get(ctx, "receivers")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "[]", raw)
}

func TestCorruptInnerEntryResets(t *testing.T) {
	r, s := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "receivers", `["{not json"]`))
	eps, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, eps)
}

// The wire form stays the legacy one: a JSON array of strings, each string a
// JSON object with percent-encoded title and link.
func TestPersistedWireFormat(t *testing.T) {
	r, s := newRegistry(t)
	ctx := context.Background()

	_, err := r.Add(ctx, "Living Room", "http://192.168.0.10")
	require.NoError(t, err)

	raw, ok, err := s.Get(ctx, "receivers")
	require.NoError(t, err)
	require.True(t, ok)

	var entries []string
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Len(t, entries, 1)

	var rec struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	}
	require.NoError(t, json.Unmarshal([]byte(entries[0]), &rec))

	name, err := url.QueryUnescape(rec.Title)
	require.NoError(t, err)
	link, err := url.QueryUnescape(rec.Link)
	require.NoError(t, err)
	assert.Equal(t, "Living Room", name)
	assert.Equal(t, "http://192.168.0.10", link)
}
