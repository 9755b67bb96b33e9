// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

// FileStore keeps all records in a single JSON file, rewritten atomically on
// every mutation. Suitable for zero-dependency deployments; record counts
// here are tiny (one receivers record plus settings).
type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[string]string
}

// OpenFile loads the store file at path, creating parent directories as
// needed. A missing file yields an empty store; a corrupt file is treated
// the same, the next write replaces it.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	s := &FileStore{path: path, records: map[string]string{}}
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.records); err != nil {
		s.records = map[string]string{}
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[key]
	return v, ok, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return s.flushLocked()
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return s.flushLocked()
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) flushLocked() error {
	buf, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(s.path, buf, 0o600)
}

var _ Store = (*FileStore)(nil)
