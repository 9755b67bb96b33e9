// SPDX-License-Identifier: MIT

// Package registry manages the persisted list of configured receivers.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/e2nav/e2nav/internal/log"
	"github.com/e2nav/e2nav/internal/store"
)

// storeKey is the single record holding the receiver list.
const storeKey = "receivers"

// Endpoint is one configured receiver.
type Endpoint struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// record is the persisted wire form of one endpoint. Both fields are
// percent-encoded before serialization; the whole record is stored as a JSON
// string inside the outer array. The double encoding is the legacy on-disk
// format and is kept for compatibility with existing stores.
type record struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Registry is CRUD over the persisted receiver list. Insertion order is
// display order, most recently added first.
type Registry struct {
	store  store.Store
	logger zerolog.Logger
}

// New creates a registry backed by s.
func New(s store.Store) *Registry {
	return &Registry{store: s, logger: log.WithComponent("registry")}
}

// List returns all configured receivers. An uninitialized or corrupt store
// resets to an empty list rather than failing navigation startup.
func (r *Registry) List(ctx context.Context) ([]Endpoint, error) {
	raw, ok, err := r.store.Get(ctx, storeKey)
	if err != nil {
		return nil, fmt.Errorf("registry: load: %w", err)
	}
	if !ok {
		return nil, nil
	}
	eps, err := decode(raw)
	if err != nil {
		r.logger.Warn().Err(err).Msg("receiver list corrupt, resetting to empty")
		if err := r.store.Set(ctx, storeKey, "[]"); err != nil {
			return nil, fmt.Errorf("registry: reset corrupt list: %w", err)
		}
		return nil, nil
	}
	return eps, nil
}

// Add inserts a receiver at the front of the list and persists it.
func (r *Registry) Add(ctx context.Context, name, rawURL string) (Endpoint, error) {
	name = strings.TrimSpace(name)
	rawURL = strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if name == "" {
		return Endpoint{}, fmt.Errorf("registry: empty receiver name")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Endpoint{}, fmt.Errorf("registry: invalid receiver url %q", rawURL)
	}

	eps, err := r.List(ctx)
	if err != nil {
		return Endpoint{}, err
	}
	ep := Endpoint{Name: name, URL: rawURL}
	eps = append([]Endpoint{ep}, eps...)
	if err := r.persist(ctx, eps); err != nil {
		return Endpoint{}, err
	}
	r.logger.Info().Str("name", name).Str(log.FieldReceiver, rawURL).Msg("receiver added")
	return ep, nil
}

// Remove deletes the receiver at index and persists the remainder.
func (r *Registry) Remove(ctx context.Context, index int) error {
	eps, err := r.List(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(eps) {
		return fmt.Errorf("registry: index %d out of range (%d receivers)", index, len(eps))
	}
	removed := eps[index]
	eps = append(eps[:index], eps[index+1:]...)
	if err := r.persist(ctx, eps); err != nil {
		return err
	}
	r.logger.Info().Str("name", removed.Name).Str(log.FieldReceiver, removed.URL).Msg("receiver removed")
	return nil
}

func (r *Registry) persist(ctx context.Context, eps []Endpoint) error {
	entries := make([]string, 0, len(eps))
	for _, ep := range eps {
		buf, err := json.Marshal(record{
			Title: url.QueryEscape(ep.Name),
			Link:  url.QueryEscape(ep.URL),
		})
		if err != nil {
			return fmt.Errorf("registry: encode entry: %w", err)
		}
		entries = append(entries, string(buf))
	}
	buf, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("registry: encode list: %w", err)
	}
	if err := r.store.Set(ctx, storeKey, string(buf)); err != nil {
		return fmt.Errorf("registry: persist: %w", err)
	}
	return nil
}

// decode parses the stored value with strict JSON only. Stored text is never
// evaluated; any failure at either layer is store corruption.
func decode(raw string) ([]Endpoint, error) {
	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("outer array: %w", err)
	}
	eps := make([]Endpoint, 0, len(entries))
	for i, entry := range entries {
		var rec record
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		name, err := url.QueryUnescape(rec.Title)
		if err != nil {
			return nil, fmt.Errorf("entry %d title: %w", i, err)
		}
		link, err := url.QueryUnescape(rec.Link)
		if err != nil {
			return nil, fmt.Errorf("entry %d link: %w", i, err)
		}
		eps = append(eps, Endpoint{Name: name, URL: link})
	}
	return eps, nil
}
