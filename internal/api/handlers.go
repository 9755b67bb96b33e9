// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/e2nav/e2nav/internal/log"
	"github.com/e2nav/e2nav/internal/query"
	"github.com/e2nav/e2nav/internal/registry"
)

func (s *Server) handleListReceivers(w http.ResponseWriter, r *http.Request) {
	eps, err := s.registry.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load receiver list")
		return
	}
	if eps == nil {
		eps = []registry.Endpoint{} // never marshal null
	}
	writeJSON(w, http.StatusOK, eps)
}

func (s *Server) handleAddReceiver(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ep, err := s.registry.Add(r.Context(), body.Name, body.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ep)
}

func (s *Server) handleRemoveReceiver(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := s.registry.Remove(r.Context(), index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func domainFrom(r *http.Request) query.Domain {
	if r.URL.Query().Get("domain") == "radio" {
		return query.Radio
	}
	return query.TV
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := q.Get("view")
	receiver := q.Get("receiver")
	ctx := r.Context()
	opts := s.cfg.Snapshot().Options

	switch view {
	case "", "home":
		page, err := s.builder.Home(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load receiver list")
			return
		}
		writeJSON(w, http.StatusOK, page)
	case "receiver":
		if receiver == "" {
			writeError(w, http.StatusBadRequest, "receiver parameter required")
			return
		}
		page, err := s.builder.Receiver(ctx, receiver, opts)
		if err != nil {
			writeError(w, http.StatusBadGateway, "receiver is not reachable")
			return
		}
		writeJSON(w, http.StatusOK, page)
	case "bouquets", "providers", "satellites", "all":
		if receiver == "" {
			writeError(w, http.StatusBadRequest, "receiver parameter required")
			return
		}
		scopes := map[string]query.Scope{
			"bouquets":   query.Bouquets,
			"providers":  query.Providers,
			"satellites": query.Satellites,
			"all":        query.AllServices,
		}
		writeJSON(w, http.StatusOK, s.builder.Scope(ctx, receiver, scopes[view], domainFrom(r)))
	case "services":
		ref := q.Get("ref")
		if receiver == "" || ref == "" {
			writeError(w, http.StatusBadRequest, "receiver and ref parameters required")
			return
		}
		writeJSON(w, http.StatusOK, s.builder.Services(ctx, receiver, ref, q.Get("name"), domainFrom(r)))
	default:
		writeError(w, http.StatusBadRequest, "unknown view "+strconv.Quote(view))
	}
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Receiver string `json:"receiver"`
		Ref      string `json:"ref"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Receiver == "" || body.Ref == "" {
		writeError(w, http.StatusBadRequest, "receiver and ref required")
		return
	}
	opts := s.cfg.Snapshot().Options
	stream := s.builder.Play(r.Context(), body.Receiver, body.Ref, body.Name, opts)
	s.logger.Debug().
		Str(log.FieldReceiver, body.Receiver).
		Str(log.FieldServiceRef, body.Ref).
		Msg("stream resolved")
	writeJSON(w, http.StatusOK, stream)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	receiver := r.URL.Query().Get("receiver")
	if receiver == "" {
		writeError(w, http.StatusBadRequest, "receiver parameter required")
		return
	}
	stream, err := s.builder.Current(r.Context(), receiver)
	if err != nil {
		writeError(w, http.StatusBadGateway, "receiver is not reachable")
		return
	}
	writeJSON(w, http.StatusOK, stream)
}
