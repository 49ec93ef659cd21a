package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fernvale/murmur/internal/apperr"
	"github.com/fernvale/murmur/internal/locations"
	"github.com/fernvale/murmur/internal/memorystore"
	"github.com/fernvale/murmur/internal/soundwalk"
	"github.com/fernvale/murmur/internal/sse"
)

// UnspecifiedLocation is the grouping bucket for memories without a
// location. It is a display label, never a graph node.
const UnspecifiedLocation = "Unspecified Location"

const maxCreateBytes = 50 << 20 // base64 audio payloads are large

// Handler holds API route handlers.
type Handler struct {
	store  *memorystore.Store
	events *sse.Broker
}

// NewHandler creates a new Handler. events may be nil when no SSE broker
// is attached (tests, MCP-only mode).
func NewHandler(store *memorystore.Store, events *sse.Broker) *Handler {
	return &Handler{store: store, events: events}
}

func (h *Handler) notify(kind, id string) {
	if h.events != nil {
		h.events.PublishMemoryEvent(kind, id)
	}
}

// writeError maps the apperr taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListMemories handles GET /api/memories.
//
//	@Summary		List all memories in insertion order
//	@Tags			memories
//	@Produce		json
//	@Success		200	{object}	MemoryListResponse
//	@Security		BearerAuth
//	@Router			/memories [get]
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, "list memories", err)
		return
	}
	writeJSON(w, http.StatusOK, MemoryListResponse{Memories: memories, Total: len(memories)})
}

// CreateMemory handles POST /api/memories.
//
//	@Summary		Record a new memory from a base64 audio payload
//	@Tags			memories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateMemoryRequest	true	"Memory to record"
//	@Success		201		{object}	models.Memory
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories [post]
func (h *Handler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBytes)
	var req CreateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	m, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, "create memory", err)
		return
	}
	h.notify("created", m.ID)
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMemory handles PUT /api/memories/{id}.
//
//	@Summary		Update a memory's mutable fields
//	@Tags			memories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Memory ID"
//	@Param			body	body		UpdateMemoryRequest	true	"Fields to change"
//	@Success		200		{object}	models.Memory
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories/{id} [put]
func (h *Handler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch UpdateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	m, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, "update memory", err)
		return
	}
	h.notify("updated", m.ID)
	writeJSON(w, http.StatusOK, m)
}

// DeleteMemory handles DELETE /api/memories/{id}.
//
//	@Summary		Delete a memory and release its audio asset
//	@Tags			memories
//	@Param			id	path	string	true	"Memory ID"
//	@Success		204	"Memory deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memories/{id} [delete]
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, "delete memory", err)
		return
	}
	h.notify("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Locations handles GET /api/locations.
//
//	@Summary		List all distinct location names
//	@Tags			locations
//	@Produce		json
//	@Success		200	{object}	LocationsResponse
//	@Security		BearerAuth
//	@Router			/locations [get]
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	memories, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, "list locations", err)
		return
	}
	all := locations.All(memories)
	if all == nil {
		all = []string{}
	}
	writeJSON(w, http.StatusOK, LocationsResponse{Locations: all})
}

// Suggest handles GET /api/locations/suggest.
//
//	@Summary		Autocomplete location names by case-insensitive substring
//	@Tags			locations
//	@Produce		json
//	@Param			q	query		string	true	"Partial location name"
//	@Success		200	{object}	SuggestResponse
//	@Security		BearerAuth
//	@Router			/locations/suggest [get]
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	memories, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, "suggest locations", err)
		return
	}
	suggestions := locations.Suggest(memories, r.URL.Query().Get("q"))
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Suggestions: suggestions})
}

// Graph handles GET /api/graph.
//
//	@Summary		Project the location graph from the current memories
//	@Tags			soundwalk
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	memories, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, "graph", err)
		return
	}
	writeJSON(w, http.StatusOK, soundwalk.Project(memories))
}

// Soundwalk handles GET /api/soundwalk.
//
//	@Summary		Sounds and outbound pointers at a location
//	@Tags			soundwalk
//	@Produce		json
//	@Param			location	query		string	false	"Selected location (empty yields an empty view)"
//	@Success		200			{object}	LocationViewResponse
//	@Security		BearerAuth
//	@Router			/soundwalk [get]
func (h *Handler) Soundwalk(w http.ResponseWriter, r *http.Request) {
	memories, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, "soundwalk", err)
		return
	}
	writeJSON(w, http.StatusOK, soundwalk.SelectLocation(memories, r.URL.Query().Get("location")))
}

// Grouped handles GET /api/recordings/grouped.
//
//	@Summary		Memories grouped by location, in first-appearance order
//	@Tags			memories
//	@Produce		json
//	@Success		200	{object}	GroupedResponse
//	@Security		BearerAuth
//	@Router			/recordings/grouped [get]
func (h *Handler) Grouped(w http.ResponseWriter, r *http.Request) {
	memories, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, "grouped recordings", err)
		return
	}

	groups := []LocationGroup{}
	index := make(map[string]int)
	for _, m := range memories {
		loc := m.Location
		if loc == "" {
			// A location literally named "Unspecified Location" shares this
			// bucket. Accepted: the label is presentation-only and the
			// registry/graph still see the real (empty vs literal) values.
			loc = UnspecifiedLocation
		}
		i, ok := index[loc]
		if !ok {
			i = len(groups)
			index[loc] = i
			groups = append(groups, LocationGroup{Location: loc})
		}
		groups[i].Memories = append(groups[i].Memories, m)
	}
	writeJSON(w, http.StatusOK, GroupedResponse{Groups: groups})
}
