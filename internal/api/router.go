package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/fernvale/murmur/internal/assets"
	"github.com/fernvale/murmur/internal/memorystore"
	"github.com/fernvale/murmur/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events, if non-nil, is the SSE broker mounted at GET /events inside the
// auth group and notified on every mutation.
func NewRouter(store *memorystore.Store, as assets.Store, authEnabled bool, token string, events *sse.Broker) chi.Router {
	h := NewHandler(store, events)
	ih := NewImageHandler(as, store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Memories CRUD.
	r.Get("/memories", h.ListMemories)
	r.Post("/memories", h.CreateMemory)
	r.Put("/memories/{id}", h.UpdateMemory)
	r.Delete("/memories/{id}", h.DeleteMemory)

	// Locations and autocomplete.
	r.Get("/locations", h.Locations)
	r.Get("/locations/suggest", h.Suggest)

	// Derived graph and soundwalk navigation.
	r.Get("/graph", h.Graph)
	r.Get("/soundwalk", h.Soundwalk)

	// Grouped listing for the recordings page.
	r.Get("/recordings/grouped", h.Grouped)

	// Location image upload (auth-protected).
	r.Post("/images", ih.Upload)

	// SSE endpoint (protected by same auth middleware).
	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}

// NewAssetRouter serves stored audio clips and location images. Mounted at
// the server root and unauthenticated so that plain <audio>/<img> elements
// can fetch them.
func NewAssetRouter(as assets.Store, store *memorystore.Store) chi.Router {
	ih := NewImageHandler(as, store)

	r := chi.NewRouter()
	r.Get("/recordings/{filename}", ih.ServeAudio)
	r.Get("/location-images/{filename}", ih.ServeImage)
	return r
}
