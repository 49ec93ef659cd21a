package api

import (
	"github.com/fernvale/murmur/internal/memorystore"
	"github.com/fernvale/murmur/internal/models"
	"github.com/fernvale/murmur/internal/soundwalk"
)

// CreateMemoryRequest is the request body for recording a new memory.
// AudioData is a base64 data URI (e.g. data:audio/webm;base64,...).
type CreateMemoryRequest = memorystore.CreateInput

// UpdateMemoryRequest is the request body for updating a memory's mutable
// fields. Omitted fields are left unchanged; id, audioUrl, and date are
// never taken from the caller.
type UpdateMemoryRequest = models.MemoryPatch

// MemoryListResponse wraps the full memory listing.
type MemoryListResponse struct {
	Memories []models.Memory `json:"memories" validate:"required"`
	Total    int             `json:"total" example:"42" validate:"required"`
}

// LocationsResponse wraps the distinct location names.
type LocationsResponse struct {
	Locations []string `json:"locations" validate:"required"`
}

// SuggestResponse wraps autocomplete suggestions.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions" validate:"required"`
}

// GraphResponse is the projected location graph.
type GraphResponse = soundwalk.Graph

// LocationViewResponse is the soundwalk view for one location.
type LocationViewResponse = soundwalk.LocationView

// LocationGroup is one bucket in the grouped recordings listing. Memories
// without a location fall into the "Unspecified Location" bucket; that
// bucket exists only in this view and never in the graph.
type LocationGroup struct {
	Location string          `json:"location" example:"Oak Park" validate:"required"`
	Memories []models.Memory `json:"memories" validate:"required"`
}

// GroupedResponse wraps the grouped recordings listing.
type GroupedResponse struct {
	Groups []LocationGroup `json:"groups" validate:"required"`
}

// ImageUploadResponse is returned after a successful location image upload.
type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl" example:"/location-images/oak-park.jpg" validate:"required"`
	Updated  int    `json:"updated" example:"3" validate:"required"`
}
