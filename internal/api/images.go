package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fernvale/murmur/internal/assets"
	"github.com/fernvale/murmur/internal/memorystore"
)

const maxImageBytes = 10 << 20 // 10 MB

var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// ImageHandler accepts location image uploads and serves stored assets.
type ImageHandler struct {
	assets assets.Store
	store  *memorystore.Store
}

// NewImageHandler creates a handler over the given asset and memory stores.
func NewImageHandler(as assets.Store, store *memorystore.Store) *ImageHandler {
	return &ImageHandler{assets: as, store: store}
}

// Upload handles POST /api/images (multipart/form-data with "image" and
// "location" fields). The stored filename is derived from the location
// name, and every memory at that location gets the new image reference.
//
//	@Summary		Upload an illustrative image for a location
//	@Tags			locations
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"Image file"
//	@Param			location	formData	string	true	"Location name"
//	@Success		201			{object}	ImageUploadResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/images [post]
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'image' field in multipart form"))
		return
	}
	defer file.Close()

	location := strings.TrimSpace(r.FormValue("location"))
	if location == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("location is required"))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("unsupported image extension: %s", ext)))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read image"))
		return
	}

	filename := assets.LocationSlug(location) + ext
	ref, err := h.assets.SaveImage(data, filename)
	if err != nil {
		writeError(w, "save image", err)
		return
	}

	updated, err := h.store.SetLocationImage(r.Context(), location, ref)
	if err != nil {
		writeError(w, "attach image", err)
		return
	}

	writeJSON(w, http.StatusCreated, ImageUploadResponse{ImageURL: ref, Updated: updated})
}

// ServeAudio handles GET /recordings/{filename}.
func (h *ImageHandler) ServeAudio(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, assets.AudioPrefix)
}

// ServeImage handles GET /location-images/{filename}.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, assets.ImagePrefix)
}

func (h *ImageHandler) serve(w http.ResponseWriter, r *http.Request, prefix string) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.assets.Resolve(prefix + filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
