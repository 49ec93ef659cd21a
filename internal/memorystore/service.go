// Package memorystore implements the authoritative memory collection:
// create, update, delete, and list over the durable persist.Collection,
// with audio assets kept consistent with the metadata.
package memorystore

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/fernvale/murmur/internal/apperr"
	"github.com/fernvale/murmur/internal/assets"
	"github.com/fernvale/murmur/internal/models"
)

// CreateInput carries the fields of a new memory. AudioData is a base64
// data URI produced by a browser recorder.
type CreateInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        models.RecordingType `json:"recordingType"`
	Location    string               `json:"location"`
	Destination string               `json:"destination"`
	AudioData   string               `json:"audioData"`
}

// notBlank rejects strings that are empty after trimming; Required alone
// lets whitespace-only values through.
func notBlank(value interface{}) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// Validate checks the required fields of a create request.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.By(notBlank)),
		validation.Field(&in.Type, validation.Required, validation.In(models.Types()...)),
		validation.Field(&in.AudioData, validation.Required),
	)
}

// Store coordinates the durable collection and the asset store.
//
// Mutations are serialized by mu: the persisted collection is a single
// shared document, so each read-modify-write cycle must complete before
// the next begins. Reads take no lock; Save is atomic in every driver, so
// a concurrent Load observes either the pre- or post-state.
type Store struct {
	mu     sync.Mutex
	col    Collection
	assets assets.Store
}

// Collection is the subset of persist.Collection the store depends on.
type Collection interface {
	Load() ([]models.Memory, error)
	Save(memories []models.Memory) error
}

// New creates a Store over the given collection and asset store.
func New(col Collection, as assets.Store) *Store {
	return &Store{col: col, assets: as}
}

// Create validates input, stores the audio asset, and appends the new
// record. The asset is written first and removed again if the metadata
// write fails, so a record never exists without a retrievable clip.
func (s *Store) Create(_ context.Context, in CreateInput) (*models.Memory, error) {
	if err := in.Validate(); err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	data, ext, err := assets.DecodeAudioDataURI(in.AudioData)
	if err != nil {
		return nil, apperr.Validationf("audio payload: %v", err)
	}

	id := uuid.New().String()
	audioRef, err := s.assets.SaveAudio(data, id+ext)
	if err != nil {
		return nil, apperr.Asset(err)
	}

	m := models.Memory{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        in.Type,
		Location:    strings.TrimSpace(in.Location),
		AudioRef:    audioRef,
		CreatedAt:   time.Now().UTC(),
	}
	if in.Type == models.Pointer {
		m.Destination = strings.TrimSpace(in.Destination)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memories, err := s.col.Load()
	if err != nil {
		s.discardAsset(audioRef)
		return nil, apperr.Persistence(err)
	}
	memories = append(memories, m)
	if err := s.col.Save(memories); err != nil {
		s.discardAsset(audioRef)
		return nil, apperr.Persistence(err)
	}
	return &m, nil
}

// Update applies the patch to the mutable fields of the record with the
// given id. ID, AudioRef, and CreatedAt are always preserved from the
// stored record regardless of caller input.
func (s *Store) Update(_ context.Context, id string, patch models.MemoryPatch) (*models.Memory, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, apperr.Validationf("recordingType: must be a valid value")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apperr.Validationf("title: cannot be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memories, err := s.col.Load()
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	idx := indexOf(memories, id)
	if idx < 0 {
		return nil, apperr.ErrNotFound
	}

	m := memories[idx]
	if patch.Title != nil {
		m.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Location != nil {
		m.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Destination != nil {
		m.Destination = strings.TrimSpace(*patch.Destination)
	}
	// Destination is meaningful only on pointers.
	if m.Type != models.Pointer {
		m.Destination = ""
	}

	memories[idx] = m
	if err := s.col.Save(memories); err != nil {
		return nil, apperr.Persistence(err)
	}
	return &m, nil
}

// Delete removes the record and releases its audio asset. Asset removal is
// best-effort: an orphaned clip is less harmful than an unremovable record.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memories, err := s.col.Load()
	if err != nil {
		return apperr.Persistence(err)
	}

	idx := indexOf(memories, id)
	if idx < 0 {
		return apperr.ErrNotFound
	}

	removed := memories[idx]
	memories = append(memories[:idx], memories[idx+1:]...)
	if err := s.col.Save(memories); err != nil {
		return apperr.Persistence(err)
	}

	s.discardAsset(removed.AudioRef)
	return nil
}

// SetLocationImage stamps the image reference onto every memory recorded
// at the given location and returns how many records were updated.
func (s *Store) SetLocationImage(_ context.Context, location, ref string) (int, error) {
	if strings.TrimSpace(location) == "" {
		return 0, apperr.Validationf("location: cannot be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memories, err := s.col.Load()
	if err != nil {
		return 0, apperr.Persistence(err)
	}

	updated := 0
	for i, m := range memories {
		if m.Location == location {
			memories[i].LocationImage = ref
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if err := s.col.Save(memories); err != nil {
		return 0, apperr.Persistence(err)
	}
	return updated, nil
}

// List returns a snapshot of all records in insertion order.
func (s *Store) List(_ context.Context) ([]models.Memory, error) {
	memories, err := s.col.Load()
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return memories, nil
}

func (s *Store) discardAsset(ref string) {
	if ref == "" {
		return
	}
	if err := s.assets.Remove(ref); err != nil {
		slog.Warn("asset removal failed", slog.String("ref", ref), slog.String("error", err.Error()))
	}
}

func indexOf(memories []models.Memory, id string) int {
	for i, m := range memories {
		if m.ID == id {
			return i
		}
	}
	return -1
}
