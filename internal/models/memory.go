// Package models defines the domain types for Murmur.
package models

import "time"

// RecordingType classifies the semantic role of a recording.
type RecordingType string

// The three recording roles.
const (
	// Soundmark is a distinctive, location-identifying sound.
	Soundmark RecordingType = "soundmark"
	// Keynote is an ambient sound characterizing a place's atmosphere.
	Keynote RecordingType = "keynote"
	// Pointer defines a directed traversal edge between two locations.
	Pointer RecordingType = "pointer"
)

// Valid reports whether t is one of the known recording roles.
func (t RecordingType) Valid() bool {
	switch t {
	case Soundmark, Keynote, Pointer:
		return true
	}
	return false
}

// Types returns all valid recording types, for validation rules and docs.
func Types() []interface{} {
	return []interface{}{Soundmark, Keynote, Pointer}
}

// Memory represents one recorded audio clip tied to a named location.
//
// Location and Destination are free-text names, not foreign keys: location
// identity is structural equality of trimmed, case-sensitive strings.
// Destination is meaningful only when Type is Pointer.
type Memory struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Type          RecordingType `json:"recordingType"`
	Location      string        `json:"location"`
	Destination   string        `json:"destination,omitempty"`
	AudioRef      string        `json:"audioUrl"`
	LocationImage string        `json:"locationImage,omitempty"`
	CreatedAt     time.Time     `json:"date"`
}

// MemoryPatch carries the mutable fields of an update request. Nil fields
// are left unchanged. ID, AudioRef and CreatedAt are never patchable.
type MemoryPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Type        *RecordingType `json:"recordingType"`
	Location    *string        `json:"location"`
	Destination *string        `json:"destination"`
}
