package soundwalk

import "github.com/fernvale/murmur/internal/models"

// LocationView is what a visitor standing at a location can hear and where
// they can go next.
type LocationView struct {
	Sounds   []models.Memory `json:"sounds"`
	Pointers []models.Memory `json:"pointers"`
}

// SelectLocation answers "what can I hear here" and "where can I go" for
// the named location. It is a pure function of the snapshot and the query:
// no walk state is kept, and calling twice with the same inputs yields
// identical results. An empty name yields an empty view, not an error.
func SelectLocation(memories []models.Memory, name string) LocationView {
	view := LocationView{Sounds: []models.Memory{}, Pointers: []models.Memory{}}
	if name == "" {
		return view
	}
	if sounds := SoundsAt(memories, name); sounds != nil {
		view.Sounds = sounds
	}
	if pointers := OutboundPointers(memories, name); pointers != nil {
		view.Pointers = pointers
	}
	return view
}
