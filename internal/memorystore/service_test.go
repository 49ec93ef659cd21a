package memorystore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fernvale/murmur/internal/apperr"
	"github.com/fernvale/murmur/internal/assets"
	"github.com/fernvale/murmur/internal/locations"
	"github.com/fernvale/murmur/internal/memorystore"
	"github.com/fernvale/murmur/internal/models"
	"github.com/fernvale/murmur/internal/testutil"
)

var ctx = context.Background()

func create(t *testing.T, s *memorystore.Store, in memorystore.CreateInput) *models.Memory {
	t.Helper()
	if in.AudioData == "" {
		in.AudioData = testutil.AudioURI([]byte("clip"))
	}
	m, err := s.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create(%q): %v", in.Title, err)
	}
	return m
}

func TestCreateThenList(t *testing.T) {
	s, _ := testutil.TestStore(t)

	a := create(t, s, memorystore.CreateInput{Title: "Birdsong", Type: models.Keynote, Location: "Oak Park"})
	b := create(t, s, memorystore.CreateInput{Title: "Bells", Type: models.Soundmark, Location: "Square"})

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Insertion order, unique IDs.
	if got[0].ID != a.ID || got[1].ID != b.ID {
		t.Errorf("order = %s,%s", got[0].ID, got[1].ID)
	}
	if a.ID == b.ID {
		t.Error("IDs must be unique")
	}
	if a.AudioRef == "" || a.CreatedAt.IsZero() {
		t.Error("create must assign audioRef and createdAt")
	}
}

func TestCreateValidation(t *testing.T) {
	s, _ := testutil.TestStore(t)

	cases := []struct {
		name string
		in   memorystore.CreateInput
	}{
		{"missing title", memorystore.CreateInput{Type: models.Keynote, AudioData: testutil.AudioURI([]byte("x"))}},
		{"whitespace-only title", memorystore.CreateInput{Title: "   ", Type: models.Keynote, AudioData: testutil.AudioURI([]byte("x"))}},
		{"missing audio", memorystore.CreateInput{Title: "t", Type: models.Keynote}},
		{"bad type", memorystore.CreateInput{Title: "t", Type: "ambient", AudioData: testutil.AudioURI([]byte("x"))}},
		{"undecodable audio", memorystore.CreateInput{Title: "t", Type: models.Keynote, AudioData: "data:audio/webm;base64,@@@"}},
		{"not a data uri", memorystore.CreateInput{Title: "t", Type: models.Keynote, AudioData: "hello"}},
	}
	for _, tc := range cases {
		if _, err := s.Create(ctx, tc.in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.name, err)
		}
	}

	// Nothing was persisted along the way.
	got, _ := s.List(ctx)
	if len(got) != 0 {
		t.Errorf("failed creates left %d records", len(got))
	}
}

func TestCreateWritesAudioAsset(t *testing.T) {
	s, as := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{Title: "Hum", Type: models.Keynote})

	abs, err := as.Resolve(m.AudioRef)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("audio asset missing: %v", err)
	}
	if string(data) != "clip" {
		t.Errorf("asset content = %q", data)
	}
}

func TestCreateTrimsLocations(t *testing.T) {
	s, _ := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{
		Title: "To Fountain", Type: models.Pointer,
		Location: "  Oak Park ", Destination: " Fountain  ",
	})
	if m.Location != "Oak Park" || m.Destination != "Fountain" {
		t.Errorf("location/destination = %q/%q", m.Location, m.Destination)
	}
}

func TestCreateIgnoresDestinationForNonPointers(t *testing.T) {
	s, _ := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{
		Title: "Birdsong", Type: models.Keynote,
		Location: "Oak Park", Destination: "Fountain",
	})
	if m.Destination != "" {
		t.Errorf("keynote stored destination %q", m.Destination)
	}
}

func TestUpdateMutableFieldsOnly(t *testing.T) {
	s, _ := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{Title: "Old", Type: models.Keynote, Location: "Oak Park"})

	title := "New title"
	desc := "now with words"
	ptr := models.Pointer
	dest := "Fountain"
	got, err := s.Update(ctx, m.ID, models.MemoryPatch{
		Title: &title, Description: &desc, Type: &ptr, Destination: &dest,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got.Title != title || got.Description != desc || got.Type != models.Pointer || got.Destination != dest {
		t.Errorf("patch not applied: %+v", got)
	}
	// Location was absent from the patch and must be unchanged.
	if got.Location != "Oak Park" {
		t.Errorf("location changed to %q", got.Location)
	}
	// Immutable fields preserved.
	if got.ID != m.ID || got.AudioRef != m.AudioRef || !got.CreatedAt.Equal(m.CreatedAt) {
		t.Errorf("immutable fields changed: %+v vs %+v", got, m)
	}
}

func TestUpdateClearsDestinationWhenNotPointer(t *testing.T) {
	s, _ := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{
		Title: "To Fountain", Type: models.Pointer, Location: "Oak Park", Destination: "Fountain",
	})

	keynote := models.Keynote
	got, err := s.Update(ctx, m.ID, models.MemoryPatch{Type: &keynote})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Destination != "" {
		t.Errorf("destination survived role change: %q", got.Destination)
	}
}

func TestUpdateValidation(t *testing.T) {
	s, _ := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{Title: "t", Type: models.Keynote})

	bad := models.RecordingType("ambient")
	if _, err := s.Update(ctx, m.ID, models.MemoryPatch{Type: &bad}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad type: err = %v, want ErrValidation", err)
	}
	blank := "   "
	if _, err := s.Update(ctx, m.ID, models.MemoryPatch{Title: &blank}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("blank title: err = %v, want ErrValidation", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s, _ := testutil.TestStore(t)
	title := "x"
	if _, err := s.Update(ctx, "nope", models.MemoryPatch{Title: &title}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesRecordAndAsset(t *testing.T) {
	s, as := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{Title: "t", Type: models.Keynote})

	abs, _ := as.Resolve(m.AudioRef)
	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, _ := s.List(ctx)
	if len(got) != 0 {
		t.Errorf("record survived delete")
	}
	if _, err := os.Stat(abs); !os.IsNotExist(err) {
		t.Errorf("audio asset survived delete")
	}
}

func TestDeleteTwice(t *testing.T) {
	s, _ := testutil.TestStore(t)
	m := create(t, s, memorystore.CreateInput{Title: "t", Type: models.Keynote})

	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(ctx, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestLocationsDerivedFromStore(t *testing.T) {
	s, _ := testutil.TestStore(t)
	bird := create(t, s, memorystore.CreateInput{Title: "Birdsong", Type: models.Keynote, Location: "Oak Park"})
	create(t, s, memorystore.CreateInput{
		Title: "To Fountain", Type: models.Pointer, Location: "Oak Park", Destination: "Fountain",
	})

	snapshot, _ := s.List(ctx)
	want := []string{"Fountain", "Oak Park"}
	if got := locations.All(snapshot); !reflect.DeepEqual(got, want) {
		t.Errorf("All = %v, want %v", got, want)
	}

	// Deleting Birdsong must keep Oak Park alive: the pointer still
	// references it.
	if err := s.Delete(ctx, bird.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	snapshot, _ = s.List(ctx)
	if got := locations.All(snapshot); !reflect.DeepEqual(got, want) {
		t.Errorf("after delete All = %v, want %v", got, want)
	}
}

func TestSetLocationImage(t *testing.T) {
	s, _ := testutil.TestStore(t)
	create(t, s, memorystore.CreateInput{Title: "a", Type: models.Keynote, Location: "Oak Park"})
	create(t, s, memorystore.CreateInput{Title: "b", Type: models.Soundmark, Location: "Oak Park"})
	create(t, s, memorystore.CreateInput{Title: "c", Type: models.Keynote, Location: "Square"})

	n, err := s.SetLocationImage(ctx, "Oak Park", "/location-images/oak-park.jpg")
	if err != nil {
		t.Fatalf("SetLocationImage: %v", err)
	}
	if n != 2 {
		t.Errorf("updated = %d, want 2", n)
	}

	snapshot, _ := s.List(ctx)
	for _, m := range snapshot {
		want := ""
		if m.Location == "Oak Park" {
			want = "/location-images/oak-park.jpg"
		}
		if m.LocationImage != want {
			t.Errorf("%s image = %q, want %q", m.Title, m.LocationImage, want)
		}
	}
}

func TestConcurrentCreatesDoNotLoseUpdates(t *testing.T) {
	s, _ := testutil.TestStore(t)

	const n = 16
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := s.Create(ctx, memorystore.CreateInput{
				Title: "t", Type: models.Keynote, AudioData: testutil.AudioURI([]byte("clip")),
			})
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}

	got, _ := s.List(ctx)
	if len(got) != n {
		t.Errorf("len = %d, want %d (lost updates)", len(got), n)
	}
	seen := make(map[string]bool)
	for _, m := range got {
		if seen[m.ID] {
			t.Errorf("duplicate id %s", m.ID)
		}
		seen[m.ID] = true
	}
}

// saveFailCollection loads fine but cannot persist, exercising the
// create-side rollback.
type saveFailCollection struct{}

func (saveFailCollection) Load() ([]models.Memory, error) { return []models.Memory{}, nil }
func (saveFailCollection) Save([]models.Memory) error     { return errors.New("disk full") }

func TestCreateRollsBackAssetWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	as, err := assets.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	s := memorystore.New(saveFailCollection{}, as)

	_, err = s.Create(ctx, memorystore.CreateInput{
		Title: "t", Type: models.Keynote, AudioData: testutil.AudioURI([]byte("clip")),
	})
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}

	// The audio clip written before the metadata failure was removed again.
	entries, err := os.ReadDir(filepath.Join(dir, "recordings"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("orphaned audio assets after failed create: %d", len(entries))
	}
}

// removeFailAssets stores normally but refuses to delete, exercising the
// best-effort asset removal on delete.
type removeFailAssets struct{ assets.Store }

func (removeFailAssets) Remove(string) error { return errors.New("permission denied") }

func TestDeleteSucceedsWhenAssetRemovalFails(t *testing.T) {
	as, err := assets.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := memorystore.New(testutil.TestCollection(t), removeFailAssets{Store: as})
	m := create(t, s, memorystore.CreateInput{Title: "t", Type: models.Keynote})

	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete must not surface asset removal failure: %v", err)
	}
	got, _ := s.List(ctx)
	if len(got) != 0 {
		t.Errorf("record survived delete")
	}
}
