// Package testutil provides shared test helpers for setting up archives
// and memory stores.
package testutil

import (
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/fernvale/murmur/internal/assets"
	"github.com/fernvale/murmur/internal/memorystore"
	"github.com/fernvale/murmur/internal/persist"
)

// TestCollection creates a document-backed collection in a temp directory.
func TestCollection(t *testing.T) *persist.Document {
	t.Helper()
	doc, err := persist.NewDocument(filepath.Join(t.TempDir(), "memories.json"))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// TestStore creates a memory store over a temp archive and document
// collection, all cleaned up automatically.
func TestStore(t *testing.T) (*memorystore.Store, *assets.FS) {
	t.Helper()
	archive := t.TempDir()
	as, err := assets.NewFS(archive)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := persist.NewDocument(filepath.Join(archive, "memories.json"))
	if err != nil {
		t.Fatal(err)
	}
	return memorystore.New(doc, as), as
}

// AudioURI wraps raw bytes in a webm base64 data URI, the format browser
// recorders post.
func AudioURI(data []byte) string {
	return "data:audio/webm;base64," + base64.StdEncoding.EncodeToString(data)
}
