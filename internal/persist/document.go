package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fernvale/murmur/internal/models"
)

// Document implements Collection as a single JSON file on disk.
// Save is atomic (tmp file → fsync → rename), so a concurrent Load sees
// either the previous or the new collection, never a torn write.
type Document struct {
	path string
}

// NewDocument creates a Document store at the given file path, creating
// parent directories as needed. The file itself is created on first Save.
func NewDocument(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("persist: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("persist: create dir: %w", err)
	}
	return &Document{path: abs}, nil
}

// Path returns the absolute path of the backing file.
func (d *Document) Path() string { return d.path }

// Load reads and decodes the full collection.
func (d *Document) Load() ([]models.Memory, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Memory{}, nil
		}
		return nil, fmt.Errorf("persist: read document: %w", err)
	}
	var memories []models.Memory
	if err := json.Unmarshal(data, &memories); err != nil {
		return nil, fmt.Errorf("persist: decode document: %w", err)
	}
	return memories, nil
}

// Save encodes the full collection and writes it atomically.
func (d *Document) Save(memories []models.Memory) error {
	if memories == nil {
		memories = []models.Memory{}
	}
	data, err := json.MarshalIndent(memories, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encode document: %w", err)
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, ".murmur-doc-*")
	if err != nil {
		return fmt.Errorf("persist: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("persist: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("persist: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close temp: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("persist: rename: %w", err)
	}
	success = true
	return nil
}

// Close is a no-op for the document driver.
func (d *Document) Close() error { return nil }
