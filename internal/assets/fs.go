package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	audioDir = "recordings"
	imageDir = "location-images"
)

// FS implements Store backed by the local file system.
type FS struct {
	root string // absolute path to the archive directory
}

// NewFS creates an FS store rooted at the given archive directory,
// creating the audio and image subdirectories if needed.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("assets: resolve root: %w", err)
	}
	for _, sub := range []string{audioDir, imageDir} {
		if err := os.MkdirAll(filepath.Join(abs, sub), 0o755); err != nil {
			return nil, fmt.Errorf("assets: create %s dir: %w", sub, err)
		}
	}
	return &FS{root: abs}, nil
}

// safeName rejects filenames containing path separators or traversal and
// returns the absolute path under the given subdirectory.
func (f *FS) safeName(sub, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("assets: filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("assets: invalid filename: %s", name)
	}
	base := filepath.Join(f.root, sub)
	abs := filepath.Join(base, cleaned)
	if !strings.HasPrefix(abs, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("assets: path escapes archive: %s", name)
	}
	return abs, nil
}

// SaveAudio atomically writes an audio clip under the recordings directory.
func (f *FS) SaveAudio(data []byte, filename string) (string, error) {
	abs, err := f.safeName(audioDir, filename)
	if err != nil {
		return "", err
	}
	if err := f.writeAtomic(abs, data); err != nil {
		return "", err
	}
	return AudioPrefix + filename, nil
}

// SaveImage atomically writes a location image under the images directory.
func (f *FS) SaveImage(data []byte, filename string) (string, error) {
	abs, err := f.safeName(imageDir, filename)
	if err != nil {
		return "", err
	}
	if err := f.writeAtomic(abs, data); err != nil {
		return "", err
	}
	return ImagePrefix + filename, nil
}

// Remove deletes the asset behind ref. Missing files are not an error.
func (f *FS) Remove(ref string) error {
	abs, err := f.Resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("assets: remove %s: %w", ref, err)
	}
	return nil
}

// Resolve maps a serving reference back to its absolute file path.
func (f *FS) Resolve(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, AudioPrefix):
		return f.safeName(audioDir, strings.TrimPrefix(ref, AudioPrefix))
	case strings.HasPrefix(ref, ImagePrefix):
		return f.safeName(imageDir, strings.TrimPrefix(ref, ImagePrefix))
	}
	return "", fmt.Errorf("assets: unknown reference: %s", ref)
}

// writeAtomic writes content via tmp file → fsync → rename.
func (f *FS) writeAtomic(abs string, content []byte) error {
	dir := filepath.Dir(abs)
	tmp, err := os.CreateTemp(dir, ".murmur-tmp-*")
	if err != nil {
		return fmt.Errorf("assets: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("assets: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("assets: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("assets: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("assets: rename: %w", err)
	}
	success = true
	return nil
}
