package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestSaveAudioAndResolve(t *testing.T) {
	s := tempStore(t)
	ref, err := s.SaveAudio([]byte("clip"), "a1.webm")
	if err != nil {
		t.Fatalf("SaveAudio: %v", err)
	}
	if ref != "/recordings/a1.webm" {
		t.Errorf("ref = %q", ref)
	}
	abs, err := s.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "clip" {
		t.Errorf("content = %q", data)
	}
}

func TestSaveImage(t *testing.T) {
	s := tempStore(t)
	ref, err := s.SaveImage([]byte("png"), "oak-park.png")
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if ref != "/location-images/oak-park.png" {
		t.Errorf("ref = %q", ref)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := tempStore(t)
	ref, _ := s.SaveAudio([]byte("clip"), "gone.webm")

	if err := s.Remove(ref); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// Removing an absent reference is not an error.
	if err := s.Remove(ref); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempStore(t)

	cases := []string{
		"../escape.webm",
		"a/b.webm",
		"..",
	}
	for _, name := range cases {
		if _, err := s.SaveAudio([]byte("x"), name); err == nil {
			t.Errorf("expected error for filename %q", name)
		}
	}
	if _, err := s.Resolve("/recordings/../memories.json"); err == nil {
		t.Error("expected error resolving traversal ref")
	}
	if _, err := s.Resolve("/elsewhere/x.webm"); err == nil {
		t.Error("expected error for unknown prefix")
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempStore(t)
	if _, err := s.SaveAudio([]byte("one"), "a.webm"); err != nil {
		t.Fatalf("SaveAudio: %v", err)
	}
	if _, err := s.SaveAudio([]byte("two"), "a.webm"); err != nil {
		t.Fatalf("SaveAudio overwrite: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, audioDir, ".murmur-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestDecodeAudioDataURI(t *testing.T) {
	payload := []byte("webm bytes")
	uri := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString(payload)

	data, ext, err := DecodeAudioDataURI(uri)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("data = %q", data)
	}
	if ext != ".webm" {
		t.Errorf("ext = %q", ext)
	}
}

func TestDecodeAudioDataURI_MimeVariants(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("x"))
	cases := map[string]string{
		"data:audio/ogg;base64,":  ".ogg",
		"data:audio/mpeg;base64,": ".mp3",
		"data:audio/wav;base64,":  ".wav",
		// Unknown audio type falls back to webm.
		"data:audio/flac;base64,": ".webm",
	}
	for prefix, want := range cases {
		_, ext, err := DecodeAudioDataURI(prefix + encoded)
		if err != nil {
			t.Fatalf("%s: %v", prefix, err)
		}
		if ext != want {
			t.Errorf("%s: ext = %q, want %q", prefix, ext, want)
		}
	}
}

func TestDecodeAudioDataURI_Invalid(t *testing.T) {
	cases := []string{
		"plain text",
		"data:audio/webm,not-base64-flagged",
		"data:audio/webm;base64,@@@",
		"data:audio/webm;base64,", // empty payload
	}
	for _, uri := range cases {
		if _, _, err := DecodeAudioDataURI(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestLocationSlug(t *testing.T) {
	cases := map[string]string{
		"Oak Park":            "oak-park",
		"  Main St. & 5th  ":  "main-st-5th",
		"Ünïcøde Plaza":       "n-c-de-plaza",
		"":                    "unspecified",
		"---":                 "unspecified",
	}
	for in, want := range cases {
		if got := LocationSlug(in); got != want {
			t.Errorf("LocationSlug(%q) = %q, want %q", in, got, want)
		}
	}
	if strings.ContainsAny(LocationSlug("a/b\\c"), "/\\") {
		t.Error("slug contains path separators")
	}
}
