package saver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shaiso/colorsort/internal/mq"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type folders struct {
	images string
	output string
}

func setup(t *testing.T, files ...string) folders {
	t.Helper()
	f := folders{images: t.TempDir(), output: t.TempDir()}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(f.images, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func newSaver(f folders) *Saver {
	return New(Config{
		ImageFolder:   f.images,
		OutputFolder:  f.output,
		ResponseQueue: "fake_response_queue",
		Logger:        discardLogger(),
	})
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestMoveImage(t *testing.T) {
	f := setup(t, "image.jpg")

	if err := MoveImage("image.jpg", "random_color", f.images, f.output); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exists(filepath.Join(f.images, "image.jpg")) {
		t.Error("source should be gone")
	}
	data, err := os.ReadFile(filepath.Join(f.output, "random_color", "image.jpg"))
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(data) != "image.jpg" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestMoveImage_SourceMissing(t *testing.T) {
	f := setup(t)

	err := MoveImage("ghost.png", "red", f.images, f.output)
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
	if exists(filepath.Join(f.output, "red", "ghost.png")) {
		t.Error("destination must not be created")
	}
}

func TestMoveImage_RejectsPaths(t *testing.T) {
	f := setup(t, "a.png")

	tests := []struct{ filename, color string }{
		{"../a.png", "red"},
		{"a.png", "../red"},
		{"a.png", ""},
		{"sub/a.png", "red"},
	}

	for _, tt := range tests {
		if err := MoveImage(tt.filename, tt.color, f.images, f.output); !errors.Is(err, mq.ErrMalformedMessage) {
			t.Errorf("MoveImage(%q, %q): expected ErrMalformedMessage, got %v", tt.filename, tt.color, err)
		}
	}
	if !exists(filepath.Join(f.images, "a.png")) {
		t.Error("source must stay in place")
	}
}

func TestHandle_MovesByColor(t *testing.T) {
	f := setup(t, "fire.png", "water.png")
	s := newSaver(f)
	ctx := context.Background()

	for _, body := range []string{"red/fire.png", "blue/water.png"} {
		if err := s.Handle(ctx, &mq.Delivery{Body: []byte(body)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for _, path := range []string{
		filepath.Join(f.output, "red", "fire.png"),
		filepath.Join(f.output, "blue", "water.png"),
	} {
		if !exists(path) {
			t.Errorf("expected %s", path)
		}
	}
	entries, err := os.ReadDir(f.images)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("image folder should be empty, got %d entries", len(entries))
	}
}

func TestHandle_SourceMissing(t *testing.T) {
	f := setup(t)
	s := newSaver(f)

	if err := s.Handle(context.Background(), &mq.Delivery{Body: []byte("red/ghost.png")}); err != nil {
		t.Fatalf("missing source must not return error, got %v", err)
	}
	if exists(filepath.Join(f.output, "red", "ghost.png")) {
		t.Error("destination must not be created")
	}
}

func TestHandle_Malformed(t *testing.T) {
	f := setup(t, "x.png")
	s := newSaver(f)
	ctx := context.Background()

	for _, body := range []string{"", "x.png", "/x.png", "red/", "purple-ish/x.png", "red/../x.png"} {
		if err := s.Handle(ctx, &mq.Delivery{Body: []byte(body)}); err != nil {
			t.Errorf("Handle(%q): expected nil, got %v", body, err)
		}
	}

	if !exists(filepath.Join(f.images, "x.png")) {
		t.Error("source must stay in place")
	}
	entries, err := os.ReadDir(f.output)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output folder should be empty, got %d entries", len(entries))
	}
}

func TestHandle_SplitsOnFirstSeparator(t *testing.T) {
	f := setup(t)
	s := newSaver(f)

	// "sub/x.png" не является одним элементом пути.
	if err := s.Handle(context.Background(), &mq.Delivery{Body: []byte("red/sub/x.png")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists(filepath.Join(f.output, "red")) {
		t.Error("color folder must not be created for malformed message")
	}
}

func TestHandle_ReplacesExisting(t *testing.T) {
	f := setup(t, "dup.png")
	if err := os.MkdirAll(filepath.Join(f.output, "red"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(f.output, "red", "dup.png"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newSaver(f)
	if err := s.Handle(context.Background(), &mq.Delivery{Body: []byte("red/dup.png")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(f.output, "red", "dup.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "dup.png" {
		t.Errorf("expected destination to be replaced, got %q", data)
	}
}
