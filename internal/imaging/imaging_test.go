package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeFile(t *testing.T, path string, encode func(f *os.File) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// --- AverageColor ---

func TestAverageColor_Uniform(t *testing.T) {
	black := NewBuffer(2, 1)
	avg, err := AverageColor(black)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg[0] != 0 || avg[1] != 0 || avg[2] != 0 {
		t.Errorf("expected (0,0,0), got %v", avg)
	}

	white := NewBuffer(2, 1)
	white.Set(0, 0, 255, 255, 255)
	white.Set(1, 0, 255, 255, 255)
	avg, err = AverageColor(white)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg[0] != 255 || avg[1] != 255 || avg[2] != 255 {
		t.Errorf("expected (255,255,255), got %v", avg)
	}
}

func TestAverageColor_Mixed2x2(t *testing.T) {
	buf := NewBuffer(2, 2)
	buf.Set(0, 0, 100, 0, 0)
	buf.Set(1, 0, 0, 100, 0)
	buf.Set(0, 1, 100, 0, 0)
	buf.Set(1, 1, 0, 100, 0)

	avg, err := AverageColor(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(avg) != 3 {
		t.Fatalf("expected 3 components, got %d", len(avg))
	}
	if avg[0] != 50 || avg[1] != 50 || avg[2] != 0 {
		t.Errorf("expected (50,50,0), got %v", avg)
	}
}

func TestAverageColor_InvalidShape(t *testing.T) {
	tests := []struct {
		name string
		buf  *Buffer
	}{
		{"nil", nil},
		{"one channel", &Buffer{Width: 1, Height: 3, Channels: 1, Pix: []uint8{0, 0, 0}}},
		{"four channels", &Buffer{Width: 1, Height: 1, Channels: 4, Pix: []uint8{0, 0, 0, 255}}},
		{"empty", &Buffer{Width: 0, Height: 0, Channels: 3}},
		{"short pix", &Buffer{Width: 2, Height: 2, Channels: 3, Pix: make([]uint8, 9)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AverageColor(tt.buf); !errors.Is(err, ErrInvalidShape) {
				t.Errorf("expected ErrInvalidShape, got %v", err)
			}
		})
	}
}

// --- Load / FromImage ---

func TestLoad_PNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "white_pixel.png")
	writeFile(t, path, func(f *os.File) error {
		return png.Encode(f, solidImage(1, 1, color.White))
	})

	buf, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Width != 1 || buf.Height != 1 || buf.Channels != 3 {
		t.Fatalf("unexpected shape %dx%dx%d", buf.Height, buf.Width, buf.Channels)
	}
	if buf.Pix[0] != 255 || buf.Pix[1] != 255 || buf.Pix[2] != 255 {
		t.Errorf("expected white pixel, got %v", buf.Pix)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected underlying fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
}

func TestFromImage_OffsetBoundsAndAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	sub := img.SubImage(image.Rect(2, 3, 3, 4))
	buf := FromImage(sub)

	if buf.Width != 1 || buf.Height != 1 {
		t.Fatalf("expected 1x1 buffer, got %dx%d", buf.Width, buf.Height)
	}
	if buf.Pix[0] != 10 || buf.Pix[1] != 20 || buf.Pix[2] != 30 {
		t.Errorf("expected (10,20,30), got %v", buf.Pix)
	}
}

// --- Sniff / Formats ---

func TestSniff_DetectsByContent(t *testing.T) {
	dir := t.TempDir()
	img := solidImage(2, 2, color.RGBA{R: 200, A: 255})

	files := map[string]func(f *os.File) error{
		"a.png":  func(f *os.File) error { return png.Encode(f, img) },
		"b.gif":  func(f *os.File) error { return gif.Encode(f, img, nil) },
		"c.jpeg": func(f *os.File) error { return jpeg.Encode(f, img, nil) },
		"d.bmp":  func(f *os.File) error { return bmp.Encode(f, img) },
		"e.tiff": func(f *os.File) error { return tiff.Encode(f, img, nil) },
		// Расширение врёт: внутри png.
		"f.jpg": func(f *os.File) error { return png.Encode(f, img) },
	}
	want := map[string]string{
		"a.png":  "png",
		"b.gif":  "gif",
		"c.jpeg": "jpeg",
		"d.bmp":  "bmp",
		"e.tiff": "tiff",
		"f.jpg":  "png",
	}

	for name, encode := range files {
		writeFile(t, filepath.Join(dir, name), encode)
	}

	for name, format := range want {
		got, err := Sniff(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != format {
			t.Errorf("%s: expected %s, got %s", name, format, got)
		}
	}
}

func TestSniff_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readme.png")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Sniff(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	ok, format := IsImage(path, NewFormats(DefaultFormats...))
	if ok || format != "" {
		t.Errorf("expected not an image, got ok=%v format=%q", ok, format)
	}
}

func TestIsImage_RespectsAllowedSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.gif")
	writeFile(t, path, func(f *os.File) error {
		return gif.Encode(f, solidImage(1, 1, color.Black), nil)
	})

	if ok, _ := IsImage(path, ParseFormats("png,jpeg")); ok {
		t.Error("gif should not be allowed")
	}
	if ok, format := IsImage(path, ParseFormats("png,gif")); !ok || format != "gif" {
		t.Errorf("expected gif allowed, got ok=%v format=%q", ok, format)
	}
}

func TestParseFormats(t *testing.T) {
	f := ParseFormats(" PNG, jpg,,tif ")

	for _, name := range []string{"png", "jpeg", "tiff"} {
		if !f.Has(name) {
			t.Errorf("expected %s in set", name)
		}
	}
	if len(f) != 3 {
		t.Errorf("expected 3 formats, got %d: %v", len(f), f.List())
	}
	if f.String() != "jpeg,png,tiff" {
		t.Errorf("unexpected String(): %s", f.String())
	}
}
