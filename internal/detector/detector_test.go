package detector

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/shaiso/colorsort/internal/imaging"
	"github.com/shaiso/colorsort/internal/mq"
)

type fakePublisher struct {
	queues []string
	bodies []string
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, queue string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.queues = append(p.queues, queue)
	p.bodies = append(p.bodies, string(body))
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// pixelFolder создаёт папку с black_pixel.png и white_pixel.png.
func pixelFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "black_pixel.png"), 1, 1, color.Black)
	writePNG(t, filepath.Join(dir, "white_pixel.png"), 1, 1, color.White)
	return dir
}

func newDetector(dir string, pub Publisher) *Detector {
	return New(Config{
		ImageFolder:   dir,
		RequestQueue:  "fake_request_queue",
		ResponseQueue: "fake_response_queue",
		Publisher:     pub,
		Logger:        discardLogger(),
	})
}

func TestHandle_PublishesColorResponses(t *testing.T) {
	pub := &fakePublisher{}
	d := newDetector(pixelFolder(t), pub)

	for _, name := range []string{"black_pixel.png", "white_pixel.png"} {
		if err := d.Handle(context.Background(), &mq.Delivery{Body: []byte(name)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []string{"black/black_pixel.png", "white/white_pixel.png"}
	if !slices.Equal(pub.bodies, want) {
		t.Errorf("expected %v, got %v", want, pub.bodies)
	}
	for _, q := range pub.queues {
		if q != "fake_response_queue" {
			t.Errorf("unexpected queue %s", q)
		}
	}
}

func TestHandle_LoadFailureIsNotFatal(t *testing.T) {
	dir := pixelFolder(t)
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	pub := &fakePublisher{}
	d := newDetector(dir, pub)
	ctx := context.Background()

	for _, body := range []string{"missing.png", "broken.png", "", "../escape.png"} {
		if err := d.Handle(ctx, &mq.Delivery{Body: []byte(body)}); err != nil {
			t.Errorf("Handle(%q): per-message failure must not return error, got %v", body, err)
		}
	}
	if len(pub.bodies) != 0 {
		t.Errorf("nothing should be published, got %v", pub.bodies)
	}

	// Следующее сообщение обрабатывается как обычно.
	if err := d.Handle(ctx, &mq.Delivery{Body: []byte("white_pixel.png")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(pub.bodies, []string{"white/white_pixel.png"}) {
		t.Errorf("unexpected publishes %v", pub.bodies)
	}
}

func TestHandle_PublishError(t *testing.T) {
	boom := errors.New("channel closed")
	d := newDetector(pixelFolder(t), &fakePublisher{err: boom})

	err := d.Handle(context.Background(), &mq.Delivery{Body: []byte("black_pixel.png")})
	if !errors.Is(err, boom) {
		t.Errorf("expected publish error, got %v", err)
	}
}

func TestGuessImageColor(t *testing.T) {
	dir := pixelFolder(t)
	writePNG(t, filepath.Join(dir, "fire.png"), 4, 3, color.RGBA{R: 230, G: 20, B: 10, A: 255})
	writePNG(t, filepath.Join(dir, "water.png"), 3, 3, color.RGBA{R: 10, G: 20, B: 240, A: 255})

	tests := map[string]string{
		"black_pixel.png": "black",
		"white_pixel.png": "white",
		"fire.png":        "red",
		"water.png":       "blue",
	}

	for name, want := range tests {
		got, err := GuessImageColor(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got.Name != want {
			t.Errorf("%s: expected %s, got %s", name, want, got.Name)
		}
	}
}

func TestClassify_Result(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navyish.png")
	writePNG(t, path, 2, 2, color.RGBA{R: 0, G: 0, B: 125, A: 255})

	result, err := Classify(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Color.Name != "navy" {
		t.Errorf("expected navy, got %s", result.Color.Name)
	}
	if result.Average != [3]float64{0, 0, 125} {
		t.Errorf("unexpected average %v", result.Average)
	}
	if result.Distance != 3 {
		t.Errorf("expected distance 3, got %v", result.Distance)
	}
}

func TestClassify_Errors(t *testing.T) {
	if _, err := Classify(filepath.Join(t.TempDir(), "nope.png")); !errors.Is(err, imaging.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}

	bad := &imaging.Buffer{Width: 1, Height: 1, Channels: 4, Pix: []uint8{1, 2, 3, 4}}
	if _, err := ClassifyBuffer(bad); !errors.Is(err, imaging.ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}
