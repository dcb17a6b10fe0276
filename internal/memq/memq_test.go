package memq

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/shaiso/colorsort/internal/mq"
)

func TestBroker_FIFO(t *testing.T) {
	b := New()
	ctx := context.Background()

	for _, body := range []string{"a", "b", "c"} {
		if err := b.Publish(ctx, "q", []byte(body)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := b.Publish(ctx, "other", []byte("x")); err != nil {
		t.Fatal(err)
	}

	var got []string
	n, err := b.Drain(ctx, "q", func(_ context.Context, msg *mq.Delivery) error {
		got = append(got, string(msg.Body))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 || !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("expected [a b c], got %v (n=%d)", got, n)
	}
	if b.Len("q") != 0 || b.Len("other") != 1 {
		t.Errorf("unexpected lengths q=%d other=%d", b.Len("q"), b.Len("other"))
	}
}

func TestBroker_PublishCopiesBody(t *testing.T) {
	b := New()
	body := []byte("red/x.png")
	if err := b.Publish(context.Background(), "q", body); err != nil {
		t.Fatal(err)
	}
	body[0] = 'R'

	_, err := b.Drain(context.Background(), "q", func(_ context.Context, msg *mq.Delivery) error {
		if string(msg.Body) != "red/x.png" {
			t.Errorf("body was not copied: %q", msg.Body)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBroker_DrainStopsOnError(t *testing.T) {
	b := New()
	ctx := context.Background()
	for _, body := range []string{"a", "b"} {
		if err := b.Publish(ctx, "q", []byte(body)); err != nil {
			t.Fatal(err)
		}
	}

	boom := errors.New("boom")
	n, err := b.Drain(ctx, "q", func(context.Context, *mq.Delivery) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n != 0 || b.Len("q") != 1 {
		t.Errorf("expected 0 handled and 1 left, got %d and %d", n, b.Len("q"))
	}
}

func TestBroker_Cancelled(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Publish(ctx, "q", []byte("a")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := b.Drain(ctx, "q", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
