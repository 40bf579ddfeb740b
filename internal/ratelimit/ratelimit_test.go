package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_FirstTokenImmediate(t *testing.T) {
	l := New(60)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	l := New(60)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Drain the burst so the next Wait would have to block.
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Wait(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestNew_MinimumBurst(t *testing.T) {
	// Small rates must still admit one evaluation.
	l := New(1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
