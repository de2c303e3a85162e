package swap

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestFixedDelay(t *testing.T) {
	start := time.Now()
	if err := FixedDelay(20 * time.Millisecond).Wait(context.Background()); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("waited %v, want at least 20ms", elapsed)
	}
}

func TestFixedDelayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := FixedDelay(time.Hour).Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewWaitPolicy(t *testing.T) {
	tests := []struct {
		name     string
		pacing   string
		interval time.Duration
		want     string
	}{
		{"fixed by default", "", time.Second, "swap.FixedDelay"},
		{"fixed", PacingFixed, time.Second, "swap.FixedDelay"},
		{"rate", PacingRate, time.Second, "*swap.RateLimitWait"},
		{"no interval", PacingFixed, 0, "swap.NoWait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fmt.Sprintf("%T", NewWaitPolicy(tt.pacing, tt.interval))
			if got != tt.want {
				t.Errorf("NewWaitPolicy(%q, %v) is %s, want %s", tt.pacing, tt.interval, got, tt.want)
			}
		})
	}

	if d, ok := NewWaitPolicy(PacingFixed, 2*time.Second).(FixedDelay); !ok || time.Duration(d) != 2*time.Second {
		t.Errorf("fixed policy = %v", d)
	}
}

func TestNewRateLimitWait(t *testing.T) {
	if _, ok := NewRateLimitWait(0).(NoWait); !ok {
		t.Error("zero interval should yield NoWait")
	}

	w := NewRateLimitWait(30 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := w.Wait(ctx); err != nil {
			t.Fatalf("Wait() failed: %v", err)
		}
	}
	// first call passes on the initial token, the next two wait one interval each
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("three waits took %v, want about 60ms", elapsed)
	}
}
