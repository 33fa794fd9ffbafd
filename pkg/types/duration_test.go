package types

import (
	"testing"
	"time"
)

func TestSecondsToDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Duration
	}{
		{seconds: 0, want: 0},
		{seconds: 0.1, want: 100 * time.Millisecond},
		{seconds: 1.5, want: 1500 * time.Millisecond},
		{seconds: 1.0 / 60.0, want: 16666667},
		{seconds: 1.0 / 144.0, want: 6944444},
	}

	for _, tt := range tests {
		if got := SecondsToDuration(tt.seconds); got != tt.want {
			t.Errorf("SecondsToDuration(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

// TestDeadlineReached 逐帧累加的舍入误差不会让期限晚一帧
func TestDeadlineReached(t *testing.T) {
	tests := []struct {
		name      string
		dt        float64
		deadline  time.Duration
		wantTicks int
	}{
		{name: "60Hz one second", dt: 1.0 / 60.0, deadline: time.Second, wantTicks: 60},
		{name: "144Hz one second", dt: 1.0 / 144.0, deadline: time.Second, wantTicks: 144},
		{name: "144Hz one minute", dt: 1.0 / 144.0, deadline: time.Minute, wantTicks: 8640},
		{name: "tenths", dt: 0.1, deadline: 2 * time.Second, wantTicks: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := SecondsToDuration(tt.dt)
			var elapsed time.Duration
			ticks := 0
			for !DeadlineReached(elapsed, tt.deadline) {
				elapsed += step
				ticks++
			}
			if ticks != tt.wantTicks {
				t.Errorf("Expected deadline after %d ticks, got %d", tt.wantTicks, ticks)
			}
		})
	}
}
