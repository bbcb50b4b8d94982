package narration

import (
	"strings"
	"testing"
	"time"
)

func TestEstimateSpokenMs_EmptyReturnsFloor(t *testing.T) {
	got := EstimateSpokenMs("", SpeedNormal)
	if got != DefaultTiming.Floor.Milliseconds() {
		t.Fatalf("EstimateSpokenMs(\"\") = %d, want floor %d", got, DefaultTiming.Floor.Milliseconds())
	}
	if got <= 0 {
		t.Fatalf("estimate must be positive, got %d", got)
	}
}

func TestEstimate_WordsPerMinute(t *testing.T) {
	// 800 chars = 160 words = one minute at normal speed.
	text := strings.Repeat("a", 800)
	timing := Timing{Floor: time.Second, Padding: 2 * time.Second}

	tests := []struct {
		speed Speed
		want  time.Duration
	}{
		{SpeedNormal, 62 * time.Second},
		{SpeedSlow, 80*time.Second + 2*time.Second},
		{SpeedSlower, 120*time.Second + 2*time.Second},
	}
	for _, tt := range tests {
		if got := timing.Estimate(text, tt.speed); got != tt.want {
			t.Errorf("Estimate(%s) = %v, want %v", tt.speed, got, tt.want)
		}
	}
}

func TestEstimate_RevealFloor(t *testing.T) {
	got := RevealTiming.Estimate("Short reveal.", SpeedNormal)
	if got != 10*time.Second {
		t.Fatalf("short reveal = %v, want 10s floor", got)
	}
}

func TestEstimate_SlowerIsLonger(t *testing.T) {
	text := strings.Repeat("word ", 200)
	normal := DefaultTiming.Estimate(text, SpeedNormal)
	slow := DefaultTiming.Estimate(text, SpeedSlow)
	slower := DefaultTiming.Estimate(text, SpeedSlower)
	if !(normal < slow && slow < slower) {
		t.Fatalf("expected normal < slow < slower, got %v %v %v", normal, slow, slower)
	}
}

func TestEstimate_UnknownSpeedUsesNormal(t *testing.T) {
	text := strings.Repeat("a", 1000)
	if DefaultTiming.Estimate(text, Speed("warp")) != DefaultTiming.Estimate(text, SpeedNormal) {
		t.Fatal("unknown speed should fall back to normal pace")
	}
}

func TestParseSpeed(t *testing.T) {
	for _, v := range []string{"normal", "slow", "slower"} {
		if _, err := ParseSpeed(v); err != nil {
			t.Errorf("ParseSpeed(%q): %v", v, err)
		}
	}
	if _, err := ParseSpeed("fast"); err == nil {
		t.Error("expected error for unknown speed")
	}
	if SpeedNormal.Slower() != SpeedSlow || SpeedSlow.Slower() != SpeedSlower || SpeedSlower.Slower() != SpeedSlower {
		t.Error("Slower() chain wrong")
	}
	if SpeedSlower.Faster() != SpeedSlow || SpeedSlow.Faster() != SpeedNormal || SpeedNormal.Faster() != SpeedNormal {
		t.Error("Faster() chain wrong")
	}
}
