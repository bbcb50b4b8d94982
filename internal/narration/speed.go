package narration

import "fmt"

// Speed is the learner-selected playback speed.
type Speed string

const (
	SpeedNormal Speed = "normal"
	SpeedSlow   Speed = "slow"
	SpeedSlower Speed = "slower"
)

// WordsPerMinute is the speaking pace the timing model assumes for s.
func (s Speed) WordsPerMinute() float64 {
	switch s {
	case SpeedSlow:
		return 120
	case SpeedSlower:
		return 80
	default:
		return 160
	}
}

// Rate is the playback rate multiplier handed to the synthesizer.
func (s Speed) Rate() float64 {
	switch s {
	case SpeedSlow:
		return 0.75
	case SpeedSlower:
		return 0.5
	default:
		return 1.0
	}
}

// Slower returns the next slower speed, saturating at SpeedSlower.
func (s Speed) Slower() Speed {
	switch s {
	case SpeedNormal:
		return SpeedSlow
	default:
		return SpeedSlower
	}
}

// Faster returns the next faster speed, saturating at SpeedNormal.
func (s Speed) Faster() Speed {
	switch s {
	case SpeedSlower:
		return SpeedSlow
	default:
		return SpeedNormal
	}
}

// ParseSpeed validates a speed name.
func ParseSpeed(v string) (Speed, error) {
	switch Speed(v) {
	case SpeedNormal, SpeedSlow, SpeedSlower:
		return Speed(v), nil
	}
	return "", fmt.Errorf("unknown speed %q (want normal, slow or slower)", v)
}
