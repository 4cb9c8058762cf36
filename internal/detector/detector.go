package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns one Observation per
	// detected hand. Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]Observation, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MirrorApplied indicates that frames are horizontally flipped
	// before detection (selfie view). When set, handedness labels from
	// the underlying model are swapped so they describe the user's
	// physical hand.
	MirrorApplied bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:      2,
		MinConfidence: 0.6,
		MirrorApplied: true,
	}
}
