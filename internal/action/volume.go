package action

import (
	"fmt"
	"math"
	"strconv"
)

// SystemVolume controls the system audio endpoint via AppleScript.
// Volume is exposed as a scalar in [0.0, 1.0]; the OS works in whole
// percent, so the scalar is rounded to the nearest percent on write.
type SystemVolume struct{}

// NewSystemVolume creates a volume sink for the default audio endpoint.
func NewSystemVolume() *SystemVolume {
	return &SystemVolume{}
}

// Volume returns the current output volume as a scalar in [0.0, 1.0].
func (v *SystemVolume) Volume() (float64, error) {
	out, err := runAppleScriptOutput(`output volume of (get volume settings)`)
	if err != nil {
		return 0, fmt.Errorf("query volume: %w", err)
	}
	return parseVolumeOutput(out)
}

// SetVolume sets the output volume. The scalar is clamped to [0.0, 1.0]
// before it reaches the OS.
func (v *SystemVolume) SetVolume(scalar float64) error {
	if err := runAppleScript(volumeSetScript(scalar)); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

// volumeSetScript builds the AppleScript that sets the output volume to
// the given scalar, clamped to [0.0, 1.0].
func volumeSetScript(scalar float64) string {
	scalar = math.Max(0, math.Min(1, scalar))
	return fmt.Sprintf("set volume output volume %d", int(math.Round(scalar*100)))
}

// parseVolumeOutput converts the percent reported by the OS to a scalar.
func parseVolumeOutput(out string) (float64, error) {
	percent, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", out, err)
	}
	return float64(percent) / 100, nil
}
