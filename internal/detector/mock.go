package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns either a fixed set of hands or a per-frame sequence.
type MockDetector struct {
	hands    []Observation
	sequence [][]Observation
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []Observation) {
	m.hands = hands
	m.sequence = nil
}

// SetSequence sets per-frame detection results. Each Detect call
// consumes one entry; once the sequence is exhausted Detect returns no
// hands.
func (m *MockDetector) SetSequence(frames [][]Observation) {
	m.sequence = frames
	m.hands = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Observation, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.sequence != nil {
		if len(m.sequence) == 0 {
			return nil, nil
		}
		hands := m.sequence[0]
		m.sequence = m.sequence[1:]
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset frame dimensions used by the hand builders below.
const (
	presetFrameW = 1280
	presetFrameH = 720
)

// Joint chains per finger for a synthetic hand in normalized
// coordinates, one chain for the extended pose and one for the flexed
// pose. Geometry is chosen so FingersUp recovers the requested vector.
var extendedChains = [NumFingers][4]Point3D{
	{{X: 0.62, Y: 0.84}, {X: 0.66, Y: 0.80}, {X: 0.69, Y: 0.76}, {X: 0.73, Y: 0.72}}, // thumb CMC,MCP,IP,TIP
	{{X: 0.56, Y: 0.70}, {X: 0.565, Y: 0.58}, {X: 0.57, Y: 0.48}, {X: 0.57, Y: 0.38}},
	{{X: 0.50, Y: 0.68}, {X: 0.50, Y: 0.55}, {X: 0.50, Y: 0.44}, {X: 0.50, Y: 0.33}},
	{{X: 0.44, Y: 0.70}, {X: 0.44, Y: 0.58}, {X: 0.43, Y: 0.48}, {X: 0.43, Y: 0.38}},
	{{X: 0.38, Y: 0.72}, {X: 0.375, Y: 0.62}, {X: 0.37, Y: 0.54}, {X: 0.37, Y: 0.46}},
}

var flexedChains = [NumFingers][4]Point3D{
	{{X: 0.62, Y: 0.84}, {X: 0.64, Y: 0.80}, {X: 0.60, Y: 0.78}, {X: 0.55, Y: 0.80}},
	{{X: 0.56, Y: 0.70}, {X: 0.56, Y: 0.64}, {X: 0.55, Y: 0.70}, {X: 0.54, Y: 0.74}},
	{{X: 0.50, Y: 0.68}, {X: 0.50, Y: 0.62}, {X: 0.49, Y: 0.69}, {X: 0.48, Y: 0.73}},
	{{X: 0.44, Y: 0.70}, {X: 0.44, Y: 0.64}, {X: 0.43, Y: 0.70}, {X: 0.43, Y: 0.74}},
	{{X: 0.38, Y: 0.72}, {X: 0.38, Y: 0.66}, {X: 0.38, Y: 0.71}, {X: 0.38, Y: 0.75}},
}

// fingerBase maps each finger to the landmark index of its first joint.
var fingerBase = [NumFingers]int{ThumbCMC, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// HandWithFingers builds a synthetic Observation whose derived
// finger-extension vector equals the requested one.
func HandWithFingers(handedness Handedness, fingers [NumFingers]bool) Observation {
	var points [NumLandmarks]Point3D
	points[Wrist] = Point3D{X: 0.52, Y: 0.90}

	for f := 0; f < NumFingers; f++ {
		chain := flexedChains[f]
		if fingers[f] {
			chain = extendedChains[f]
		}
		for j, p := range chain {
			points[fingerBase[f]+j] = p
		}
	}

	return NewObservation(points, handedness, 0.95, presetFrameW, presetFrameH)
}

// ThumbUpHand returns a hand with only the thumb extended.
func ThumbUpHand(handedness Handedness) Observation {
	return HandWithFingers(handedness, [NumFingers]bool{Thumb: true})
}

// PinkyUpHand returns a hand with only the little finger extended.
func PinkyUpHand(handedness Handedness) Observation {
	return HandWithFingers(handedness, [NumFingers]bool{Pinky: true})
}

// VictoryHand returns a hand with index and middle fingers extended.
func VictoryHand(handedness Handedness) Observation {
	return HandWithFingers(handedness, [NumFingers]bool{Index: true, Middle: true})
}

// OpenPalmHand returns a hand with all five fingers extended.
func OpenPalmHand(handedness Handedness) Observation {
	return HandWithFingers(handedness, [NumFingers]bool{true, true, true, true, true})
}

// FistHand returns a hand with no fingers extended.
func FistHand(handedness Handedness) Observation {
	return HandWithFingers(handedness, [NumFingers]bool{})
}
