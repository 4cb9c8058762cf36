// Package detector provides hand detection interfaces and types for the
// Mudra gesture controller.
package detector

import (
	"image"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger indices into a finger-extension vector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// Handedness classifies a detected hand.
type Handedness string

const (
	HandLeft  Handedness = "Left"
	HandRight Handedness = "Right"
)

// Point3D represents a landmark position in normalized image coordinates.
// X and Y are in [0,1] relative to the frame; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

/// Observation is one detected hand in one frame: the 21 MediaPipe
// landmarks plus everything the dispatch layer derives from them.
// Observations are constructed fresh per frame and not retained.
type Observation struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
	Fingers    [NumFingers]bool      `json:"fingers"`
	Box        image.Rectangle       `json:"box"`
}

// NewObservation builds an Observation from raw landmarks, deriving the
// finger-extension vector and the pixel-space bounding box for a frame
// of the given dimensions.
func NewObservation(points [NumLandmarks]Point3D, handedness Handedness, score float64, frameW, frameH int) Observation {
	return Observation{
		Points:     points,
		Handedness: handedness,
		Score:      score,
		Fingers:    FingersUp(points),
		Box:        BoundingBox(points, frameW, frameH),
	}
}

// FingersUp derives the 5-element finger-extension vector from landmarks.
// A non-thumb finger counts as extended when its tip is above its PIP
// joint (image Y grows downward). The thumb counts as extended when its
// tip is farther from the pinky MCP than its IP joint is, which holds
// for either hand and either mirror orientation.
func FingersUp(points [NumLandmarks]Point3D) [NumFingers]bool {
	var fingers [NumFingers]bool

	anchor := points[PinkyMCP]
	fingers[Thumb] = distance2D(points[ThumbTip], anchor) > distance2D(points[ThumbIP], anchor)

	fingers[Index] = points[IndexTip].Y < points[IndexPIP].Y
	fingers[Middle] = points[MiddleTip].Y < points[MiddlePIP].Y
	fingers[Ring] = points[RingTip].Y < points[RingPIP].Y
	fingers[Pinky] = points[PinkyTip].Y < points[PinkyPIP].Y

	return fingers
}

// BoundingBox computes the pixel-space bounding box of the landmarks for
// a frame of the given dimensions, padded by a small margin and clipped
// to the frame.
func BoundingBox(points [NumLandmarks]Point3D, frameW, frameH int) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	const margin = 20
	box := image.Rect(
		int(minX*float64(frameW))-margin,
		int(minY*float64(frameH))-margin,
		int(maxX*float64(frameW))+margin,
		int(maxY*float64(frameH))+margin,
	)

	return box.Intersect(image.Rect(0, 0, frameW, frameH))
}

// distance2D calculates the Euclidean distance between two points in the
// image plane, ignoring depth.
func distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
