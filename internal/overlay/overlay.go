// Package overlay draws annotations onto video frames: hand skeletons,
// bounding boxes, handedness labels and dispatch feedback text.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

var (
	magenta = color.RGBA{R: 255, B: 255, A: 255}
	white   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	bone    = color.RGBA{G: 200, B: 80, A: 255}
	joint   = color.RGBA{R: 80, G: 80, B: 255, A: 255}
)

// skeleton lists the landmark index pairs connected by a bone.
var skeleton = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// DrawHand draws the skeleton, bounding box and "<Handedness> Hand"
// label for one observation.
func DrawHand(frame *gocv.Mat, obs detector.Observation) {
	w, h := frame.Cols(), frame.Rows()

	for _, b := range skeleton {
		gocv.Line(frame, landmarkPoint(obs.Points[b[0]], w, h), landmarkPoint(obs.Points[b[1]], w, h), bone, 2)
	}
	for _, p := range obs.Points {
		gocv.Circle(frame, landmarkPoint(p, w, h), 4, joint, -1)
	}

	gocv.Rectangle(frame, obs.Box, magenta, 2)

	labelRect(frame, string(obs.Handedness)+" Hand",
		image.Pt(obs.Box.Min.X, obs.Box.Min.Y-20), magenta)
}

// DrawAnnotation renders a dispatch annotation directive on the frame.
func DrawAnnotation(frame *gocv.Mat, a gesture.Annotation) {
	labelRect(frame, a.Text, a.Org, a.Color)
}

// labelRect draws text over a filled background rectangle so it stays
// readable on any frame content.
func labelRect(frame *gocv.Mat, text string, org image.Point, bg color.RGBA) {
	const (
		font      = gocv.FontHersheySimplex
		scale     = 0.8
		thickness = 2
		pad       = 6
	)

	size := gocv.GetTextSize(text, font, scale, thickness)

	if org.Y < size.Y+pad {
		org.Y = size.Y + pad
	}
	if org.X < 0 {
		org.X = 0
	}

	box := image.Rect(org.X-pad, org.Y-size.Y-pad, org.X+size.X+pad, org.Y+pad)
	gocv.Rectangle(frame, box, bg, -1)
	gocv.PutText(frame, text, org, font, scale, white, thickness)
}

// landmarkPoint converts a normalized landmark to frame pixels.
func landmarkPoint(p detector.Point3D, w, h int) image.Point {
	return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
}
