package session

import (
	"image"
	"time"

	"gocv.io/x/gocv"
)

// Motion gate constants.
const (
	// blurKernel is the Gaussian blur kernel size used to knock down
	// sensor noise before differencing.
	blurKernel = 21
	// diffThreshold is the per-pixel binary threshold on the absolute
	// frame difference.
	diffThreshold = 25
)

// motionGate decides whether hand detection is worth running: after
// idleAfter without frame-to-frame change, detection is skipped until
// something moves again. Streaming itself is never gated.
type motionGate struct {
	threshold  float64 // fraction of pixels that must change
	idleAfter  time.Duration
	prev       gocv.Mat
	primed     bool
	lastMotion time.Time
}

// newMotionGate creates a gate that starts active, so detection runs
// until the first idle period.
func newMotionGate(threshold float64, idleAfter time.Duration) *motionGate {
	return &motionGate{
		threshold:  threshold,
		idleAfter:  idleAfter,
		prev:       gocv.NewMat(),
		lastMotion: time.Now(),
	}
}

// observe folds the current frame into the gate and reports whether
// detection should run for it.
func (g *motionGate) observe(frame *gocv.Mat, now time.Time) bool {
	if g.changed(frame) {
		g.lastMotion = now
	}
	return now.Sub(g.lastMotion) < g.idleAfter
}

// changed computes the fraction of pixels that differ from the previous
// frame and compares it against the threshold. The first frame primes
// the baseline and reports no change.
func (g *motionGate) changed(frame *gocv.Mat) bool {
	if frame == nil || frame.Empty() {
		return false
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.prev)
		g.primed = true
		return false
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prev, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	blurred.CopyTo(&g.prev)

	total := thresh.Rows() * thresh.Cols()
	if total == 0 {
		return false
	}
	fraction := float64(gocv.CountNonZero(thresh)) / float64(total)

	return fraction > g.threshold
}

// close releases the baseline frame.
func (g *motionGate) close() {
	if !g.prev.Empty() {
		g.prev.Close()
	}
	g.primed = false
}
