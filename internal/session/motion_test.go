package session

import (
	"image"
	"image/color"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func grayFrame(t *testing.T, value uint8) gocv.Mat {
	t.Helper()

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(value), float64(value), float64(value), 0),
		120, 160, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })
	return frame
}

func TestMotionGate_StartsActive(t *testing.T) {
	g := newMotionGate(DefaultMotionThreshold, DefaultIdleTimeout)
	defer g.close()

	frame := grayFrame(t, 0)
	if !g.observe(&frame, time.Now()) {
		t.Error("gate should be active before the first idle period")
	}
}

func TestMotionGate_IdlesWithoutChange(t *testing.T) {
	g := newMotionGate(DefaultMotionThreshold, time.Second)
	defer g.close()

	now := time.Now()
	frame := grayFrame(t, 40)

	g.observe(&frame, now)                 // primes the baseline
	g.observe(&frame, now.Add(time.Second/2))

	if g.observe(&frame, now.Add(2*time.Second)) {
		t.Error("gate still active after idle timeout with a static scene")
	}
}

func TestMotionGate_ReactivatesOnChange(t *testing.T) {
	g := newMotionGate(DefaultMotionThreshold, time.Second)
	defer g.close()

	now := time.Now()
	static := grayFrame(t, 40)
	moved := grayFrame(t, 200)

	g.observe(&static, now)
	if g.observe(&static, now.Add(2*time.Second)) {
		t.Fatal("gate should have gone idle")
	}

	if !g.observe(&moved, now.Add(3*time.Second)) {
		t.Error("gate should reactivate when the scene changes")
	}
}

func TestMotionGate_SmallChangeBelowThreshold(t *testing.T) {
	// Half the gate's pixels must change before it counts as motion.
	g := newMotionGate(0.5, time.Second)
	defer g.close()

	now := time.Now()
	static := grayFrame(t, 40)

	g.observe(&static, now)

	// Flip a single pixel well past the per-pixel threshold; the
	// changed fraction is still tiny.
	dotted := grayFrame(t, 40)
	gocv.Rectangle(&dotted, image.Rect(0, 0, 4, 4), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	if g.observe(&dotted, now.Add(2*time.Second)) {
		t.Error("sub-threshold change should not reactivate the gate")
	}
}

func TestMotionGate_EmptyFrame(t *testing.T) {
	g := newMotionGate(DefaultMotionThreshold, time.Second)
	defer g.close()

	empty := gocv.NewMat()
	defer empty.Close()

	if g.changed(&empty) {
		t.Error("empty frame must not register as motion")
	}
	if g.changed(nil) {
		t.Error("nil frame must not register as motion")
	}
}
