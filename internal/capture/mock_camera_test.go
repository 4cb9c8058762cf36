package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func testFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()

	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
		frames[i] = &mat
		t.Cleanup(func() { mat.Close() })
	}
	return frames
}

func TestMockCamera_Playback(t *testing.T) {
	cam := NewMockCamera(testFrames(t, 2), false)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: ReadFrame() error = %v", i, err)
		}
		frame.Close()
	}

	// Non-looping playback runs out after the last frame.
	if _, err := cam.ReadFrame(); err == nil {
		t.Error("expected error after last frame")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	cam := NewMockCamera(testFrames(t, 1), true)
	cam.Open()

	for i := 0; i < 3; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("read %d: error = %v", i, err)
		}
		frame.Close()
	}
}

func TestMockCamera_CloseCount(t *testing.T) {
	cam := NewMockCamera(testFrames(t, 1), true)
	cam.Open()

	cam.Close()
	cam.Close()

	if got := cam.CloseCount(); got != 1 {
		t.Errorf("CloseCount() = %d, want 1", got)
	}
}
