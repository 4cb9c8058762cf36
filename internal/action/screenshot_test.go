package action

import (
	"os"
	"regexp"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestScreenshotName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	got := screenshotName(ts)
	if got != "screenshot_20240309_140507.png" {
		t.Errorf("screenshotName = %q, want screenshot_20240309_140507.png", got)
	}
}

func TestScreenshotName_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^screenshot_\d{8}_\d{6}\.png$`)
	if name := screenshotName(time.Now()); !pattern.MatchString(name) {
		t.Errorf("screenshotName %q does not match expected format", name)
	}
}

func TestScreenshotWriter_Save(t *testing.T) {
	dir := t.TempDir()
	w := NewScreenshotWriter(dir)

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	path, err := w.Save(&frame)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("screenshot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("screenshot file is empty")
	}
}

func TestScreenshotWriter_SameSecondOverwrites(t *testing.T) {
	// Two saves in the same second target the same path; last write wins.
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	if screenshotName(ts) != screenshotName(ts.Add(500*time.Millisecond)) {
		t.Error("names within the same second should collide")
	}
}
