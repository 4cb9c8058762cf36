package action

import (
	"fmt"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// ScreenshotWriter persists frames as timestamped PNG files.
type ScreenshotWriter struct {
	dir string
}

// NewScreenshotWriter creates a screenshot sink writing into dir.
// An empty dir means the current working directory.
func NewScreenshotWriter(dir string) *ScreenshotWriter {
	return &ScreenshotWriter{dir: dir}
}

// Save writes the frame to a screenshot_<YYYYMMDD_HHMMSS>.png file named
// after the wall-clock time of the call and returns the file path.
// Two saves within the same second target the same file; the last write
// wins.
func (w *ScreenshotWriter) Save(frame *gocv.Mat) (string, error) {
	path := filepath.Join(w.dir, screenshotName(time.Now()))

	if ok := gocv.IMWrite(path, *frame); !ok {
		return "", fmt.Errorf("write screenshot %s", path)
	}
	return path, nil
}

// screenshotName formats the screenshot filename for the given time.
func screenshotName(t time.Time) string {
	return "screenshot_" + t.Format("20060102_150405") + ".png"
}
