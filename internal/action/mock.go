package action

import (
	"gocv.io/x/gocv"
)

// Recorder implements every sink interface the dispatcher consumes and
// records each call, so tests can assert exactly which side effects
// fired.
type Recorder struct {
	InitialVolume float64
	SetVolumes    []float64
	PressedKeys   []string
	Screenshots   int
	PluginCalls   []string

	VolumeErr     error
	SetVolumeErr  error
	PressErr      error
	ScreenshotErr error
	PluginErr     error
}

// NewRecorder creates a Recorder seeded with the given volume scalar.
func NewRecorder(initialVolume float64) *Recorder {
	return &Recorder{InitialVolume: initialVolume}
}

func (r *Recorder) Volume() (float64, error) {
	if r.VolumeErr != nil {
		return 0, r.VolumeErr
	}
	return r.InitialVolume, nil
}

func (r *Recorder) SetVolume(scalar float64) error {
	if r.SetVolumeErr != nil {
		return r.SetVolumeErr
	}
	r.SetVolumes = append(r.SetVolumes, scalar)
	return nil
}

func (r *Recorder) Press(key string) error {
	if r.PressErr != nil {
		return r.PressErr
	}
	r.PressedKeys = append(r.PressedKeys, key)
	return nil
}

func (r *Recorder) Save(frame *gocv.Mat) (string, error) {
	if r.ScreenshotErr != nil {
		return "", r.ScreenshotErr
	}
	r.Screenshots++
	return "screenshot_19700101_000000.png", nil
}

func (r *Recorder) Run(name, pluginAction, rule string) error {
	if r.PluginErr != nil {
		return r.PluginErr
	}
	r.PluginCalls = append(r.PluginCalls, name+"/"+pluginAction)
	return nil
}
