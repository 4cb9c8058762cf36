// Package session drives the capture, detect, dispatch, annotate,
// encode cycle for one streaming session.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

// Defaults for the motion gate.
const (
	DefaultMotionThreshold = 0.01 // 1% of pixels
	DefaultIdleTimeout     = 2 * time.Second
)

// Config holds the session's collaborators and tuning knobs.
type Config struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Dispatcher *gesture.Dispatcher

	// MotionThreshold is the fraction of changed pixels that counts as
	// motion; zero selects DefaultMotionThreshold.
	MotionThreshold float64

	// IdleTimeout is how long without motion before detection is
	// skipped; zero selects DefaultIdleTimeout.
	IdleTimeout time.Duration
}

// Session is one camera-open-to-release lifetime producing annotated
// JPEG frames. The cycle is strictly sequential: no parallel frame
// processing. NextFrame is the explicit producer boundary the stream
// transport pulls from.
type Session struct {
	camera     capture.Camera
	detector   detector.Detector
	dispatcher *gesture.Dispatcher
	gate       *motionGate

	mu      sync.Mutex
	open    bool
	enabled bool

	handsMu   sync.RWMutex
	lastHands []detector.Observation
}

// New creates a Session from the given configuration.
func New(cfg Config) *Session {
	threshold := cfg.MotionThreshold
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}

	return &Session{
		camera:     cfg.Camera,
		detector:   cfg.Detector,
		dispatcher: cfg.Dispatcher,
		gate:       newMotionGate(threshold, idle),
		enabled:    true,
	}
}

// Start acquires the camera. Starting an already-open session is a
// no-op, so a reconnecting viewer does not reset anything.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}
	if err := s.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	s.open = true
	return nil
}

// Close releases the camera. The device is released exactly once per
// Start regardless of how many times Close is called.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return
	}
	s.open = false
	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
}

// Shutdown releases every session resource for process exit.
func (s *Session) Shutdown() {
	s.Close()
	s.gate.close()
	if s.detector != nil {
		if err := s.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// SetEnabled toggles gesture dispatch. Streaming continues either way.
func (s *Session) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// IsEnabled reports whether gesture dispatch is active.
func (s *Session) IsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Observations returns the hands detected in the most recent frame.
func (s *Session) Observations() []detector.Observation {
	s.handsMu.RLock()
	defer s.handsMu.RUnlock()

	out := make([]detector.Observation, len(s.lastHands))
	copy(out, s.lastHands)
	return out
}

func (s *Session) setObservations(hands []detector.Observation) {
	s.handsMu.Lock()
	s.lastHands = hands
	s.handsMu.Unlock()
}

// NextFrame runs one full pipeline cycle and returns the annotated
// frame as JPEG bytes.
//
// A camera read failure is fatal to the session: the error propagates
// and the caller is expected to Close. A detector failure only skips
// annotation for this frame; the unannotated frame is still streamed.
func (s *Session) NextFrame() ([]byte, error) {
	raw, err := s.camera.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}

	// Selfie-view mirror so displayed motion matches physical motion.
	frame := capture.Mirror(raw)
	raw.Close()
	defer frame.Close()

	now := time.Now()

	var hands []detector.Observation
	if s.detector != nil && s.gate.observe(&frame, now) {
		hands, err = s.detector.Detect(&frame)
		if err != nil {
			log.Printf("Hand detection failed: %v", err)
			hands = nil
		}
	}

	s.setObservations(hands)

	dispatch := s.IsEnabled() && s.dispatcher != nil
	for _, obs := range hands {
		overlay.DrawHand(&frame, obs)
		if !dispatch {
			continue
		}
		if res := s.dispatcher.Dispatch(&frame, obs, now); res.Annotation != nil {
			overlay.DrawAnnotation(&frame, *res.Annotation)
		}
	}

	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}
