package server

import (
	"fmt"
	"log"
	"net/http"
	"time"
)

// FrameSource produces annotated JPEG frames for streaming. Start is
// called once per connection and Close when the viewer goes away.
type FrameSource interface {
	Start() error
	NextFrame() ([]byte, error)
	Close()
}

// StreamHandler serves the annotated camera feed as an MJPEG stream.
type StreamHandler struct {
	source FrameSource

	// interval paces the frame loop; defaults to ~15 FPS.
	interval time.Duration
}

// NewStreamHandler creates a StreamHandler pulling from source.
func NewStreamHandler(source FrameSource) *StreamHandler {
	return &StreamHandler{
		source:   source,
		interval: 66 * time.Millisecond, // ~15 FPS
	}
}

// ServeHTTP streams multipart JPEG frames until the client disconnects
// or the source fails.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.source.Start(); err != nil {
		log.Printf("Error starting stream source: %v", err)
		http.Error(w, "Camera unavailable", http.StatusServiceUnavailable)
		return
	}
	defer h.source.Close()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		jpeg, err := h.source.NextFrame()
		if err != nil {
			// Camera read failures end the session for this viewer.
			log.Printf("Stream ended: %v", err)
			return
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		if h.interval > 0 {
			time.Sleep(h.interval)
		}
	}
}
