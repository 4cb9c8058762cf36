package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

const serverAddr = ":8080"

func main() {
	fmt.Println("Mudra - Hand Gesture Control")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := st.Rules().EnsureDefaults(); err != nil {
		log.Fatalf("Failed to seed default rules: %v", err)
	}

	rules, err := st.Rules().ListGestures()
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}

	// Action sinks
	volume := action.NewSystemVolume()
	initialVolume, err := volume.Volume()
	if err != nil {
		log.Printf("Could not read system volume, assuming 50%%: %v", err)
		initialVolume = 0.5
	}

	screenshotDir, err := st.Settings().Get("screenshot_dir", dataDir)
	if err != nil {
		log.Fatalf("Failed to read settings: %v", err)
	}

	cameraIndex := 0
	if raw, err := st.Settings().Get("camera_index", "0"); err == nil {
		if idx, convErr := strconv.Atoi(raw); convErr == nil {
			cameraIndex = idx
		}
	}

	plugins := action.NewPluginRunner(filepath.Join(dataDir, "plugins"), 5*time.Second)
	if err := plugins.Discover(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	} else if names := plugins.Names(); len(names) > 0 {
		fmt.Printf("Loaded plugins: %v\n", names)
	}

	dispatcher, err := gesture.NewDispatcher(rules, gesture.Sinks{
		Volume:      volume,
		Keys:        action.NewKeyboard(),
		Screenshots: action.NewScreenshotWriter(screenshotDir),
		Plugins:     plugins,
	}, initialVolume)
	if err != nil {
		// An overlapping or invalid rule table is a configuration
		// error the user must fix before the daemon can run.
		log.Fatalf("Invalid rule table: %v", err)
	}

	// Detection pipeline
	var det detector.Detector
	det, err = detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("MediaPipe unavailable, running without detection: %v", err)
		det = detector.NewMockDetector()
	}

	sess := session.New(session.Config{
		Camera:     capture.NewCamera(cameraIndex),
		Detector:   det,
		Dispatcher: dispatcher,
	})

	srv := server.New(server.Config{
		Session: sess,
		Store:   st,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	dispatcher.OnFire = func(r gesture.Rule) {
		t.SetLastAction(r.Name)
	}
	t.OnToggle(func(enabled bool) {
		sess.SetEnabled(enabled)
	})
	t.OnOpenViewer(func() {
		if err := openBrowser("http://localhost" + serverAddr); err != nil {
			log.Printf("Failed to open viewer: %v", err)
		}
	})
	t.OnQuit(func() {
		sess.Shutdown()
	})

	// Blocks until Quit is selected from the menu.
	t.Run()
}

// openBrowser opens url in the default browser.
func openBrowser(url string) error {
	return exec.Command("open", url).Start()
}
