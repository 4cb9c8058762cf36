// Package main provides a media playback plugin for macOS.
// It drives the media keys via AppleScript key codes.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request represents the input from the plugin runner.
type Request struct {
	Action string `json:"action"`
	Rule   string `json:"rule"`
}

// Response represents the output to the plugin runner.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// mediaKeyCodes maps action names to macOS media key codes.
var mediaKeyCodes = map[string]int{
	"play-pause": 100,
	"next":       101,
	"prev":       98,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	code, ok := mediaKeyCodes[req.Action]
	if !ok {
		writeResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err := pressMediaKey(code); err != nil {
		writeResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeResponse("")
}

// writeResponse writes the result to stdout; an empty message means
// success.
func writeResponse(errMsg string) {
	resp := Response{
		Success: errMsg == "",
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// pressMediaKey sends a media key press via AppleScript.
func pressMediaKey(code int) error {
	script := fmt.Sprintf(`tell application "System Events"
	key code %d
end tell`, code)

	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
