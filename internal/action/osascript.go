// Package action provides the side-effect sinks fired by gesture
// dispatch: system volume, key injection, screenshots and subprocess
// action plugins.
package action

import (
	"fmt"
	"os/exec"
	"strings"
)

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// runAppleScriptOutput executes an AppleScript command and returns its
// trimmed stdout.
func runAppleScriptOutput(script string) (string, error) {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}
