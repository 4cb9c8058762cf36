package action

import (
	"fmt"
	"strings"
)

// Keyboard injects single keystrokes via AppleScript.
type Keyboard struct{}

// NewKeyboard creates a key-injection sink.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// keyCodes maps named keys to macOS virtual key codes. Keys not listed
// here are sent as a literal keystroke of their first character.
var keyCodes = map[string]int{
	"space":  49,
	"return": 36,
	"enter":  36,
	"tab":    48,
	"escape": 53,
	"left":   123,
	"right":  124,
	"down":   125,
	"up":     126,
}

// Press emits one key press. Fire and forget: the key is not held.
func (k *Keyboard) Press(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	return runAppleScript(keyPressScript(key))
}

// keyPressScript builds the AppleScript for a single key press, using a
// key code for named keys and a keystroke for plain characters.
func keyPressScript(key string) string {
	if code, ok := keyCodes[strings.ToLower(key)]; ok {
		return fmt.Sprintf(`tell application "System Events" to key code %d`, code)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
}
