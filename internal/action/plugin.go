package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// ErrPluginNotFound is returned when a rule names a plugin that was not
// discovered.
var ErrPluginNotFound = errors.New("plugin not found")

// Manifest describes an action plugin's metadata.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// pluginRequest is sent to a plugin on stdin when a bound gesture fires.
type pluginRequest struct {
	Action string `json:"action"`
	Rule   string `json:"rule"`
}

// pluginResponse is read from a plugin's stdout.
type pluginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// plugin is a discovered plugin with its resolved executable path.
type plugin struct {
	manifest   Manifest
	dir        string
	executable string
}

// PluginRunner discovers action plugins under a directory and executes
// them with a stdin/stdout JSON protocol. Each subdirectory holding a
// plugin.json manifest is one plugin.
type PluginRunner struct {
	dir     string
	timeout time.Duration
	plugins map[string]*plugin
	mu      sync.RWMutex
}

// NewPluginRunner creates a PluginRunner for the given plugin directory.
// The timeout bounds a single plugin execution.
func NewPluginRunner(dir string, timeout time.Duration) *PluginRunner {
	return &PluginRunner{
		dir:     dir,
		timeout: timeout,
		plugins: make(map[string]*plugin),
	}
}

// Discover scans the plugin directory for plugin.json manifests.
// A missing directory is not an error; it simply yields no plugins.
func (r *PluginRunner) Discover() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins = make(map[string]*plugin)

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginDir := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(filepath.Join(pluginDir, "plugin.json"))
		if err != nil {
			continue // not a plugin, or unreadable; skip
		}

		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			continue
		}
		if manifest.Name == "" || manifest.Executable == "" {
			continue
		}

		r.plugins[manifest.Name] = &plugin{
			manifest:   manifest,
			dir:        pluginDir,
			executable: filepath.Join(pluginDir, manifest.Executable),
		}
	}

	return nil
}

// Names returns the names of all discovered plugins.
func (r *PluginRunner) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	return names
}

// Run executes one action of a discovered plugin on behalf of the named
// rule. It blocks until the plugin exits or the timeout elapses.
func (r *PluginRunner) Run(name, pluginAction, rule string) error {
	r.mu.RLock()
	p, ok := r.plugins[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.executable)
	cmd.Dir = p.dir

	reqJSON, err := json.Marshal(pluginRequest{Action: pluginAction, Rule: rule})
	if err != nil {
		return fmt.Errorf("marshal plugin request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("plugin %s timed out after %s", name, r.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("plugin %s failed: %w, stderr: %s", name, err, s)
		}
		return fmt.Errorf("plugin %s failed: %w", name, err)
	}

	var resp pluginResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return fmt.Errorf("parse plugin %s response: %w, stdout: %s", name, err, stdout.String())
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", name, resp.Error)
	}

	return nil
}
