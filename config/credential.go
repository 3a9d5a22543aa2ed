// Package config loads server settings from the environment and keeps the
// server-side default credential current.
package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

const reloadDebounce = 500 * time.Millisecond

// DefaultCredential serves the credential used when a caller types the
// sentinel. A value found in the env file wins over the environment
// fallback, which is consulted at call time.
type DefaultCredential struct {
	key    string
	path   string
	getenv func(string) string

	mu       sync.RWMutex
	fromFile string
}

// NewDefaultCredential reads the variable key, optionally overridden by the
// dotenv file at path. A missing file is not an error. getenv is the
// fallback lookup; nil means os.Getenv. Callers that load the env file into
// the process environment pass a snapshot taken before that load, so a key
// removed from the file stops being served.
func NewDefaultCredential(key, path string, getenv func(string) string) *DefaultCredential {
	if getenv == nil {
		getenv = os.Getenv
	}
	d := &DefaultCredential{key: key, path: path, getenv: getenv}
	d.reload()
	return d
}

func (d *DefaultCredential) DefaultCredential() string {
	d.mu.RLock()
	v := d.fromFile
	d.mu.RUnlock()
	if v != "" {
		return v
	}
	return strings.TrimSpace(d.getenv(d.key))
}

// Environ is a copy of the process environment at one point in time.
type Environ map[string]string

// SnapshotEnviron copies the current process environment.
func SnapshotEnviron() Environ {
	env := make(Environ)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func (e Environ) Getenv(key string) string {
	return e[key]
}

func (d *DefaultCredential) reload() {
	var v string
	if d.path != "" {
		vars, err := godotenv.Read(d.path)
		if err == nil {
			v = strings.TrimSpace(vars[d.key])
		} else if !os.IsNotExist(err) {
			slog.Warn("Could not read env file", "file", d.path, "error", err)
		}
	}
	d.mu.Lock()
	d.fromFile = v
	d.mu.Unlock()
}

// Watch reloads the env file whenever it is written or recreated until ctx
// is canceled. The returned channel receives a value after each reload.
func (d *DefaultCredential) Watch(ctx context.Context) (<-chan struct{}, error) {
	reloaded := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors replace files on save, so watch the directory.
	absPath, err := filepath.Abs(d.path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, err
	}
	slog.Debug("Watching env file", "file", absPath)

	go func() {
		defer watcher.Close()
		defer close(reloaded)

		var timer *time.Timer
		fire := make(chan struct{}, 1)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case <-fire:
				d.reload()
				slog.Info("Default credential reloaded", "file", absPath)
				select {
				case reloaded <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Watcher encountered an error", "error", err)
			}
		}
	}()

	return reloaded, nil
}
