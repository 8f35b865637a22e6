// Package dirs resolves per-user directories for vidmerge.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "vidmerge"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// base describes where one kind of directory lives on each platform.
type base struct {
	xdgEnv    string   // Linux override variable
	linux     []string // path under $HOME when xdgEnv is unset
	darwin    []string // path under $HOME
	fallback  func() (string, error)
	subFolder string // appended after the app name on non-Linux systems
}

var (
	configBase = base{
		xdgEnv:   "XDG_CONFIG_HOME",
		linux:    []string{".config"},
		darwin:   []string{"Library", "Application Support"},
		fallback: os.UserConfigDir,
	}
	dataBase = base{
		xdgEnv:   "XDG_DATA_HOME",
		linux:    []string{".local", "share"},
		darwin:   []string{"Library", "Application Support"},
		fallback: os.UserConfigDir,
	}
	cacheBase = base{
		xdgEnv:   "XDG_CACHE_HOME",
		linux:    []string{".cache"},
		darwin:   []string{"Library", "Caches"},
		fallback: os.UserCacheDir,
	}
	stateBase = base{
		xdgEnv:    "XDG_STATE_HOME",
		linux:     []string{".local", "state"},
		darwin:    []string{"Library", "Application Support"},
		fallback:  localAppData,
		subFolder: "state",
	}
)

func (b base) resolve() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv(b.xdgEnv); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, b.linux...), appName)...), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p := filepath.Join(append(append([]string{home}, b.darwin...), appName)...)
		return filepath.Join(p, b.subFolder), nil
	default:
		root, err := b.fallback()
		if err != nil {
			return "", err
		}
		return filepath.Join(root, appName, b.subFolder), nil
	}
}

func localAppData() (string, error) {
	if la := os.Getenv("LOCALAPPDATA"); la != "" {
		return la, nil
	}
	return os.UserConfigDir()
}

// ConfigDir holds config.{yaml,toml,json}.
// Linux: $XDG_CONFIG_HOME/vidmerge or ~/.config/vidmerge.
func ConfigDir() (string, error) { return configBase.resolve() }

// DataDir returns the app's data directory.
func DataDir() (string, error) { return dataBase.resolve() }

// CacheDir returns the app's cache directory.
func CacheDir() (string, error) { return cacheBase.resolve() }

// StateDir holds the TUI log file.
// Linux: $XDG_STATE_HOME/vidmerge or ~/.local/state/vidmerge.
func StateDir() (string, error) { return stateBase.resolve() }

// DefaultOutputDir prefers ~/Videos/vidmerge when ~/Videos exists, otherwise
// an output folder under the data dir.
func DefaultOutputDir() (string, error) {
	if home, err := os.UserHomeDir(); err == nil {
		videos := filepath.Join(home, "Videos")
		if fi, err := os.Stat(videos); err == nil && fi.IsDir() {
			return filepath.Join(videos, appName), nil
		}
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "output"), nil
}

// TempBaseDir returns where concat manifests are written.
func TempBaseDir() (string, error) {
	c, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(c, "temp"), nil
}

// DefaultDropDir is the folder the TUI watches when no --drop-dir is given.
func DefaultDropDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "drop"), nil
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll ensures config, data, cache, and state dirs exist.
func EnsureAll() error {
	for _, fn := range []func() (string, error){ConfigDir, DataDir, CacheDir, StateDir} {
		p, err := fn()
		if err != nil {
			continue
		}
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
