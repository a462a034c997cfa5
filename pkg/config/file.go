package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// ErrFileNotFound is returned when the configuration file does not exist.
var ErrFileNotFound = errors.New("configuration file not found")

const (
	configDirName  = "i3"
	configFileName = "event_handler.json"
)

// DefaultPath returns the default configuration file path,
// $XDG_CONFIG_HOME/i3/event_handler.json.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, configDirName, configFileName)
}

// ReadFile reads a regular file from disk.
func ReadFile(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if pathInfo.IsDir() {
		return nil, fmt.Errorf("%s: path is a directory", path)
	}
	if !pathInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: unknown file state", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
