// Package paths resolves where tally keeps its config.yaml and its saved
// state. Each location follows the same precedence: flag, then config value
// (data dir only), then environment, then the platform default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory created under the platform config and data
// roots.
const appDirName = "tally"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TALLY_CONFIG_DIR"
	EnvDataDir   = "TALLY_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tally (fallback ~/.config/tally)
// macOS:   ~/Library/Application Support/tally
// Windows: %APPDATA%/tally
func DefaultConfigDir() (string, error) {
	return linuxOrUserConfig("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/tally (fallback ~/.local/share/tally)
// macOS:   ~/Library/Application Support/tally
// Windows: %APPDATA%/tally
func DefaultDataDir() (string, error) {
	return linuxOrUserConfig("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func linuxOrUserConfig(xdgEnv, homeFallback string) (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeFallback, appDirName), nil
	}
	// macOS and Windows keep config and data together.
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TALLY_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue > TALLY_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}
