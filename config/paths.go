package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/tempchat
// Windows: C:\Users\username\.config\tempchat
func GetConfigDir() string {
	if dir := os.Getenv("TEMPCHAT_CONFIG_DIR"); dir != "" {
		return ExpandPath(dir)
	}
	return filepath.Join(GetHomeDir(), ".config", "tempchat")
}

// GetCacheDir returns the platform-specific cache directory.
// Preview files and the debug log live here (never synced to cloud)
// Linux/Mac: ~/.cache/tempchat
// Windows: C:\Users\username\AppData\Local\tempchat
func GetCacheDir() string {
	if dir := os.Getenv("TEMPCHAT_CACHE_DIR"); dir != "" {
		return ExpandPath(dir)
	}

	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(GetHomeDir(), "AppData", "Local")
		}
		return filepath.Join(localAppData, "tempchat")
	}

	return filepath.Join(GetHomeDir(), ".cache", "tempchat")
}

// GetConfigFilePath returns the path to config.toml
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// GetPreviewDir returns the directory holding image preview handles
func GetPreviewDir() string {
	return filepath.Join(GetCacheDir(), "previews")
}

// GetDebugLogPath returns the path of the debug log
func GetDebugLogPath() string {
	return filepath.Join(GetCacheDir(), "debug.log")
}

// GetHomeDir returns the user's home directory across platforms
// Windows: %USERPROFILE% (C:\Users\username)
// Linux/Mac: $HOME (/home/username)
func GetHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("USERPROFILE")
		if home == "" {
			home = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
		if home == "" {
			home = "C:\\"
		}
		return home
	}
	home := os.Getenv("HOME")
	if home == "" {
		home = "/"
	}
	return home
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(GetHomeDir(), path[2:])
	}

	path = os.ExpandEnv(path)

	return filepath.Clean(path)
}

// EnsureDir creates a directory if it doesn't exist (0700 - user-only access)
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
