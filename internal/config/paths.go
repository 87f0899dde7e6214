package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "dlplan"

// GetAppDir returns the per-user config root based on OS conventions.
func GetAppDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, appName)
	case "darwin": //MacOS
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", appName)
	default: //Linux
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, appName)
	}
}

// GetConfPath returns the default location of the conf file.
func GetConfPath() string {
	return filepath.Join(GetAppDir(), appName+".conf")
}

// GetStateDir returns the directory for persistent state (plan journal, lock).
func GetStateDir() string {
	return filepath.Join(GetAppDir(), "state")
}

// GetLogsDir returns the directory for logs.
func GetLogsDir() string {
	return filepath.Join(GetAppDir(), "logs")
}

// GetJournalPath returns the sqlite file the plan journal lives in.
func GetJournalPath() string {
	return filepath.Join(GetStateDir(), "journal.db")
}

// EnsureDirs creates all required directories.
func EnsureDirs() error {
	dirs := []string{GetAppDir(), GetStateDir(), GetLogsDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
