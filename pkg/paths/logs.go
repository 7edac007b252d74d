// Package paths resolves where interpose keeps its config and logs.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvLogDir = "INTERPOSE_LOG_DIR"

	// StateDirName is the per-user and per-project directory name.
	StateDirName = ".interpose"
	configFile   = "config.yaml"
)

// LogsBaseDir returns INTERPOSE_LOG_DIR (with ~ expanded) or the relative
// default .interpose/logs.
func LogsBaseDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvLogDir)); dir != "" {
		return filepath.Clean(ExpandHome(dir))
	}
	return filepath.Join(StateDirName, "logs")
}

// LogsBaseDirForWorkdir anchors a relative log dir at workdir.
func LogsBaseDirForWorkdir(workdir string) string {
	return anchor(LogsBaseDir(), workdir)
}

// ResolveLogDir expands a configured log dir and anchors it at workdir. An
// empty dir falls back to LogsBaseDirForWorkdir.
func ResolveLogDir(dir, workdir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return LogsBaseDirForWorkdir(workdir)
	}
	return anchor(filepath.Clean(ExpandHome(dir)), workdir)
}

// UserConfigPath returns ~/.interpose/config.yaml, or "" without a home dir.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return ""
	}
	return filepath.Join(home, StateDirName, configFile)
}

// ProjectConfigPath returns <workdir>/.interpose/config.yaml.
func ProjectConfigPath(workdir string) string {
	return anchor(filepath.Join(StateDirName, configFile), workdir)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || strings.TrimSpace(home) == "" {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}

func anchor(path, workdir string) string {
	if filepath.IsAbs(path) || strings.TrimSpace(workdir) == "" {
		return path
	}
	return filepath.Join(workdir, path)
}
