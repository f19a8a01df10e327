package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// GetExecutableDir returns the directory of the current executable
// Its a fallback for config placement when no writable config dir exists
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// ResolveSocketPath resolves the admin socket path. An explicit path wins;
// otherwise the runtime dir is searched, then the system default. The
// returned path is not guaranteed to exist - dialing it decides whether the
// environment is usable.
func ResolveSocketPath(userPath, name string) string {
	if userPath != "" {
		return GetAbsolutePath(userPath)
	}

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		candidate := filepath.Join(runtimeDir, "qubemenu", name)
		if FileExists(candidate) {
			return candidate
		}
		log.Debugf("Socket candidate not present: %s", candidate)
	}

	return filepath.Join("/var/run/qubemenu", name)
}

// IconThemeDirs lists the directories searched for themed icons, in
// priority order, honoring XDG_DATA_HOME and XDG_DATA_DIRS.
func IconThemeDirs() []string {
	var dirs []string

	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "icons"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "icons"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range filepath.SplitList(dataDirs) {
		if d == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(d, "icons"))
	}

	dirs = append(dirs, "/usr/share/pixmaps")
	return dirs
}
