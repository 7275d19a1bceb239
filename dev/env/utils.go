package devenv

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"toolbox-backend/lib/configutil"
)

const (
	moduleLine  = "module toolbox-backend"
	statePrefix = "<dev_state>"
)

// WorkspaceRoot walks up from the working directory to the directory holding
// this module's go.mod.
func WorkspaceRoot() (string, error) {
	dir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	for {
		mod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil && bytes.HasPrefix(bytes.TrimSpace(mod), []byte(moduleLine)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func stateDir() (string, error) {
	root, err := WorkspaceRoot()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "dev", ".state")
	return dir, os.MkdirAll(dir, 0777)
}

func GetStateFilePath(name string) (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func GetStateConfig[T any](name string) (T, error) {
	path, err := GetStateFilePath(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return configutil.ReadConfig[T](path)
}

// ResolvePath expands a leading "<dev_state>" into the dev state directory
// of the workspace, other paths are returned unchanged.
func ResolvePath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, statePrefix)
	if !ok {
		return path, nil
	}
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, strings.TrimLeft(rest, `/\`)), nil
}
