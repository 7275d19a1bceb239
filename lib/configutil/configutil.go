package configutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the override file that is layered over name,
// "config.json5" becomes "config.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readLayer[T any](path string, out *T) (bool, error) {
	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(buf) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(buf, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig decodes the json5 file `name` and merges LocalPath(name) over it,
// non-zero fields of the local file win. os.ErrNotExist is returned when
// neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var base T
	hasBase, err := readLayer(name, &base)
	if err != nil {
		return base, err
	}

	local := LocalPath(name)
	var override T
	hasOverride, err := readLayer(local, &override)
	if err != nil {
		return base, err
	}

	switch {
	case hasBase && hasOverride:
		slog.Debug("applying local config overrides", "file", local)
		err = mergo.Merge(&base, override, mergo.WithOverride)
		return base, err
	case hasOverride:
		return override, nil
	case hasBase:
		return base, nil
	}
	return base, os.ErrNotExist
}

// ReadConfigInto decodes `name` and then LocalPath(name) directly onto out,
// so only the keys present in a file replace what out already holds, an
// explicit zero included. os.ErrNotExist is returned when neither file exists.
func ReadConfigInto[T any](name string, out *T) error {
	hasBase, err := readLayer(name, out)
	if err != nil {
		return err
	}
	hasOverride, err := readLayer(LocalPath(name), out)
	if err != nil {
		return err
	}
	if !hasBase && !hasOverride {
		return os.ErrNotExist
	}
	return nil
}

// ReadRecursively tries ReadConfig in the working directory and then in each
// parent up to the filesystem root.
func ReadRecursively[T any](name string) (T, error) {
	var zero T
	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}
	for {
		cfg, err := ReadConfig[T](filepath.Join(dir, name))
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return zero, os.ErrNotExist
		}
		dir = parent
	}
}
