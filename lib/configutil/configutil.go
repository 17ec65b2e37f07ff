package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localPath turns "dir/config.json5" into "dir/config.local.json5".
func localPath(name string) string {
	dirname := filepath.Dir(name)
	basename := filepath.Base(name)
	ext := filepath.Ext(basename)
	prefix := strings.TrimSuffix(basename, ext)
	return filepath.Join(dirname, fmt.Sprintf("%s.local%s", prefix, ext))
}

// readFile decodes a json5 file into out, found is false when the file
// does not exist or is empty.
func readFile[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads a configuration file, `name` should come with a file extension.
// The following files are merged, where the higher number wins:
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// os.ErrNotExist is returned when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T

	foundDefault, err := readFile(name, &out)
	if err != nil {
		return out, err
	}

	var override T
	local := localPath(name)
	foundLocal, err := readFile(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", local)
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it goes up the filesystem from the cwd
// until the root to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	root, err := filepath.Abs("/")
	if err != nil {
		return defaultOut, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for current != root {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			current = filepath.Dir(current)
			continue
		}
		if err != nil {
			return defaultOut, err
		}
		return config, nil
	}

	return defaultOut, os.ErrNotExist
}
