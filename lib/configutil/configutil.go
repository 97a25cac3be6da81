package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalPath returns the path of the local override file for a config file,
// `brickprices.json5` becomes `brickprices.local.json5`.
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

func readJson5[T any](path string, out *T) (found bool, err error) {
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
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following, where higher number is more prioritized.
// 1. `defaults`
// 2. <name>.<ext>
// 3. <name>.local.<ext>
//
// zero values never override, so a missing file (or a missing field) falls back
// to `defaults`. it returns os.ErrNotExist only when `required` is set and
// neither file exists.
func ReadConfig[T any](name string, defaults T, required bool) (T, error) {
	var out T

	found, err := readJson5(name, &out)
	if err != nil {
		return defaults, err
	}

	localFilepath := LocalPath(name)
	var override T
	foundLocal, err := readJson5(localFilepath, &override)
	if err != nil {
		return defaults, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return defaults, err
		}
		slog.Info("merging config with local overrides", "local", localFilepath)
	}

	if required && !found && !foundLocal {
		return defaults, os.ErrNotExist
	}

	err = mergo.Merge(&out, defaults)
	if err != nil {
		return defaults, err
	}
	return out, nil
}
