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

// reads a json5 configuration file, `name` must come with its file
// extension. next to the file itself a `<name>.local.<ext>` file may
// exist, its values override the checked-in defaults.
func ReadConfig[T any](name string) (T, error) {
	var out T

	ext := filepath.Ext(name)
	localName := fmt.Sprintf("%s.local%s", strings.TrimSuffix(name, ext), ext)

	found := false

	contents, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(contents) > 0 {
		err = json5.Unmarshal(contents, &out)
		if err != nil {
			return out, err
		}
		found = true
	}

	localContents, err := os.ReadFile(localName)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localContents) > 0 {
		var overrides T
		err = json5.Unmarshal(localContents, &overrides)
		if err != nil {
			return out, err
		}
		err = mergo.Merge(&out, overrides, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localName)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadConfig but it walks up the filesystem from the cwd until it
// finds a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var out T

	current, err := os.Getwd()
	if err != nil {
		return out, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			parent := filepath.Dir(current)
			if parent == current {
				return out, os.ErrNotExist
			}
			current = parent
			continue
		}
		return config, err
	}
}
