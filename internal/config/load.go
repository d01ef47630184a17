package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ProjectConfigFilename is the project-level config file, checked relative
// to the current working directory.
const ProjectConfigFilename = ".bg3kit.json"

// userConfigSubpath is the user-level config file, checked under
// os.UserConfigDir().
const userConfigSubpath = "bg3kit/config.json"

// Load returns Default() overlaid first by the user-level config file,
// then by the project-level one, so a project file wins on conflicting
// fields. A missing file at either layer is not an error; only a present
// but malformed file is.
func Load() (Options, error) {
	opts := Default()

	if userPath, err := userConfigPath(); err == nil {
		layer, err := loadFile(userPath)
		if err != nil {
			return Options{}, err
		}
		opts = opts.Merge(layer)
	}

	layer, err := loadFile(ProjectConfigFilename)
	if err != nil {
		return Options{}, err
	}
	opts = opts.Merge(layer)

	return opts, nil
}

func userConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, userConfigSubpath), nil
}

// loadFile reads path as a JSON-encoded Options. A missing file yields the
// zero Options and a nil error.
func loadFile(path string) (Options, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Options{}, nil
	}
	if err != nil {
		return Options{}, err
	}
	var opts Options
	if err := json.Unmarshal(content, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
