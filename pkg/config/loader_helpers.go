package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/interpose/pkg/errors"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Strings override when non-empty;
// bools override only when the key is present in the file.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if override.Session.Name != "" {
		base.Session.Name = override.Session.Name
	}
	if override.Session.Upstream != "" {
		base.Session.Upstream = override.Session.Upstream
	}
	if override.Session.Status != "" {
		base.Session.Status = override.Session.Status
	}

	if override.UI.Theme != "" {
		base.UI.Theme = override.UI.Theme
	}
	if boolFieldSet(raw, "ui", "mouse") {
		base.UI.Mouse = override.UI.Mouse
	}
	if boolFieldSet(raw, "ui", "paste") {
		base.UI.Paste = override.UI.Paste
	}
	if boolFieldSet(raw, "ui", "focus_events") {
		base.UI.FocusEvents = override.UI.FocusEvents
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}

	if override.Metrics.Textfile != "" {
		base.Metrics.Textfile = override.Metrics.Textfile
	}
}

func boolFieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
