package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveSettings writes the settings snapshot to a YAML config file. The write
// goes through a temp file and rename so a crash never leaves a truncated
// config behind.
func SaveSettings(settings *Settings, configPath string) error {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return writeSettings(settings, configPath)
}

// writeSettings performs the atomic config write. Callers hold whatever lock
// the settings snapshot requires.
func writeSettings(settings *Settings, configPath string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary config file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing temporary config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing temporary config file: %w", err)
	}

	if err := os.Rename(tmpName, configPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}

// createDefaultConfig writes the effective settings to a config.yaml in dir so
// a fresh install starts from an editable file. Returns the written path.
func createDefaultConfig(settings *Settings, dir string) (string, error) {
	configPath := filepath.Join(dir, "config.yaml")
	if err := writeSettings(settings, configPath); err != nil {
		return "", err
	}
	return configPath, nil
}
