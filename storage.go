package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const appDirName = "cyber-calendar"

type Config struct {
	Theme     string `json:"theme"`
	Sound     bool   `json:"sound"`
	Music     bool   `json:"music"`
	MusicPath string `json:"music_path,omitempty"`
	Volume    int    `json:"volume"`
	Scale     int    `json:"scale"`
	Sync      bool   `json:"sync"`
	DeviceID  string `json:"device_id"`
}

func defaultConfig() Config {
	return Config{
		Theme:  themes[0].Name,
		Sound:  true,
		Volume: 70,
		Scale:  1,
	}
}

func loadConfig() (Config, error) {
	config := defaultConfig()
	path, err := configPath()
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return normalizeConfig(config), nil
	}
	if err != nil {
		return normalizeConfig(config), fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return normalizeConfig(defaultConfig()), fmt.Errorf("decode config: %w", err)
	}
	return normalizeConfig(config), nil
}

func normalizeConfig(config Config) Config {
	if themeIndexByName(config.Theme) < 0 {
		config.Theme = themes[0].Name
	}
	config.Scale = clampScale(config.Scale)
	config.Volume = clampVolumePercent(config.Volume)
	if _, err := uuid.Parse(config.DeviceID); err != nil {
		config.DeviceID = uuid.NewString()
	}
	return config
}

func saveConfig(config Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func appDir() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func configPath() (string, error) {
	dir, err := appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// defaultDataDir is where the event list lives unless -data says otherwise.
func defaultDataDir() (string, error) {
	return appDir()
}
