package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, appDirName)
}

func TestLoadConfigMissingFile(t *testing.T) {
	useTempConfigDir(t)

	config, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, themes[0].Name, config.Theme)
	assert.True(t, config.Sound)
	assert.Equal(t, 70, config.Volume)
	assert.Equal(t, 1, config.Scale)
	_, err = uuid.Parse(config.DeviceID)
	assert.NoError(t, err)
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := useTempConfigDir(t)
	want := Config{
		Theme:     themes[2].Name,
		Music:     true,
		MusicPath: "/music/theme.mp3",
		Volume:    35,
		Scale:     2,
		Sync:      true,
		DeviceID:  uuid.NewString(),
	}

	require.NoError(t, saveConfig(want))
	assert.FileExists(t, filepath.Join(dir, "config.json"))

	got, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := useTempConfigDir(t)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{theme:"), 0o644))

	config, err := loadConfig()
	assert.ErrorContains(t, err, "decode config")
	assert.Equal(t, themes[0].Name, config.Theme)
	assert.NotEmpty(t, config.DeviceID)
}

func TestNormalizeConfig(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "unknown theme",
			in:   Config{Theme: "Vapor", Volume: 50, Scale: 1, DeviceID: id},
			want: Config{Theme: themes[0].Name, Volume: 50, Scale: 1, DeviceID: id},
		},
		{
			name: "clamps",
			in:   Config{Theme: themes[1].Name, Volume: 180, Scale: 9, DeviceID: id},
			want: Config{Theme: themes[1].Name, Volume: 100, Scale: 3, DeviceID: id},
		},
		{
			name: "negative",
			in:   Config{Theme: themes[1].Name, Volume: -4, Scale: 0, DeviceID: id},
			want: Config{Theme: themes[1].Name, Volume: 0, Scale: 1, DeviceID: id},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeConfig(tt.in))
		})
	}
}

func TestNormalizeConfigReplacesBadDeviceID(t *testing.T) {
	config := normalizeConfig(Config{DeviceID: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", config.DeviceID)
	_, err := uuid.Parse(config.DeviceID)
	assert.NoError(t, err)
}
