package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-anniversary/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"StoreKey", config.StoreKey},
		{"DefaultIcon", config.DefaultIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 24*time.Hour, config.DefaultRecheckInterval, "Recheck runs once a day")
	assert.Equal(t, "anniversaries", config.StoreKey, "Store key must stay compatible with existing data")
	assert.Contains(t, config.AnniversaryIcons, config.DefaultIcon)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.Equal(t, 30, config.LunarMonthDays)
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Anniversary/"), "UserAgent must start with AppName/")
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port    string
		wantErr string
	}{
		{"18081", ""},
		{"", config.ErrPortRequired},
		{"abc", config.ErrPortNumber},
		{"0", config.ErrPortRange},
		{"70000", config.ErrPortRange},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			err := config.ValidatePort(tt.port)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestReminderTrigger(t *testing.T) {
	tests := []struct {
		name        string
		reminder    config.ReminderSetting
		wantTrigger string
	}{
		{"Disabled", config.ReminderSetting{Enabled: false, Value: 3}, ""},
		{"1 Day Before", config.ReminderSetting{Enabled: true, Value: 1, Unit: config.UnitDays, Direction: config.DirBefore}, "-P1D"},
		{"2 Hours After", config.ReminderSetting{Enabled: true, Value: 2, Unit: config.UnitHours, Direction: config.DirAfter}, "P2H"},
		{"30 Minutes Before", config.ReminderSetting{Enabled: true, Value: 30, Unit: config.UnitMinutes, Direction: config.DirBefore}, "-P30M"},
		{"Zero Value Falls Back", config.ReminderSetting{Enabled: true, Value: 0, Unit: config.UnitDays}, "-P1D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &config.Settings{Reminder: tt.reminder}
			assert.Equal(t, tt.wantTrigger, s.ReminderTrigger())
		})
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, err := config.LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverSQLite, s.Store.Driver)
	assert.Equal(t, config.StoreKey, s.Store.Key)
	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.ConverterAnchored, s.Converter)
	assert.Equal(t, config.DefaultRecheckInterval, s.RecheckInterval)
	assert.Equal(t, config.DefaultPort, s.Server.Port)
	assert.False(t, s.Reminder.Enabled)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
language: en
converter: table
recheck_interval: 12h
store:
  driver: file
server:
  port: "19000"
reminder:
  enabled: true
  value: 2
  unit: h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Setenv("GO_ANNIVERSARY_LANGUAGE", "zh")

	s, err := config.LoadSettings(dir)
	require.NoError(t, err)

	assert.Equal(t, "zh", s.Language, "Environment must override the file")
	assert.Equal(t, config.ConverterTable, s.Converter)
	assert.Equal(t, 12*time.Hour, s.RecheckInterval)
	assert.Equal(t, config.StoreDriverFile, s.Store.Driver)
	assert.Equal(t, "19000", s.Server.Port)
	assert.Equal(t, "-P2H", s.ReminderTrigger())
}

func TestLoadSettings_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store:\n  driver: redis\n"), 0o600))

	_, err := config.LoadSettings(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrStoreDriver)
}
