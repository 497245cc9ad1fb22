package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the user-tunable configuration of the application.
type Settings struct {
	DataDir         string          `mapstructure:"data_dir"`
	Store           StoreSettings   `mapstructure:"store"`
	Language        string          `mapstructure:"language"`
	Converter       string          `mapstructure:"converter"`
	RecheckInterval time.Duration   `mapstructure:"recheck_interval"`
	Server          ServerSettings  `mapstructure:"server"`
	Reminder        ReminderSetting `mapstructure:"reminder"`
	CardDAV         CardDAVSettings `mapstructure:"carddav"`
	Logging         LoggingSettings `mapstructure:"logging"`
}

// StoreSettings selects the key-value backend.
type StoreSettings struct {
	Driver string `mapstructure:"driver"`
	Key    string `mapstructure:"key"`
}

// ServerSettings configures the local iCalendar feed.
type ServerSettings struct {
	Port string `mapstructure:"port"`
}

// ReminderSetting describes the optional VALARM attached to feed events.
type ReminderSetting struct {
	Enabled   bool   `mapstructure:"enabled"`
	Value     int    `mapstructure:"value"`
	Unit      string `mapstructure:"unit"`
	Direction string `mapstructure:"direction"`
}

// CardDAVSettings points at a remote address book used by the import command.
// The password lives in the OS keyring, keyed by User.
type CardDAVSettings struct {
	URL  string `mapstructure:"url"`
	User string `mapstructure:"user"`
}

// LoggingSettings holds structured logging settings.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadSettings reads settings from defaults, the config file and the environment.
// Extra search paths are consulted before the standard ones.
func LoadSettings(paths ...string) (*Settings, error) {
	v := viper.New()

	v.SetDefault(SetDataDir, defaultDataDir())
	v.SetDefault(SetStoreDriver, DefaultStoreDriver)
	v.SetDefault(SetStoreKey, StoreKey)
	v.SetDefault(SetLanguage, DefaultLanguage)
	v.SetDefault(SetConverter, DefaultConverter)
	v.SetDefault(SetRecheckInterval, DefaultRecheckInterval)
	v.SetDefault(SetServerPort, DefaultPort)
	v.SetDefault(SetReminderEnabled, false)
	v.SetDefault(SetReminderValue, DefaultReminderValue)
	v.SetDefault(SetReminderUnit, UnitDays)
	v.SetDefault(SetReminderDir, DirBefore)
	v.SetDefault(SetCardDAVURL, "")
	v.SetDefault(SetCardDAVUser, "")
	v.SetDefault(SetLogLevel, DefaultLogLevel)
	v.SetDefault(SetLogFormat, "json")

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, AppDirName))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
		}
		slog.Debug(MsgSettingsDefault, LogKeyComponent, CompSettings)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsDecode, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings the application cannot run with.
func (s *Settings) Validate() error {
	if s.Store.Driver != StoreDriverSQLite && s.Store.Driver != StoreDriverFile {
		return fmt.Errorf("%s: %q", ErrStoreDriver, s.Store.Driver)
	}
	if s.Converter != ConverterAnchored && s.Converter != ConverterTable {
		return fmt.Errorf("%s: %q", ErrConverter, s.Converter)
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if s.RecheckInterval <= 0 {
		return errors.New(ErrInterval)
	}
	return ValidatePort(s.Server.Port)
}

// ValidatePort checks that the feed port is a number within the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// ReminderTrigger converts the reminder settings to an ISO8601 duration
// suitable for a VALARM TRIGGER. It returns "" when reminders are disabled.
func (s *Settings) ReminderTrigger() string {
	r := s.Reminder
	if !r.Enabled {
		return ""
	}

	val := r.Value
	if val <= 0 {
		val = DefaultReminderValue
	}

	sign := ISOPeriodPrefix
	if r.Direction != DirAfter {
		sign = ISONegativePrefix
	}

	switch r.Unit {
	case UnitHours:
		return fmt.Sprintf("%s%d%s", sign, val, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%s%d%s", sign, val, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, val, ISODay)
	}
}

// defaultDataDir is the per-user directory holding the store.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppDirName)
	}
	return AppDirName
}
