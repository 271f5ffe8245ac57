package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-tunable options of the phonebook.
// Values come from the YAML settings file, then the environment, then CLI flags.
type Settings struct {
	// Language is the ISO 639-1 code of the message catalog.
	Language string `yaml:"language"`

	// DataFile is the vCard file holding the whole phonebook.
	DataFile string `yaml:"data_file"`

	// PageSize is the default number of records per page for "show all".
	// Zero means the user is asked every time.
	PageSize int `yaml:"page_size"`

	// ServePort enables the birthday calendar server when not empty.
	ServePort string `yaml:"serve_port"`

	// Reminder is the ISO8601 trigger of the calendar alarm (e.g. "-P1D"), empty disables it.
	Reminder string `yaml:"reminder"`

	// ImportUser is the HTTP Basic Auth user for remote imports.
	// The password is looked up in the OS keyring.
	ImportUser string `yaml:"import_user"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Language: DefaultLanguage,
		PageSize: DefaultPageSize,
		Reminder: DefaultReminder,
	}
}

// LoadSettings reads settings from path. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.applyEnvOverrides()
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}

	s.applyEnvOverrides()
	return s, nil
}

// Save writes the settings as YAML, creating the parent directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, FilePermUserRW)
}

func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv(EnvLanguage); v != "" {
		s.Language = v
	}
	if v := os.Getenv(EnvDataFile); v != "" {
		s.DataFile = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		s.ServePort = v
	}
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if s.PageSize < 0 {
		return fmt.Errorf("%s: %d", ErrPageSize, s.PageSize)
	}
	if s.ServePort != DisabledPort {
		return ValidatePort(s.ServePort)
	}
	return nil
}

// ValidatePort checks that port is a number within the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrPortNumber, err)
	}
	if n < MinPort || n > MaxPort {
		return fmt.Errorf("%s: %d", ErrPortRange, n)
	}
	return nil
}

// AppDir returns the per-user directory holding settings and data.
func AppDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID), nil
}

// DefaultSettingsPath returns the settings file location inside AppDir.
func DefaultSettingsPath() string {
	dir, err := AppDir()
	if err != nil {
		return SettingsFileName
	}
	return filepath.Join(dir, SettingsFileName)
}

// DefaultDataPath returns the vCard store location inside AppDir.
func DefaultDataPath() string {
	dir, err := AppDir()
	if err != nil {
		return DataFileName
	}
	return filepath.Join(dir, DataFileName)
}
