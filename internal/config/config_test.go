package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/config"
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
		{"DataFileName", config.DataFileName},
		{"ICalProdid", config.ICalProdid},
		{"VCardVersion", config.VCardVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Phonebook/"), "UserAgent must start with AppName/")
}

// TestCommandSurface_Ordering guards the prefix table: longer commands sharing
// a prefix with shorter ones must stay distinguishable.
func TestCommandSurface_Ordering(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.CmdClearPhonebook, config.CmdClear))
	assert.NotEqual(t, config.CmdClearPhonebook, config.CmdClear)
	assert.Equal(t, "y", config.AnswerYes)
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.DefaultReminder, s.Reminder)
	assert.Equal(t, config.DefaultPageSize, s.PageSize)
	assert.NoError(t, s.Validate())
}

func TestLoadSettings_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	content := "language: uk\npage_size: 3\nserve_port: \"18081\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	t.Setenv(config.EnvDataFile, "/tmp/book.vcf")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "uk", s.Language)
	assert.Equal(t, 3, s.PageSize)
	assert.Equal(t, "18081", s.ServePort)
	assert.Equal(t, "/tmp/book.vcf", s.DataFile, "Environment must override the file")
	assert.NoError(t, s.Validate())
}

func TestLoadSettings_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("language: [unclosed"), config.FilePermUserRW))

	_, err := config.LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsParse)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.SettingsFileName)
	s := config.DefaultSettings()
	s.Language = "uk"
	s.ImportUser = "ann"

	require.NoError(t, s.Save(path))

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Settings)
		wantErr string
	}{
		{"Defaults", func(*config.Settings) {}, ""},
		{"Unknown language", func(s *config.Settings) { s.Language = "de" }, config.ErrLanguage},
		{"Negative page size", func(s *config.Settings) { s.PageSize = -2 }, config.ErrPageSize},
		{"Port not a number", func(s *config.Settings) { s.ServePort = "abc" }, config.ErrPortNumber},
		{"Port out of range", func(s *config.Settings) { s.ServePort = "70000" }, config.ErrPortRange},
		{"Valid port", func(s *config.Settings) { s.ServePort = "8080" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
