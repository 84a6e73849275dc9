package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL: "postgres://localhost/ward",
		BaseSalary:  "40000",
	}
}

func TestValidate_MinimalConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_FullConfig(t *testing.T) {
	clamp := false
	cfg := validConfig()
	cfg.PublicHolidays = []string{"20240101", "20241010"}
	cfg.HolidayRules = []HolidayRule{{Name: "Mother's Day", RRule: "FREQ=YEARLY;BYMONTH=5;BYDAY=2SU"}}
	cfg.ShiftCodes = []ShiftCode{{Code: "L", Label: "Long day", Hours: 12}}
	cfg.ClampHealthScore = &clamp
	cfg.Coverage = Coverage{Beds: 30, RatioD: 6, RatioE: 8, RatioN: 10}

	assert.NoError(t, Validate(cfg))
}

func TestValidate_MissingRequiredField(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_BaseSalary(t *testing.T) {
	tests := []struct {
		name   string
		salary string
		errMsg string
	}{
		{"zero", "0", "must be greater than zero"},
		{"negative", "-100", "must be greater than zero"},
		{"not a number", "lots", "validation failed"},
		{"decimal", "40000.50", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.BaseSalary = tt.salary
			err := Validate(cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_BadHolidayDate(t *testing.T) {
	cfg := validConfig()
	cfg.PublicHolidays = []string{"2024-01-01"}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := validConfig()
	cfg.HolidayRules = []HolidayRule{
		{Name: "ok", RRule: "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"},
		{Name: "broken", RRule: "INVALID_RRULE"},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in holidayRules[1]")
}

func TestValidate_ShiftCodeHours(t *testing.T) {
	cfg := validConfig()
	cfg.ShiftCodes = []ShiftCode{{Code: "X", Hours: 25}}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestShouldClampHealthScore(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.ShouldClampHealthScore())

	off := false
	cfg.ClampHealthScore = &off
	assert.False(t, cfg.ShouldClampHealthScore())
}

func TestCatalog_RegistersCustomCodes(t *testing.T) {
	cfg := validConfig()
	cfg.ShiftCodes = []ShiftCode{{Code: "L", Label: "Long day", Hours: 12}, {Code: "TRN", Label: "Training"}}

	catalog := cfg.Catalog()
	assert.Equal(t, 12, catalog.Hours("L"))
	assert.Equal(t, 0, catalog.Hours("TRN"))
	assert.Equal(t, 8, catalog.Hours(roster.ShiftDay))
}

func TestHolidayDates(t *testing.T) {
	cfg := validConfig()
	cfg.PublicHolidays = []string{"20240101", "20240512", "20240620"}
	cfg.HolidayRules = []HolidayRule{
		{Name: "Mother's Day", RRule: "FREQ=YEARLY;BYMONTH=5;BYDAY=2SU"},
		{Name: "Labour Day", RRule: "FREQ=YEARLY;BYMONTH=5;BYMONTHDAY=1"},
	}

	dates, err := cfg.HolidayDates(roster.Period{Year: 2024, Month: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240501", "20240512"}, dates)

	dates, err = cfg.HolidayDates(roster.Period{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ward_roster_config.yaml")

	content := `
databaseURL: "postgres://localhost/ward"
baseSalary: 40000
publicHolidays:
  - "20241010"
holidayRules:
  - name: "New Year"
    rrule: "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"
shiftCodes:
  - code: "L"
    label: "Long day"
    hours: 12
clampHealthScore: false
coverage:
  beds: 30
  ratioD: 6
  ratioE: 8
  ratioN: 10
rosterSheetID: "roster-sheet"
gmailSender: "ward7@example.com"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/ward", cfg.DatabaseURL)
	assert.Equal(t, "40000", cfg.BaseSalaryDecimal().String())
	assert.Equal(t, []string{"20241010"}, cfg.PublicHolidays)
	require.Len(t, cfg.HolidayRules, 1)
	assert.Equal(t, "New Year", cfg.HolidayRules[0].Name)
	require.Len(t, cfg.ShiftCodes, 1)
	assert.Equal(t, 12, cfg.ShiftCodes[0].Hours)
	assert.False(t, cfg.ShouldClampHealthScore())
	assert.Equal(t, Coverage{Beds: 30, RatioD: 6, RatioE: 8, RatioN: 10}, cfg.Coverage)
	assert.Equal(t, "roster-sheet", cfg.RosterSheetID)
	assert.Equal(t, "ward7@example.com", cfg.GmailSender)
}

func TestLoadFromPath_MissingRequiredField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.yaml")

	content := `
baseSalary: 40000
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_yaml.yaml")

	content := `
databaseURL: "postgres://localhost/ward"
  invalid indentation
baseSalary: 40000
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_CurrentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", tmpDir)

	content := `
databaseURL: "postgres://localhost/ward_test"
baseSalary: 36000
`
	require.NoError(t, os.WriteFile("ward_roster_config.test.yaml", []byte(content), 0644))

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/ward_test", cfg.DatabaseURL)

	_, err = LoadWithEnv("prod")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ward_roster_config.prod.yaml not found")
}
