package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// HolidayRule is a recurring public holiday expressed as an RRULE
type HolidayRule struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
}

// ShiftCode registers a custom shift code
type ShiftCode struct {
	Code  string `yaml:"code" validate:"required"`
	Label string `yaml:"label,omitempty"`
	Color string `yaml:"color,omitempty"`
	Time  string `yaml:"time,omitempty"`
	Hours int    `yaml:"hours" validate:"min=0,max=24"`
}

// Coverage holds the default ward demand used by simulateCoverage
type Coverage struct {
	Beds     int  `yaml:"beds" validate:"omitempty,min=1"`
	RatioD   int  `yaml:"ratioD" validate:"omitempty,min=1"`
	RatioE   int  `yaml:"ratioE" validate:"omitempty,min=1"`
	RatioN   int  `yaml:"ratioN" validate:"omitempty,min=1"`
	BanNight bool `yaml:"banNight,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL       string        `yaml:"databaseURL" validate:"required"`
	BaseSalary        string        `yaml:"baseSalary" validate:"required,numeric"`
	PublicHolidays    []string      `yaml:"publicHolidays,omitempty" validate:"dive,len=8,numeric"`
	HolidayRules      []HolidayRule `yaml:"holidayRules,omitempty" validate:"dive"`
	ShiftCodes        []ShiftCode   `yaml:"shiftCodes,omitempty" validate:"dive"`
	ClampHealthScore  *bool         `yaml:"clampHealthScore,omitempty"`
	Coverage          Coverage      `yaml:"coverage,omitempty"`
	StaffSheetID      string        `yaml:"staffSheetID,omitempty"`
	StaffTab          string        `yaml:"staffTab,omitempty"`
	RosterSheetID     string        `yaml:"rosterSheetID,omitempty"`
	HolidaySheetID    string        `yaml:"holidaySheetID,omitempty"`
	SettlementSheetID string        `yaml:"settlementSheetID,omitempty"`
	GmailSender       string        `yaml:"gmailSender,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from ward_roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment.
// env="test" looks for ward_roster_config.test.yaml.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the base salary and rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	salary, err := decimal.NewFromString(cfg.BaseSalary)
	if err != nil {
		return fmt.Errorf("invalid baseSalary: %w", err)
	}
	if !salary.IsPositive() {
		return fmt.Errorf("invalid baseSalary: must be greater than zero")
	}

	for i, rule := range cfg.HolidayRules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in holidayRules[%d]: %w", i, err)
		}
	}

	return nil
}

// BaseSalaryDecimal returns the validated base salary
func (c *Config) BaseSalaryDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.BaseSalary)
}

// ShouldClampHealthScore reports whether health scores floor at zero (default true)
func (c *Config) ShouldClampHealthScore() bool {
	return c.ClampHealthScore == nil || *c.ClampHealthScore
}

// Catalog returns the built-in shift catalog extended with the configured codes
func (c *Config) Catalog() *roster.Catalog {
	catalog := roster.NewCatalog()
	for _, sc := range c.ShiftCodes {
		catalog.Register(roster.ShiftDefinition{
			Code:  roster.ShiftCode(sc.Code),
			Label: sc.Label,
			Color: sc.Color,
			Time:  sc.Time,
			Hours: sc.Hours,
		})
	}
	return catalog
}

// rruleEpoch anchors rules without a DTSTART so they expand for any year
var rruleEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// HolidayDates returns the YYYYMMDD keys of every configured holiday in a month:
// the fixed publicHolidays plus each holiday rule's occurrences
func (c *Config) HolidayDates(period roster.Period) ([]string, error) {
	prefix := fmt.Sprintf("%04d%02d", period.Year, period.Month)
	seen := make(map[string]struct{})
	for _, d := range c.PublicHolidays {
		if len(d) == 8 && d[:6] == prefix {
			seen[d] = struct{}{}
		}
	}

	start := time.Date(period.Year, time.Month(period.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	for i, rule := range c.HolidayRules {
		opt, err := rrule.StrToROption(rule.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in holidayRules[%d]: %w", i, err)
		}
		if opt.Dtstart.IsZero() {
			opt.Dtstart = rruleEpoch
		}
		r, err := rrule.NewRRule(*opt)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in holidayRules[%d]: %w", i, err)
		}
		for _, t := range r.Between(start, end, true) {
			seen[t.Format("20060102")] = struct{}{}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

// findConfigFile searches for the environment's config file in the current and home directories
func findConfigFile(env string) (string, error) {
	configFileName := "ward_roster_config.yaml"
	if env != "" {
		configFileName = "ward_roster_config." + env + ".yaml"
	}
	return findFile(configFileName)
}
