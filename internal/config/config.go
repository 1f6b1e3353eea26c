// Package config provides centralized configuration management for the application.
// Everything is injected through environment variables; the engine packages
// never read ambient toggles themselves.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Count modes for elapsed working time.
const (
	// CountModeDays selects whole-calendar-day counting.
	CountModeDays = "days"
	// CountModeBlocks selects 24-hour-block counting.
	CountModeBlocks = "blocks"
)

// Config holds all configuration parameters for the application.
type Config struct {
	GitLab GitLabConfig
	SLA    SLAConfig
	Notes  NotesConfig
}

// GitLabConfig holds GitLab API specific configuration.
type GitLabConfig struct {
	Token   string
	BaseURL string
}

// SLAConfig holds the SLA engine's behavioral switches.
type SLAConfig struct {
	// CountMode is CountModeDays or CountModeBlocks.
	CountMode string

	// HolidayFirstYear/HolidayLastYear bound the Brazilian holiday
	// calendar; HolidaysEnabled is false when SLA_HOLIDAY_YEARS is unset.
	HolidayFirstYear int
	HolidayLastYear  int
	HolidaysEnabled  bool

	// LabelHistory enables paused-interval subtraction from label events.
	LabelHistory bool

	// BugBypassesPause restores the earlier policy where Bug-natured
	// issues ignore pause statuses.
	BugBypassesPause bool

	// VocabularyFile optionally points at a YAML file with extra
	// label-taxonomy rules.
	VocabularyFile string
}

// NotesConfig holds the per-issue notes store configuration.
type NotesConfig struct {
	// Path is the sqlite database file; empty disables notes.
	Path string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.BindEnv("gitlab.token", "GITLAB_TOKEN")
	v.BindEnv("gitlab.base_url", "GITLAB_BASE_URL")
	v.BindEnv("sla.count_mode", "SLA_COUNT_MODE")
	v.BindEnv("sla.holiday_years", "SLA_HOLIDAY_YEARS")
	v.BindEnv("sla.label_history", "SLA_LABEL_HISTORY")
	v.BindEnv("sla.bug_bypasses_pause", "SLA_BUG_BYPASSES_PAUSE")
	v.BindEnv("sla.vocabulary_file", "SLA_VOCABULARY_FILE")
	v.BindEnv("notes.db", "NOTES_DB")

	v.SetDefault("gitlab.base_url", "https://gitlab.com/")
	v.SetDefault("sla.count_mode", CountModeDays)

	config := &Config{
		GitLab: GitLabConfig{
			Token:   v.GetString("gitlab.token"),
			BaseURL: v.GetString("gitlab.base_url"),
		},
		SLA: SLAConfig{
			CountMode:        v.GetString("sla.count_mode"),
			LabelHistory:     v.GetBool("sla.label_history"),
			BugBypassesPause: v.GetBool("sla.bug_bypasses_pause"),
			VocabularyFile:   v.GetString("sla.vocabulary_file"),
		},
		Notes: NotesConfig{
			Path: v.GetString("notes.db"),
		},
	}

	if err := parseHolidayYears(v.GetString("sla.holiday_years"), &config.SLA); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// parseHolidayYears accepts "2025-2030" or a single "2025"; empty leaves
// holiday exclusion disabled.
func parseHolidayYears(raw string, sla *SLAConfig) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	first, last := raw, raw
	if i := strings.Index(raw, "-"); i >= 0 {
		first, last = raw[:i], raw[i+1:]
	}

	firstYear, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return fmt.Errorf("invalid SLA_HOLIDAY_YEARS %q: %v", raw, err)
	}
	lastYear, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		return fmt.Errorf("invalid SLA_HOLIDAY_YEARS %q: %v", raw, err)
	}
	if lastYear < firstYear {
		return fmt.Errorf("invalid SLA_HOLIDAY_YEARS %q: range end before start", raw)
	}

	sla.HolidayFirstYear = firstYear
	sla.HolidayLastYear = lastYear
	sla.HolidaysEnabled = true
	return nil
}

// validateConfig ensures the configuration values are coherent.
func validateConfig(config *Config) error {
	switch config.SLA.CountMode {
	case CountModeDays, CountModeBlocks:
	default:
		return fmt.Errorf("invalid SLA_COUNT_MODE: %q (expected %q or %q)",
			config.SLA.CountMode, CountModeDays, CountModeBlocks)
	}
	return nil
}

// ValidateGitLabConfig validates the configuration needed to talk to the
// GitLab API. Commands that only work on local data skip this.
func ValidateGitLabConfig(config *Config) error {
	var missingVars []string

	if config.GitLab.Token == "" {
		missingVars = append(missingVars, "GITLAB_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
