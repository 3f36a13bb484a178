// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"deckscope/pkg/finding"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidReportConfig is the sentinel error wrapped by InvalidReportConfigError.
	ErrInvalidReportConfig = errors.New("invalid report config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme controls terminal color rendering.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}

	// ReportConfig holds report rendering settings.
	ReportConfig struct {
		// MinSeverity hides diffs below this severity in the text report.
		MinSeverity finding.Severity `mapstructure:"min_severity"`
		// JSONPath is where the machine-readable record is written.
		JSONPath string `mapstructure:"json_path"`
	}

	// InvalidReportConfigError aggregates report section validation failures.
	// It wraps ErrInvalidReportConfig for errors.Is() compatibility.
	InvalidReportConfigError struct {
		Errs []error
	}

	// Config is the application configuration.
	Config struct {
		UI     UIConfig     `mapstructure:"ui"`
		Report ReportConfig `mapstructure:"report"`
	}

	// InvalidConfigError aggregates all section validation failures.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Errs []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Report: ReportConfig{
			MinSeverity: finding.SeverityInfo,
			JSONPath:    "pptx_compare_report.json",
		},
	}
}

// IsValid reports whether the color scheme is one of the known values.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", string(e.Value))
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid validates the report section.
func (r ReportConfig) IsValid() (bool, []error) {
	var errs []error
	if ok, sevErrs := r.MinSeverity.IsValid(); !ok {
		errs = append(errs, sevErrs...)
	}
	if strings.TrimSpace(r.JSONPath) == "" {
		errs = append(errs, fmt.Errorf("%w: json_path must not be empty", ErrInvalidReportConfig))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidReportConfigError{Errs: errs}}
	}
	return true, nil
}

func (e *InvalidReportConfigError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid report config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel plus every nested failure, so errors.Is()
// matches both ErrInvalidReportConfig and the individual causes.
func (e *InvalidReportConfigError) Unwrap() []error {
	return append([]error{ErrInvalidReportConfig}, e.Errs...)
}

// IsValid validates every config section.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, schemeErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, schemeErrs...)
	}
	if ok, reportErrs := c.Report.IsValid(); !ok {
		errs = append(errs, reportErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{Errs: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel plus every nested failure, so errors.Is()
// matches both ErrInvalidConfig and the individual causes.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.Errs...)
}
