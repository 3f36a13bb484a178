// SPDX-License-Identifier: MPL-2.0

// Package finding defines the result records produced by the analysis core:
// Issue (single-package integrity defects), Diff (corrupt-vs-repaired
// structural differences) and Hypothesis (inferred root causes), plus the
// Severity scale shared by consumers such as the report renderer.
//
// This package is a leaf dependency: it imports only the standard library.
package finding

import (
	"errors"
	"fmt"
)

// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
var ErrInvalidSeverity = errors.New("invalid severity")

type (
	// Severity grades how strongly a Diff points at the corruption root
	// cause. Issues carry no severity of their own; their Kind implies it.
	Severity string

	// InvalidSeverityError is returned when a Severity value is not one of
	// the five known levels.
	InvalidSeverityError struct {
		Value Severity
	}
)

const (
	// SeverityInfo marks observations that are evidence, not damage
	// (e.g. identical content under a different part name).
	SeverityInfo Severity = "INFO"
	// SeverityLow marks cosmetic or recoverable differences.
	SeverityLow Severity = "LOW"
	// SeverityMedium marks differences that change package metadata.
	SeverityMedium Severity = "MEDIUM"
	// SeverityHigh marks differences that break part cross-references.
	SeverityHigh Severity = "HIGH"
	// SeverityCritical marks differences that make the document unopenable
	// or structurally inconsistent at the presentation level.
	SeverityCritical Severity = "CRITICAL"
)

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// IsValid returns whether the Severity is one of the five known levels.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true, nil
	}
	return false, []error{&InvalidSeverityError{Value: s}}
}

// Rank returns the ordering weight of the Severity, from 0 (INFO) to
// 4 (CRITICAL). Unknown severities rank below INFO.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return -1
}

// Error implements the error interface for InvalidSeverityError.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity: must be one of INFO, LOW, MEDIUM, HIGH, CRITICAL (got %q)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }
