// SPDX-License-Identifier: MPL-2.0

package finding

import (
	"errors"
	"testing"
)

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		severity Severity
		want     bool
	}{
		{"info", SeverityInfo, true},
		{"low", SeverityLow, true},
		{"medium", SeverityMedium, true},
		{"high", SeverityHigh, true},
		{"critical", SeverityCritical, true},
		{"empty is invalid", Severity(""), false},
		{"lowercase is invalid", Severity("high"), false},
		{"unknown level is invalid", Severity("FATAL"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, errs := tt.severity.IsValid()
			if got != tt.want {
				t.Errorf("Severity(%q).IsValid() = %v, want %v", tt.severity, got, tt.want)
			}
			if !tt.want {
				if len(errs) != 1 {
					t.Fatalf("expected exactly one error, got %d", len(errs))
				}
				if !errors.Is(errs[0], ErrInvalidSeverity) {
					t.Errorf("error %v does not wrap ErrInvalidSeverity", errs[0])
				}
			}
		})
	}
}

func TestSeverity_Rank(t *testing.T) {
	t.Parallel()

	ordered := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("Rank() not strictly increasing: %s (%d) vs %s (%d)",
				ordered[i-1], ordered[i-1].Rank(), ordered[i], ordered[i].Rank())
		}
	}
	if got := Severity("bogus").Rank(); got != -1 {
		t.Errorf("unknown severity Rank() = %d, want -1", got)
	}
}
