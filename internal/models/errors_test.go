package models

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestErrorHelpers_ThroughWrapping(t *testing.T) {
	notFound := fmt.Errorf("load: %w", NewNotFoundError("lead", 42, sql.ErrNoRows))
	if !IsNotFound(notFound) {
		t.Error("Expected wrapped NotFoundError to be detected")
	}
	if !errors.Is(notFound, sql.ErrNoRows) {
		t.Error("Expected NotFoundError to unwrap to its cause")
	}
	if IsValidation(notFound) || IsInsufficientInput(notFound) {
		t.Error("Expected NotFoundError not to match other kinds")
	}

	invalid := fmt.Errorf("request: %w", NewValidationError("period_days", "0", "must be between 1 and 365"))
	if !IsValidation(invalid) {
		t.Error("Expected wrapped ValidationError to be detected")
	}

	short := NewInsufficientInputError("compare_leads", 2, 1)
	if !IsInsufficientInput(short) {
		t.Error("Expected InsufficientInputError to be detected")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("Expected plain error not to be NotFound")
	}
}

func TestErrorMessages(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"not found", NewNotFoundError("lead", 7, nil), "lead 7 not found"},
		{"insufficient", NewInsufficientInputError("compare_leads", 2, 1), "compare_leads requires at least 2 items, got 1"},
		{"validation with detail", NewValidationError("script_type", "x", "unsupported"), "invalid script_type 'x': unsupported"},
		{"validation bare", NewValidationError("lead_id", "-1", ""), "invalid lead_id '-1'"},
		{"unknown purpose", NewUnknownPurposeError("nope"), "unknown prompt purpose: nope"},
		{
			"binding",
			NewTemplateBindingError(PurposeMarketingAdvice, []string{"market"}, []string{"extra"}, nil),
			"template binding error for marketing_advice: missing slots: market; undeclared slots: extra",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEnumValidity(t *testing.T) {
	if !QualityHot.IsValid() || QualityCategory("Lukewarm").IsValid() {
		t.Error("Unexpected QualityCategory validity")
	}
	if !ScriptObjectionHandling.IsValid() || ScriptType("cold_open").IsValid() {
		t.Error("Unexpected ScriptType validity")
	}
	if !AdviceBudgetAllocation.IsValid() || AdviceType("").IsValid() {
		t.Error("Unexpected AdviceType validity")
	}
}
