package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/checkfox/leadintel/internal/models"
)

// Bounds for advice and trend periods
const (
	MinPeriodDays = 1
	MaxPeriodDays = 365

	// MinComparisonLeads is the smallest set a comparison accepts
	MinComparisonLeads = 2
)

// Validator checks caller-supplied input before any data is gathered
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateScriptType parses and checks a script type
func (v *Validator) ValidateScriptType(raw string) (models.ScriptType, error) {
	scriptType := models.ScriptType(strings.ToLower(strings.TrimSpace(raw)))
	if !scriptType.IsValid() {
		return "", models.NewValidationError("script_type", raw,
			"expected one of first_contact, follow_up, presentation, closing, objection_handling")
	}
	return scriptType, nil
}

// ValidateAdviceType parses and checks an advice type
func (v *Validator) ValidateAdviceType(raw string) (models.AdviceType, error) {
	adviceType := models.AdviceType(strings.ToLower(strings.TrimSpace(raw)))
	if !adviceType.IsValid() {
		return "", models.NewValidationError("advice_type", raw,
			"expected one of campaign_optimization, lead_generation, conversion_improvement, budget_allocation")
	}
	return adviceType, nil
}

// ValidatePeriodDays checks that a period is within the supported window
func (v *Validator) ValidatePeriodDays(days int) error {
	if days < MinPeriodDays || days > MaxPeriodDays {
		return models.NewValidationError("period_days", strconv.Itoa(days),
			fmt.Sprintf("must be between %d and %d", MinPeriodDays, MaxPeriodDays))
	}
	return nil
}

// ValidateLeadID checks that a lead id is positive
func (v *Validator) ValidateLeadID(id int64) error {
	if id <= 0 {
		return models.NewValidationError("lead_id", strconv.FormatInt(id, 10), "must be positive")
	}
	return nil
}

// ValidateComparison checks the id list of a comparison request.
// Too few ids is reported before any id is inspected.
func (v *Validator) ValidateComparison(ids []int64) error {
	if len(ids) < MinComparisonLeads {
		return models.NewInsufficientInputError("compare_leads", MinComparisonLeads, len(ids))
	}
	for _, id := range ids {
		if err := v.ValidateLeadID(id); err != nil {
			return err
		}
	}
	return nil
}
