package models

// QualityCategory is the bucketed quality of a lead
type QualityCategory string

const (
	// QualityHot indicates a lead ready for a commercial proposal
	QualityHot QualityCategory = "Hot"

	// QualityWarm indicates a lead that needs a structured follow-up
	QualityWarm QualityCategory = "Warm"

	// QualityCold indicates a lead that needs nurturing
	QualityCold QualityCategory = "Cold"
)

// IsValid checks if the category is a known QualityCategory value
func (c QualityCategory) IsValid() bool {
	switch c {
	case QualityHot, QualityWarm, QualityCold:
		return true
	default:
		return false
	}
}

// QualityCategories lists the categories from best to worst
func QualityCategories() []QualityCategory {
	return []QualityCategory{QualityHot, QualityWarm, QualityCold}
}

// Purpose selects a prompt template and a fallback narrative
type Purpose string

const (
	PurposeLeadAnalysis    Purpose = "lead_analysis"
	PurposeMarketingAdvice Purpose = "marketing_advice"
	PurposeSalesScript     Purpose = "sales_script"
	PurposeLeadComparison  Purpose = "lead_comparison"
	PurposeLeadTrends      Purpose = "lead_trends"
	PurposeConnectionTest  Purpose = "connection_test"
)

// String returns the string representation of the purpose
func (p Purpose) String() string {
	return string(p)
}

// ScriptType is the kind of sales script requested
type ScriptType string

const (
	ScriptFirstContact      ScriptType = "first_contact"
	ScriptFollowUp          ScriptType = "follow_up"
	ScriptPresentation      ScriptType = "presentation"
	ScriptClosing           ScriptType = "closing"
	ScriptObjectionHandling ScriptType = "objection_handling"
)

// IsValid checks if the script type is supported
func (s ScriptType) IsValid() bool {
	switch s {
	case ScriptFirstContact, ScriptFollowUp, ScriptPresentation, ScriptClosing, ScriptObjectionHandling:
		return true
	default:
		return false
	}
}

// AdviceType is the kind of marketing advice requested
type AdviceType string

const (
	AdviceCampaignOptimization  AdviceType = "campaign_optimization"
	AdviceLeadGeneration        AdviceType = "lead_generation"
	AdviceConversionImprovement AdviceType = "conversion_improvement"
	AdviceBudgetAllocation      AdviceType = "budget_allocation"
)

// IsValid checks if the advice type is supported
func (a AdviceType) IsValid() bool {
	switch a {
	case AdviceCampaignOptimization, AdviceLeadGeneration, AdviceConversionImprovement, AdviceBudgetAllocation:
		return true
	default:
		return false
	}
}
