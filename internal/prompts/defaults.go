package prompts

import "github.com/checkfox/leadintel/internal/models"

// Slot names shared by the default templates
const (
	SlotLeadData         = "lead_data"
	SlotContactHistory   = "contact_history"
	SlotRecentActivities = "recent_activities"
	SlotAdviceType       = "advice_type"
	SlotPeriodDays       = "period_days"
	SlotMarketingData    = "marketing_data"
	SlotScriptType       = "script_type"
	SlotContext          = "context"
	SlotLeadsSummary     = "leads_summary"
	SlotAggregate        = "aggregate"
	SlotTrendData        = "trend_data"
)

// DefaultSystem is used when a purpose has no preamble of its own
const DefaultSystem = `You are an experienced B2B sales and marketing analyst working inside a CRM.
Answer concisely, with concrete and actionable suggestions.`

const analystSystem = `You are an expert lead qualification analyst.

When analysing a lead:
1. Ground every statement in the data provided
2. Explain the main strengths and weaknesses of the lead
3. Suggest the next commercial actions in priority order
4. Keep the answer under 300 words`

const marketingSystem = `You are a senior marketing strategist for a small B2B sales team.
Base your advice on the figures provided and quantify the expected impact when possible.`

const salesSystem = `You are a sales coach who writes natural, conversational call scripts.
Scripts must be short, adapted to the lead and ready to be read aloud.`

const leadAnalysisTemplate = `Analyse the following lead and its quality assessment.

Lead data:
{{.lead_data}}

Contact history (most recent first):
{{.contact_history}}

Recent activities:
{{.recent_activities}}

Please provide:
1. An overall assessment of the lead
2. The main buying signals and risks
3. The recommended next steps with timing`

const marketingAdviceTemplate = `Provide {{.advice_type}} advice based on the last {{.period_days}} days of lead acquisition.

Marketing data:
{{.marketing_data}}

Please provide:
1. Key observations about the period
2. Three prioritized actions
3. The metric to watch for each action`

const salesScriptTemplate = `Write a {{.script_type}} sales script for the lead below.

Lead data:
{{.lead_data}}

Additional context:
{{.context}}

Structure the script as opening, discovery questions, value proposition and close.`

const leadComparisonTemplate = `Compare the following leads and recommend where the sales team should focus.

Leads:
{{.leads_summary}}

Aggregate:
{{.aggregate}}

Please provide:
1. A ranking with a one-line rationale per lead
2. Common gaps across the set
3. The best lead to contact first and why`

const leadTrendsTemplate = `Describe the lead quality trends over the last {{.period_days}} days.

Trend data:
{{.trend_data}}

Please provide:
1. How lead quality is distributed
2. Which sources bring the best leads
3. Two actions to improve lead quality`

// Defaults returns the built-in templates
func Defaults() []Definition {
	return []Definition{
		{
			Purpose:  models.PurposeLeadAnalysis,
			System:   analystSystem,
			Template: leadAnalysisTemplate,
			Slots:    []string{SlotLeadData, SlotContactHistory, SlotRecentActivities},
		},
		{
			Purpose:  models.PurposeMarketingAdvice,
			System:   marketingSystem,
			Template: marketingAdviceTemplate,
			Slots:    []string{SlotAdviceType, SlotPeriodDays, SlotMarketingData},
		},
		{
			Purpose:  models.PurposeSalesScript,
			System:   salesSystem,
			Template: salesScriptTemplate,
			Slots:    []string{SlotScriptType, SlotLeadData, SlotContext},
		},
		{
			Purpose:  models.PurposeLeadComparison,
			System:   analystSystem,
			Template: leadComparisonTemplate,
			Slots:    []string{SlotLeadsSummary, SlotAggregate},
		},
		{
			Purpose:  models.PurposeLeadTrends,
			System:   marketingSystem,
			Template: leadTrendsTemplate,
			Slots:    []string{SlotPeriodDays, SlotTrendData},
		},
	}
}
