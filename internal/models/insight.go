package models

import "time"

// ScoreBreakdown holds one 0-100 sub-score per scoring factor
type ScoreBreakdown struct {
	ContactCompleteness int `json:"contact_completeness"`
	CompanyCompleteness int `json:"company_completeness"`
	BudgetIndication    int `json:"budget_indication"`
	TimelineUrgency     int `json:"timeline_urgency"`
	SourceQuality       int `json:"source_quality"`
	InteractionHistory  int `json:"interaction_history"`
}

// LeadScore is the output of the scoring engine for a single lead
type LeadScore struct {
	Score     int             `json:"score"`
	Category  QualityCategory `json:"category"`
	Breakdown ScoreBreakdown  `json:"breakdown"`
}

// LeadIdentity is the identity snippet embedded in results
type LeadIdentity struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// NewLeadIdentity extracts the identity snippet from a snapshot
func NewLeadIdentity(lead *LeadSnapshot) LeadIdentity {
	return LeadIdentity{
		ID:      lead.ID,
		Name:    lead.FullName(),
		Company: lead.Company,
		Email:   lead.Email,
		Phone:   lead.Phone,
	}
}

// ResultMetadata describes how a narrative was produced
type ResultMetadata struct {
	RequestID       string    `json:"request_id"`
	Purpose         Purpose   `json:"purpose"`
	GeneratedAt     time.Time `json:"generated_at"`
	ServedFromCache bool      `json:"served_from_cache"`
	Fallback        bool      `json:"fallback"`
	FallbackReason  string    `json:"fallback_reason,omitempty"`
}

// InsightResult is the outcome of a single lead analysis
type InsightResult struct {
	Lead            LeadIdentity    `json:"lead"`
	Score           int             `json:"score"`
	Category        QualityCategory `json:"category"`
	Breakdown       ScoreBreakdown  `json:"breakdown"`
	Narrative       string          `json:"narrative"`
	Recommendations []string        `json:"recommendations"`
	Metadata        ResultMetadata  `json:"metadata"`
}

// ComparisonResult aggregates several lead analyses
type ComparisonResult struct {
	Leads                []*InsightResult        `json:"leads"`
	Count                int                     `json:"count"`
	AverageScore         float64                 `json:"average_score"`
	CategoryDistribution map[QualityCategory]int `json:"category_distribution"`
	BestLeadID           int64                   `json:"best_lead_id"`
	Narrative            string                  `json:"narrative"`
	Metadata             ResultMetadata          `json:"metadata"`
}

// ScriptResult is a generated sales script for a lead
type ScriptResult struct {
	Lead       LeadIdentity    `json:"lead"`
	ScriptType ScriptType      `json:"script_type"`
	Score      int             `json:"score"`
	Category   QualityCategory `json:"category"`
	Script     string          `json:"script"`
	Metadata   ResultMetadata  `json:"metadata"`
}

// AdviceResult is marketing advice for a period
type AdviceResult struct {
	AdviceType      AdviceType        `json:"advice_type"`
	PeriodDays      int               `json:"period_days"`
	Snapshot        MarketingSnapshot `json:"snapshot"`
	Narrative       string            `json:"narrative"`
	Recommendations []string          `json:"recommendations"`
	Metadata        ResultMetadata    `json:"metadata"`
}

// TrendResult summarizes lead quality over a period
type TrendResult struct {
	PeriodDays           int                     `json:"period_days"`
	Count                int                     `json:"count"`
	AverageScore         float64                 `json:"average_score"`
	CategoryDistribution map[QualityCategory]int `json:"category_distribution"`
	SourceAverages       map[string]float64      `json:"source_averages"`
	Narrative            string                  `json:"narrative"`
	Metadata             ResultMetadata          `json:"metadata"`
}
