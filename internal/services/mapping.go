package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/checkfox/leadintel/internal/models"
)

// MaxHistoryItems bounds the contact and activity lists passed to prompts
const MaxHistoryItems = 10

const (
	noContactHistory = "No previous contacts recorded."
	noActivities     = "No recent activities recorded."
)

// Mapper turns collaborator records into serialized prompt slot values
type Mapper struct{}

// NewMapper creates a new Mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

type leadPayload struct {
	Name       string                 `json:"name"`
	Company    string                 `json:"company"`
	Email      string                 `json:"email"`
	Phone      string                 `json:"phone"`
	Website    string                 `json:"website"`
	Industry   string                 `json:"industry"`
	Source     string                 `json:"source"`
	Budget     float64                `json:"budget"`
	Notes      string                 `json:"notes"`
	Status     string                 `json:"status"`
	Priority   string                 `json:"priority"`
	AssignedTo string                 `json:"assigned_to"`
	Score      int                    `json:"quality_score"`
	Category   models.QualityCategory `json:"quality_category"`
	Breakdown  models.ScoreBreakdown  `json:"score_breakdown"`
}

// LeadData serializes a lead together with its computed score
func (m *Mapper) LeadData(lead *models.LeadSnapshot, score models.LeadScore) string {
	return toJSON(leadPayload{
		Name:       lead.FullName(),
		Company:    lead.Company,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Website:    lead.Website,
		Industry:   lead.Industry,
		Source:     lead.Source,
		Budget:     lead.Budget,
		Notes:      lead.Notes,
		Status:     lead.Status,
		Priority:   lead.Priority,
		AssignedTo: lead.AssignedTo,
		Score:      score.Score,
		Category:   score.Category,
		Breakdown:  score.Breakdown,
	})
}

// ContactHistory serializes at most MaxHistoryItems contacts, most recent first
func (m *Mapper) ContactHistory(records []*models.ContactRecord) string {
	if len(records) == 0 {
		return noContactHistory
	}
	if len(records) > MaxHistoryItems {
		records = records[:MaxHistoryItems]
	}

	items := make([]map[string]string, 0, len(records))
	for _, r := range records {
		items = append(items, map[string]string{
			"date":    r.ContactedAt.UTC().Format(time.DateOnly),
			"type":    r.ContactType,
			"outcome": r.Outcome,
			"notes":   r.Notes,
		})
	}
	return toJSON(items)
}

// RecentActivities serializes at most MaxHistoryItems activities, most recent first
func (m *Mapper) RecentActivities(records []*models.ActivityRecord) string {
	if len(records) == 0 {
		return noActivities
	}
	if len(records) > MaxHistoryItems {
		records = records[:MaxHistoryItems]
	}

	items := make([]map[string]string, 0, len(records))
	for _, r := range records {
		items = append(items, map[string]string{
			"date":        r.CreatedAt.UTC().Format(time.DateOnly),
			"type":        r.ActivityType,
			"description": r.Description,
		})
	}
	return toJSON(items)
}

// MarketingData serializes a marketing snapshot with derived rates
func (m *Mapper) MarketingData(snapshot *models.MarketingSnapshot) string {
	topSource, topCount := snapshot.TopSource()
	return toJSON(map[string]interface{}{
		"total_leads":         snapshot.TotalLeads,
		"converted_leads":     snapshot.ConvertedLeads,
		"conversion_rate_pct": RoundTo(snapshot.ConversionRate(), 1),
		"average_budget":      RoundTo(snapshot.AverageBudget, 2),
		"leads_by_source":     snapshot.BySource,
		"leads_by_status":     snapshot.ByStatus,
		"leads_by_industry":   snapshot.ByIndustry,
		"top_source":          topSource,
		"top_source_leads":    topCount,
	})
}

// ComparisonSummary serializes the per-lead rows of a comparison
func (m *Mapper) ComparisonSummary(results []*models.InsightResult) string {
	rows := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		rows = append(rows, map[string]interface{}{
			"id":        r.Lead.ID,
			"name":      r.Lead.Name,
			"company":   r.Lead.Company,
			"score":     r.Score,
			"category":  r.Category,
			"breakdown": r.Breakdown,
		})
	}
	return toJSON(rows)
}

// Aggregate serializes comparison or trend aggregates
func (m *Mapper) Aggregate(count int, average float64, distribution map[models.QualityCategory]int, extra map[string]interface{}) string {
	payload := map[string]interface{}{
		"count":                 count,
		"average_score":         RoundTo(average, 1),
		"category_distribution": distribution,
	}
	for k, v := range extra {
		payload[k] = v
	}
	return toJSON(payload)
}

// toJSON renders v as indented JSON; map keys come out sorted
func toJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
