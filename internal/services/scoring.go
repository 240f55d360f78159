package services

import (
	"math"
	"strings"

	"github.com/checkfox/leadintel/internal/models"
)

// Factor weights; they sum to 1.0
const (
	WeightContactCompleteness = 0.20
	WeightCompanyCompleteness = 0.15
	WeightBudgetIndication    = 0.25
	WeightTimelineUrgency     = 0.15
	WeightSourceQuality       = 0.10
	WeightInteractionHistory  = 0.15
)

// InteractionHistoryBaseline is the fixed interaction factor. Contact history
// is not yet modeled, so every lead gets the same value here.
const InteractionHistoryBaseline = 70

// Default category thresholds
const (
	DefaultHotThreshold  = 80
	DefaultWarmThreshold = 60
)

// Recommendation texts, appended in this order by Recommendations
const (
	RecCollectPhone      = "Collect a phone number to enable direct contact"
	RecIdentifyCompany   = "Identify the lead's company and decision-making role"
	RecQualifyBudget     = "Qualify the available budget in the next conversation"
	RecNurture           = "Enroll the lead in a nurturing sequence with educational content"
	RecFollowUpCadence   = "Schedule a structured follow-up cadence over the next two weeks"
	RecProposeCommercial = "Prepare and send a commercial proposal"
	RecScriptedApproach  = "Use a scripted approach for the next cold call"
)

var (
	urgencyKeywords = []string{
		"urgent", "urgente", "urgenza", "subito", "asap", "immediately",
		"immediato", "immediatamente", "as soon as possible", "prima possibile",
	}
	shortTermKeywords = []string{"week", "settimana", "settimane", "day", "giorno", "giorni"}
	monthKeywords     = []string{"month", "mese", "mesi"}

	premiumSources  = map[string]bool{"referral": true, "website": true, "linkedin": true}
	standardSources = map[string]bool{"email": true, "social": true, "event": true}
)

// Scorer computes deterministic quality scores for leads
type Scorer struct {
	normalizer    *Normalizer
	hotThreshold  int
	warmThreshold int
}

// NewScorer creates a Scorer; thresholds are swapped if given out of order
func NewScorer(hotThreshold, warmThreshold int) *Scorer {
	if hotThreshold < warmThreshold {
		hotThreshold, warmThreshold = warmThreshold, hotThreshold
	}
	return &Scorer{
		normalizer:    NewNormalizer(),
		hotThreshold:  hotThreshold,
		warmThreshold: warmThreshold,
	}
}

// NewDefaultScorer creates a Scorer with the 80/60 thresholds
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultHotThreshold, DefaultWarmThreshold)
}

// Score computes the quality score, category and per-factor breakdown.
// It never fails: missing fields score 0 for their factor.
func (s *Scorer) Score(lead *models.LeadSnapshot) models.LeadScore {
	normalized := s.normalizer.NormalizeLead(lead)

	breakdown := models.ScoreBreakdown{
		ContactCompleteness: contactCompleteness(normalized),
		CompanyCompleteness: companyCompleteness(normalized),
		BudgetIndication:    BudgetFactor(normalized.Budget),
		TimelineUrgency:     TimelineFactor(normalized.Notes),
		SourceQuality:       SourceFactor(normalized.Source),
		InteractionHistory:  InteractionHistoryBaseline,
	}

	score := Aggregate(breakdown)
	return models.LeadScore{
		Score:     score,
		Category:  s.Categorize(score),
		Breakdown: breakdown,
	}
}

// Aggregate rounds the weighted sum of a breakdown and clamps it to [0,100]
func Aggregate(b models.ScoreBreakdown) int {
	total := WeightContactCompleteness*float64(clampFactor(b.ContactCompleteness)) +
		WeightCompanyCompleteness*float64(clampFactor(b.CompanyCompleteness)) +
		WeightBudgetIndication*float64(clampFactor(b.BudgetIndication)) +
		WeightTimelineUrgency*float64(clampFactor(b.TimelineUrgency)) +
		WeightSourceQuality*float64(clampFactor(b.SourceQuality)) +
		WeightInteractionHistory*float64(clampFactor(b.InteractionHistory))

	return clampFactor(int(math.Round(total)))
}

// Categorize maps a score onto Hot, Warm or Cold
func (s *Scorer) Categorize(score int) models.QualityCategory {
	switch {
	case score >= s.hotThreshold:
		return models.QualityHot
	case score >= s.warmThreshold:
		return models.QualityWarm
	default:
		return models.QualityCold
	}
}

// Recommendations returns the rule-based next steps for a scored lead.
// Order is fixed and duplicates are kept.
func (s *Scorer) Recommendations(lead *models.LeadSnapshot, score models.LeadScore) []string {
	normalized := s.normalizer.NormalizeLead(lead)
	recs := make([]string, 0, 5)

	if normalized.Phone == "" {
		recs = append(recs, RecCollectPhone)
	}
	if normalized.Company == "" {
		recs = append(recs, RecIdentifyCompany)
	}
	if normalized.Budget <= 0 {
		recs = append(recs, RecQualifyBudget)
	}

	switch {
	case score.Score < 40:
		recs = append(recs, RecNurture)
	case score.Score < 70:
		recs = append(recs, RecFollowUpCadence)
	default:
		recs = append(recs, RecProposeCommercial)
	}

	if normalized.Source == "cold_call" {
		recs = append(recs, RecScriptedApproach)
	}

	return recs
}

func contactCompleteness(lead *models.LeadSnapshot) int {
	points := 0
	for _, field := range []string{lead.FirstName, lead.LastName, lead.Email, lead.Phone} {
		if field != "" {
			points += 25
		}
	}
	return points
}

func companyCompleteness(lead *models.LeadSnapshot) int {
	present := 0
	for _, field := range []string{lead.Company, lead.Industry, lead.Website} {
		if field != "" {
			present++
		}
	}
	return int(math.Round(float64(present) * 100 / 3))
}

// BudgetFactor scores the declared budget
func BudgetFactor(budget float64) int {
	switch {
	case budget > 10000:
		return 100
	case budget > 5000:
		return 80
	case budget > 1000:
		return 60
	case budget > 0:
		return 40
	default:
		return 0
	}
}

// TimelineFactor scores urgency signals found in free-text notes
func TimelineFactor(notes string) int {
	text := strings.ToLower(notes)
	switch {
	case containsAny(text, urgencyKeywords):
		return 100
	case containsAny(text, shortTermKeywords):
		return 67
	case containsAny(text, monthKeywords):
		return 33
	default:
		return 0
	}
}

// SourceFactor scores a normalized lead source
func SourceFactor(source string) int {
	switch {
	case source == "":
		return 0
	case premiumSources[source]:
		return 100
	case standardSources[source]:
		return 70
	default:
		return 50
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clampFactor(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
