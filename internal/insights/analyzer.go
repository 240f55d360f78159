package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/prompts"
	"github.com/checkfox/leadintel/internal/services"
)

// AnalyzeLead scores a lead and produces a narrative analysis. Score,
// category, breakdown and recommendations are always present, whether the
// narrative comes from the completion service or the offline fallback.
func (s *Service) AnalyzeLead(ctx context.Context, leadID int64) (result *models.InsightResult, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "analyze_lead", start, err) }()

	if err := s.validator.ValidateLeadID(leadID); err != nil {
		return nil, err
	}
	return s.analyze(ctx, leadID)
}

func (s *Service) analyze(ctx context.Context, leadID int64) (*models.InsightResult, error) {
	ctx = context.WithValue(ctx, logger.LeadIDKey, leadID)

	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	score := s.scorer.Score(lead)
	recs := s.scorer.Recommendations(lead, score)

	slots := map[string]string{
		prompts.SlotLeadData:         s.mapper.LeadData(lead, score),
		prompts.SlotContactHistory:   s.mapper.ContactHistory(s.contactHistory(ctx, leadID)),
		prompts.SlotRecentActivities: s.mapper.RecentActivities(s.recentActivities(ctx, leadID)),
	}

	n, err := s.engine.generate(ctx, models.PurposeLeadAnalysis, slots, func() string {
		return offlineLeadAnalysis(lead, score, recs)
	})
	if err != nil {
		return nil, err
	}

	return &models.InsightResult{
		Lead:            models.NewLeadIdentity(lead),
		Score:           score.Score,
		Category:        score.Category,
		Breakdown:       score.Breakdown,
		Narrative:       n.Text,
		Recommendations: recs,
		Metadata:        s.engine.metadata(models.PurposeLeadAnalysis, n),
	}, nil
}

func (s *Service) loadLead(ctx context.Context, leadID int64) (*models.LeadSnapshot, error) {
	lead, err := s.reader.GetLeadByID(ctx, leadID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load lead %d: %w", leadID, err)
	}
	return lead, nil
}

// contactHistory degrades to an empty list; the lead itself is what matters
func (s *Service) contactHistory(ctx context.Context, leadID int64) []*models.ContactRecord {
	records, err := s.reader.GetContactHistory(ctx, leadID, services.MaxHistoryItems)
	if err != nil {
		logger.Warn(ctx, "Failed to load contact history", "error", err.Error())
		return nil
	}
	return records
}

func (s *Service) recentActivities(ctx context.Context, leadID int64) []*models.ActivityRecord {
	records, err := s.reader.GetRecentActivities(ctx, leadID, services.MaxHistoryItems)
	if err != nil {
		logger.Warn(ctx, "Failed to load recent activities", "error", err.Error())
		return nil
	}
	return records
}
