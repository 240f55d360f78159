package insights

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/prompts"
	"github.com/checkfox/leadintel/internal/repository"
	"github.com/checkfox/leadintel/internal/services"
)

const unknownSource = "unknown"

// LeadTrends scores the leads created in the last periodDays days and
// describes how their quality is distributed
func (s *Service) LeadTrends(ctx context.Context, periodDays int) (result *models.TrendResult, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "lead_trends", start, err) }()

	if err := s.validator.ValidatePeriodDays(periodDays); err != nil {
		return nil, err
	}

	leads, err := s.reader.ListLeadsSince(ctx, s.since(periodDays), repository.DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	distribution := newDistribution()
	sourceTotals := make(map[string]int)
	sourceCounts := make(map[string]int)
	total := 0
	for _, lead := range leads {
		score := s.scorer.Score(lead)
		distribution[score.Category]++
		total += score.Score

		source := s.normalizer.NormalizeSource(lead.Source)
		if source == "" {
			source = unknownSource
		}
		sourceTotals[source] += score.Score
		sourceCounts[source]++
	}

	average := 0.0
	if len(leads) > 0 {
		average = services.RoundTo(float64(total)/float64(len(leads)), 1)
	}
	sourceAverages := make(map[string]float64, len(sourceTotals))
	for source, sum := range sourceTotals {
		sourceAverages[source] = services.RoundTo(float64(sum)/float64(sourceCounts[source]), 1)
	}

	slots := map[string]string{
		prompts.SlotPeriodDays: strconv.Itoa(periodDays),
		prompts.SlotTrendData: s.mapper.Aggregate(len(leads), average, distribution, map[string]interface{}{
			"source_average_scores": sourceAverages,
			"source_counts":         sourceCounts,
		}),
	}

	n, err := s.engine.generate(ctx, models.PurposeLeadTrends, slots, func() string {
		return offlineTrends(periodDays, len(leads), average, distribution, sourceAverages)
	})
	if err != nil {
		return nil, err
	}

	return &models.TrendResult{
		PeriodDays:           periodDays,
		Count:                len(leads),
		AverageScore:         average,
		CategoryDistribution: distribution,
		SourceAverages:       sourceAverages,
		Narrative:            n.Text,
		Metadata:             s.engine.metadata(models.PurposeLeadTrends, n),
	}, nil
}
