package insights

import (
	"context"
	"time"

	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/prompts"
	"github.com/checkfox/leadintel/internal/services"
	"golang.org/x/sync/errgroup"
)

// CompareLeads analyzes every lead, then describes the set as a whole.
// Results keep the order of ids; the best lead is the highest score, the
// earliest one on ties.
func (s *Service) CompareLeads(ctx context.Context, ids []int64) (result *models.ComparisonResult, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "compare_leads", start, err) }()

	if err := s.validator.ValidateComparison(ids); err != nil {
		return nil, err
	}

	results := make([]*models.InsightResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.compareConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			r, err := s.analyze(gctx, id)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	distribution := newDistribution()
	total := 0
	var best *models.InsightResult
	for _, r := range results {
		distribution[r.Category]++
		total += r.Score
		if best == nil || r.Score > best.Score {
			best = r
		}
	}
	average := services.RoundTo(float64(total)/float64(len(results)), 1)

	slots := map[string]string{
		prompts.SlotLeadsSummary: s.mapper.ComparisonSummary(results),
		prompts.SlotAggregate: s.mapper.Aggregate(len(results), average, distribution, map[string]interface{}{
			"best_lead_id": best.Lead.ID,
		}),
	}

	n, err := s.engine.generate(ctx, models.PurposeLeadComparison, slots, func() string {
		return offlineComparison(results, average, distribution, best)
	})
	if err != nil {
		return nil, err
	}

	return &models.ComparisonResult{
		Leads:                results,
		Count:                len(results),
		AverageScore:         average,
		CategoryDistribution: distribution,
		BestLeadID:           best.Lead.ID,
		Narrative:            n.Text,
		Metadata:             s.engine.metadata(models.PurposeLeadComparison, n),
	}, nil
}

func newDistribution() map[models.QualityCategory]int {
	distribution := make(map[models.QualityCategory]int, 3)
	for _, c := range models.QualityCategories() {
		distribution[c] = 0
	}
	return distribution
}
