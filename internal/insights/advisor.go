package insights

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/prompts"
)

// lowConversionRate is the percentage below which qualification is flagged
const lowConversionRate = 10.0

// GetAdvice produces marketing advice over the last periodDays days
func (s *Service) GetAdvice(ctx context.Context, adviceType string, periodDays int) (result *models.AdviceResult, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "get_advice", start, err) }()

	kind, err := s.validator.ValidateAdviceType(adviceType)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePeriodDays(periodDays); err != nil {
		return nil, err
	}

	snapshot, err := s.reader.GetMarketingSnapshot(ctx, s.since(periodDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load marketing snapshot: %w", err)
	}
	recs := adviceRecommendations(kind, snapshot)

	slots := map[string]string{
		prompts.SlotAdviceType:    string(kind),
		prompts.SlotPeriodDays:    strconv.Itoa(periodDays),
		prompts.SlotMarketingData: s.mapper.MarketingData(snapshot),
	}

	n, err := s.engine.generate(ctx, models.PurposeMarketingAdvice, slots, func() string {
		return offlineAdvice(kind, periodDays, snapshot, recs)
	})
	if err != nil {
		return nil, err
	}

	return &models.AdviceResult{
		AdviceType:      kind,
		PeriodDays:      periodDays,
		Snapshot:        *snapshot,
		Narrative:       n.Text,
		Recommendations: recs,
		Metadata:        s.engine.metadata(models.PurposeMarketingAdvice, n),
	}, nil
}

// adviceRecommendations derives rule-based actions from the snapshot
func adviceRecommendations(kind models.AdviceType, snapshot *models.MarketingSnapshot) []string {
	if snapshot.TotalLeads == 0 {
		return []string{"Launch a lead generation campaign: no leads were acquired in the period"}
	}

	recs := make([]string, 0, 4)
	if snapshot.ConversionRate() < lowConversionRate {
		recs = append(recs, fmt.Sprintf("Review lead qualification: conversion is below %.0f%%", lowConversionRate))
	}
	if source, count := snapshot.TopSource(); count > 0 && source != "unknown" {
		recs = append(recs, fmt.Sprintf("Increase investment in %s, the channel bringing the most leads", source))
	}
	if snapshot.BySource["unknown"] > 0 {
		recs = append(recs, "Track the source of every lead to measure channel performance")
	}

	switch kind {
	case models.AdviceCampaignOptimization:
		recs = append(recs, "A/B test the message and landing page of the main campaign")
	case models.AdviceLeadGeneration:
		recs = append(recs, "Add a referral program to bring in higher quality leads")
	case models.AdviceConversionImprovement:
		recs = append(recs, "Follow up every new lead within 24 hours")
	case models.AdviceBudgetAllocation:
		recs = append(recs, "Move budget from low performing channels to the top source")
	}
	return recs
}
