package insights

import (
	"context"
	"strings"
	"time"

	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/prompts"
)

const noExtraContext = "No additional context provided."

// GenerateScript writes a sales script of the given type for a lead
func (s *Service) GenerateScript(ctx context.Context, leadID int64, scriptType string, extraContext string) (result *models.ScriptResult, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "generate_script", start, err) }()

	kind, err := s.validator.ValidateScriptType(scriptType)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateLeadID(leadID); err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, logger.LeadIDKey, leadID)
	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	score := s.scorer.Score(lead)

	contextSlot := strings.TrimSpace(extraContext)
	if contextSlot == "" {
		contextSlot = noExtraContext
	}
	slots := map[string]string{
		prompts.SlotScriptType: string(kind),
		prompts.SlotLeadData:   s.mapper.LeadData(lead, score),
		prompts.SlotContext:    contextSlot,
	}

	n, err := s.engine.generate(ctx, models.PurposeSalesScript, slots, func() string {
		return offlineScript(lead, kind, score, extraContext)
	})
	if err != nil {
		return nil, err
	}

	return &models.ScriptResult{
		Lead:       models.NewLeadIdentity(lead),
		ScriptType: kind,
		Score:      score.Score,
		Category:   score.Category,
		Script:     n.Text,
		Metadata:   s.engine.metadata(models.PurposeSalesScript, n),
	}, nil
}
