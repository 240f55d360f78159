package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/services"
)

// The offline narratives below are built only from data already in hand, so
// they are stable for identical inputs.

func offlineLeadAnalysis(lead *models.LeadSnapshot, score models.LeadScore, recs []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Lead %s scored %d/100 and is classified as %s.\n\n", lead.DisplayName(), score.Score, score.Category)

	sb.WriteString("Score breakdown:\n")
	b := score.Breakdown
	fmt.Fprintf(&sb, "- Contact completeness: %d\n", b.ContactCompleteness)
	fmt.Fprintf(&sb, "- Company completeness: %d\n", b.CompanyCompleteness)
	fmt.Fprintf(&sb, "- Budget indication: %d\n", b.BudgetIndication)
	fmt.Fprintf(&sb, "- Timeline urgency: %d\n", b.TimelineUrgency)
	fmt.Fprintf(&sb, "- Source quality: %d\n", b.SourceQuality)
	fmt.Fprintf(&sb, "- Interaction history: %d\n\n", b.InteractionHistory)

	switch score.Category {
	case models.QualityHot:
		sb.WriteString("Contact the lead within 24 hours: confirm the need, agree on timing and send a commercial proposal.\n")
	case models.QualityWarm:
		sb.WriteString("Contact the lead within 48 hours: qualify budget and timeline, then plan a structured follow-up.\n")
	default:
		sb.WriteString("Contact the lead within 48 hours to complete the missing information, then move it to a nurturing sequence.\n")
	}

	if len(recs) > 0 {
		sb.WriteString("\nNext steps:\n")
		for i, rec := range recs {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
		}
	}
	return strings.TrimSpace(sb.String())
}

func offlineAdvice(adviceType models.AdviceType, periodDays int, snapshot *models.MarketingSnapshot, recs []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s advice for the last %d days.\n\n", adviceTitle(adviceType), periodDays)
	fmt.Fprintf(&sb, "Leads acquired: %d, converted: %d (%.1f%%).\n",
		snapshot.TotalLeads, snapshot.ConvertedLeads, services.RoundTo(snapshot.ConversionRate(), 1))
	if snapshot.AverageBudget > 0 {
		fmt.Fprintf(&sb, "Average declared budget: %.2f.\n", snapshot.AverageBudget)
	}
	if source, count := snapshot.TopSource(); count > 0 {
		fmt.Fprintf(&sb, "Top source: %s with %d leads.\n", source, count)
	}

	sb.WriteString("\nRecommendations:\n")
	for i, rec := range recs {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
	}
	return strings.TrimSpace(sb.String())
}

func offlineScript(lead *models.LeadSnapshot, scriptType models.ScriptType, score models.LeadScore, extra string) string {
	name := lead.FullName()
	if name == "" {
		name = "there"
	}
	company := lead.Company
	if company == "" {
		company = "your company"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s script (lead score %d/100, %s)\n\n", scriptTitle(scriptType), score.Score, score.Category)

	switch scriptType {
	case models.ScriptFirstContact:
		fmt.Fprintf(&sb, "Opening: Hello %s, I'm reaching out because companies like %s often look for ways to grow their pipeline.\n", name, company)
		sb.WriteString("Discovery: What are your main priorities this quarter? How do you handle them today?\n")
		sb.WriteString("Value: We help teams like yours save time and focus on the leads that matter.\n")
		sb.WriteString("Close: Would a 20 minute call this week work for you?\n")
	case models.ScriptFollowUp:
		fmt.Fprintf(&sb, "Opening: Hello %s, I'm following up on our last conversation.\n", name)
		sb.WriteString("Discovery: Have your priorities changed since we spoke? Did you have time to review the material?\n")
		sb.WriteString("Value: Based on what you shared, here is how we can address your needs.\n")
		sb.WriteString("Close: Shall we schedule the next step together?\n")
	case models.ScriptPresentation:
		fmt.Fprintf(&sb, "Opening: Thank you %s for your time today. I'd like to show how we can help %s.\n", name, company)
		sb.WriteString("Discovery: Let me confirm the goals you shared with us.\n")
		sb.WriteString("Value: Here are the three capabilities most relevant to those goals.\n")
		sb.WriteString("Close: Which of these would make the biggest difference for your team?\n")
	case models.ScriptClosing:
		fmt.Fprintf(&sb, "Opening: Hello %s, I wanted to review the proposal with you.\n", name)
		sb.WriteString("Discovery: Is there anything still open before you can decide?\n")
		sb.WriteString("Value: Starting now means results before the end of the period.\n")
		sb.WriteString("Close: Can we agree on the start date today?\n")
	case models.ScriptObjectionHandling:
		fmt.Fprintf(&sb, "Opening: I understand your concern, %s, and it's a common one.\n", name)
		sb.WriteString("Discovery: Can you tell me more about what worries you most?\n")
		sb.WriteString("Value: Other customers had the same doubt and here is what they found.\n")
		sb.WriteString("Close: If we address this point, would you be comfortable moving forward?\n")
	}

	if extra = strings.TrimSpace(extra); extra != "" {
		fmt.Fprintf(&sb, "\nContext to keep in mind: %s\n", extra)
	}
	return strings.TrimSpace(sb.String())
}

func offlineComparison(results []*models.InsightResult, average float64, distribution map[models.QualityCategory]int, best *models.InsightResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Compared %d leads with an average score of %.1f/100.\n", len(results), average)
	fmt.Fprintf(&sb, "Distribution: %d Hot, %d Warm, %d Cold.\n\n",
		distribution[models.QualityHot], distribution[models.QualityWarm], distribution[models.QualityCold])

	sb.WriteString("Ranking:\n")
	for i, r := range rankByScore(results) {
		fmt.Fprintf(&sb, "%d. %s: %d (%s)\n", i+1, leadLabel(r.Lead), r.Score, r.Category)
	}

	if best != nil {
		fmt.Fprintf(&sb, "\nContact %s first: it has the highest score in the set.\n", leadLabel(best.Lead))
	}
	return strings.TrimSpace(sb.String())
}

func offlineTrends(periodDays, count int, average float64, distribution map[models.QualityCategory]int, sourceAverages map[string]float64) string {
	if count == 0 {
		return fmt.Sprintf("No leads were created in the last %d days, so no quality trend can be computed.", periodDays)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d leads were created in the last %d days with an average score of %.1f/100.\n", count, periodDays, average)
	fmt.Fprintf(&sb, "Distribution: %d Hot, %d Warm, %d Cold.\n",
		distribution[models.QualityHot], distribution[models.QualityWarm], distribution[models.QualityCold])

	sources := make([]string, 0, len(sourceAverages))
	for source := range sourceAverages {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sourceAverages[sources[i]] != sourceAverages[sources[j]] {
			return sourceAverages[sources[i]] > sourceAverages[sources[j]]
		}
		return sources[i] < sources[j]
	})

	if len(sources) > 0 {
		sb.WriteString("\nAverage score by source:\n")
		for _, source := range sources {
			fmt.Fprintf(&sb, "- %s: %.1f\n", source, sourceAverages[source])
		}
		fmt.Fprintf(&sb, "\nThe best leads come from %s; consider shifting effort toward it.\n", sources[0])
	}
	return strings.TrimSpace(sb.String())
}

// rankByScore orders results by score, keeping input order on ties
func rankByScore(results []*models.InsightResult) []*models.InsightResult {
	ranked := append([]*models.InsightResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func leadLabel(identity models.LeadIdentity) string {
	if identity.Name == "" {
		return fmt.Sprintf("Lead #%d", identity.ID)
	}
	if identity.Company != "" {
		return fmt.Sprintf("%s (%s)", identity.Name, identity.Company)
	}
	return identity.Name
}

func adviceTitle(adviceType models.AdviceType) string {
	switch adviceType {
	case models.AdviceCampaignOptimization:
		return "Campaign optimization"
	case models.AdviceLeadGeneration:
		return "Lead generation"
	case models.AdviceConversionImprovement:
		return "Conversion improvement"
	case models.AdviceBudgetAllocation:
		return "Budget allocation"
	default:
		return "Marketing"
	}
}

func scriptTitle(scriptType models.ScriptType) string {
	switch scriptType {
	case models.ScriptFirstContact:
		return "First contact"
	case models.ScriptFollowUp:
		return "Follow-up"
	case models.ScriptPresentation:
		return "Presentation"
	case models.ScriptClosing:
		return "Closing"
	case models.ScriptObjectionHandling:
		return "Objection handling"
	default:
		return "Sales"
	}
}
