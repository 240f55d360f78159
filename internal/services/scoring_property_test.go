package services

import (
	"testing"

	"github.com/checkfox/leadintel/internal/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genLead() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "Anna", " Luca "),
		gen.OneConstOf("", "Verdi"),
		gen.OneConstOf("", "anna@example.com", "  LUCA@EXAMPLE.COM "),
		gen.OneConstOf("", "+39 02 1234", "(555) 010-0100"),
		gen.OneConstOf("", "Verdi SpA"),
		gen.OneConstOf("", "retail"),
		gen.OneConstOf("", "https://verdi.example"),
		gen.Float64Range(-1000, 50000),
		gen.OneConstOf("", "referral", "Cold Call", "event", "billboard"),
		gen.OneConstOf("", "urgente", "next week", "in a month", "just browsing"),
	).Map(func(values []interface{}) *models.LeadSnapshot {
		return &models.LeadSnapshot{
			FirstName: values[0].(string),
			LastName:  values[1].(string),
			Email:     values[2].(string),
			Phone:     values[3].(string),
			Company:   values[4].(string),
			Industry:  values[5].(string),
			Website:   values[6].(string),
			Budget:    values[7].(float64),
			Source:    values[8].(string),
			Notes:     values[9].(string),
		}
	})
}

// Property: scores stay within bounds and the category always matches the thresholds
func TestProperty_ScoreBoundsAndCategory(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	scorer := NewDefaultScorer()

	properties.Property("score is within [0,100] and factors are within [0,100]", prop.ForAll(
		func(lead *models.LeadSnapshot) bool {
			result := scorer.Score(lead)
			if result.Score < 0 || result.Score > 100 {
				return false
			}
			b := result.Breakdown
			for _, f := range []int{b.ContactCompleteness, b.CompanyCompleteness, b.BudgetIndication,
				b.TimelineUrgency, b.SourceQuality, b.InteractionHistory} {
				if f < 0 || f > 100 {
					return false
				}
			}
			return true
		},
		genLead(),
	))

	properties.Property("category follows the thresholds", prop.ForAll(
		func(lead *models.LeadSnapshot) bool {
			result := scorer.Score(lead)
			switch {
			case result.Score >= DefaultHotThreshold:
				return result.Category == models.QualityHot
			case result.Score >= DefaultWarmThreshold:
				return result.Category == models.QualityWarm
			default:
				return result.Category == models.QualityCold
			}
		},
		genLead(),
	))

	properties.TestingRun(t)
}

// Property: scoring is a pure function of the snapshot
func TestProperty_ScoreDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("two scorers agree on every lead", prop.ForAll(
		func(lead *models.LeadSnapshot) bool {
			first := NewDefaultScorer().Score(lead)
			second := NewDefaultScorer().Score(lead)
			return first == second
		},
		genLead(),
	))

	properties.TestingRun(t)
}

// Property: filling in information never lowers the score
func TestProperty_ScoreMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	scorer := NewDefaultScorer()

	properties.Property("raising the budget never lowers the score", prop.ForAll(
		func(lead *models.LeadSnapshot, extra float64) bool {
			richer := *lead
			richer.Budget = lead.Budget + extra
			return scorer.Score(&richer).Score >= scorer.Score(lead).Score
		},
		genLead(),
		gen.Float64Range(0, 20000),
	))

	properties.Property("adding a phone never lowers the score", prop.ForAll(
		func(lead *models.LeadSnapshot) bool {
			withPhone := *lead
			withPhone.Phone = "0212345678"
			return scorer.Score(&withPhone).Score >= scorer.Score(lead).Score
		},
		genLead(),
	))

	properties.TestingRun(t)
}
