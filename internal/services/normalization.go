package services

import (
	"regexp"
	"strings"

	"github.com/checkfox/leadintel/internal/models"
)

// Normalizer provides data normalization functionality
type Normalizer struct {
	phonePattern      *regexp.Regexp
	whitespacePattern *regexp.Regexp
	separatorPattern  *regexp.Regexp
}

// NewNormalizer creates a new Normalizer instance
func NewNormalizer() *Normalizer {
	return &Normalizer{
		phonePattern:      regexp.MustCompile(`\d+`),
		whitespacePattern: regexp.MustCompile(`\s+`),
		separatorPattern:  regexp.MustCompile(`[\s\-]+`),
	}
}

// NormalizeLead returns a normalized copy of the snapshot; the input is never mutated
func (n *Normalizer) NormalizeLead(lead *models.LeadSnapshot) *models.LeadSnapshot {
	if lead == nil {
		return &models.LeadSnapshot{}
	}

	normalized := *lead
	normalized.FirstName = n.NormalizeString(lead.FirstName)
	normalized.LastName = n.NormalizeString(lead.LastName)
	normalized.Company = n.NormalizeString(lead.Company)
	normalized.Email = n.NormalizeEmail(lead.Email)
	normalized.Phone = n.NormalizePhone(lead.Phone)
	normalized.Website = n.TrimString(lead.Website)
	normalized.Industry = n.NormalizeString(lead.Industry)
	normalized.Source = n.NormalizeSource(lead.Source)
	normalized.Notes = n.NormalizeString(lead.Notes)

	return &normalized
}

// NormalizeString trims and collapses internal whitespace
func (n *Normalizer) NormalizeString(s string) string {
	s = strings.TrimSpace(s)
	return n.whitespacePattern.ReplaceAllString(s, " ")
}

// NormalizeEmail converts to lowercase and trims whitespace
func (n *Normalizer) NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps only the digits of a phone number
func (n *Normalizer) NormalizePhone(phone string) string {
	digits := n.phonePattern.FindAllString(phone, -1)
	return strings.Join(digits, "")
}

// NormalizeSource lowercases a lead source and joins words with underscores,
// so "Cold Call" and "cold-call" both become "cold_call"
func (n *Normalizer) NormalizeSource(source string) string {
	source = strings.ToLower(strings.TrimSpace(source))
	return n.separatorPattern.ReplaceAllString(source, "_")
}

// TrimString trims whitespace from a string
func (n *Normalizer) TrimString(s string) string {
	return strings.TrimSpace(s)
}
