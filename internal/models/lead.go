package models

import (
	"fmt"
	"strings"
	"time"
)

// LeadSnapshot is a read-only view of a lead at analysis time
type LeadSnapshot struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`

	Industry string  `json:"industry"`
	Source   string  `json:"source"`
	Budget   float64 `json:"budget"`
	Notes    string  `json:"notes"`

	AssignedTo string `json:"assigned_to,omitempty"`
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Category   string `json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FullName joins first and last name, skipping empty parts
func (l *LeadSnapshot) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(l.FirstName) + " " + strings.TrimSpace(l.LastName))
}

// DisplayName returns a human readable label for the lead
func (l *LeadSnapshot) DisplayName() string {
	name := l.FullName()
	if name == "" {
		name = fmt.Sprintf("Lead #%d", l.ID)
	}
	if company := strings.TrimSpace(l.Company); company != "" {
		return fmt.Sprintf("%s (%s)", name, company)
	}
	return name
}

// ContactRecord is one entry of a lead's contact history
type ContactRecord struct {
	ID          int64     `json:"id"`
	LeadID      int64     `json:"lead_id"`
	ContactType string    `json:"contact_type"`
	Outcome     string    `json:"outcome,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	ContactedAt time.Time `json:"contacted_at"`
}

// ActivityRecord is one entry of a lead's recent activity feed
type ActivityRecord struct {
	ID           int64     `json:"id"`
	LeadID       int64     `json:"lead_id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MarketingSnapshot aggregates lead acquisition data over a period
type MarketingSnapshot struct {
	Since          time.Time      `json:"since"`
	TotalLeads     int            `json:"total_leads"`
	ConvertedLeads int            `json:"converted_leads"`
	AverageBudget  float64        `json:"average_budget"`
	BySource       map[string]int `json:"by_source"`
	ByStatus       map[string]int `json:"by_status"`
	ByIndustry     map[string]int `json:"by_industry"`
}

// ConversionRate returns converted/total as a percentage, 0 when empty
func (m *MarketingSnapshot) ConversionRate() float64 {
	if m.TotalLeads == 0 {
		return 0
	}
	return float64(m.ConvertedLeads) / float64(m.TotalLeads) * 100
}

// TopSource returns the source with the most leads; ties resolve alphabetically
func (m *MarketingSnapshot) TopSource() (string, int) {
	best, bestCount := "", 0
	for source, count := range m.BySource {
		if count > bestCount || (count == bestCount && count > 0 && source < best) {
			best, bestCount = source, count
		}
	}
	return best, bestCount
}
