// ABOUTME: Data models for sales target accounts
// ABOUTME: Defines Account, Contact, Alert, Activity and the ideal customer profile
package models

import (
	"strings"
	"time"
)

// AlertType constants.
const (
	AlertFunding            = "funding"
	AlertHiring             = "hiring"
	AlertExecutiveChange    = "executive_change"
	AlertExpansion          = "expansion"
	AlertContract           = "contract"
	AlertEarnings           = "earnings"
	AlertProductLaunch      = "product_launch"
	AlertPartnership        = "partnership"
	AlertCompetitorMention  = "competitor_mention"
	AlertTechnologyAdoption = "technology_adoption"
	AlertNews               = "news"
)

// Urgency level constants.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Activity outcome constants.
const (
	OutcomeOpened  = "opened"
	OutcomeReplied = "replied"
	OutcomeBounced = "bounced"
	OutcomeNone    = "no_response"
)

type Account struct {
	ID             string     `json:"id" validate:"required"`
	Name           string     `json:"name"`
	Industry       string     `json:"industry,omitempty"`
	Location       string     `json:"location,omitempty"`
	CompanySize    string     `json:"company_size,omitempty"`
	EmployeeCount  int        `json:"employee_count,omitempty"`
	AnnualRevenue  float64    `json:"annual_revenue,omitempty"`
	FiscalYearEnd  string     `json:"fiscal_year_end,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	UrgencyScore   int        `json:"urgency_score,omitempty"`
	Status         string     `json:"status,omitempty"`
	Contacts       []Contact  `json:"contacts,omitempty"`
	Alerts         []Alert    `json:"alerts,omitempty"`
	Activities     []Activity `json:"activities,omitempty"`
}

// Influence holds a contact's 0-100 influence sub-scores.
type Influence struct {
	Budget       int `json:"budget"`
	Technical    int `json:"technical"`
	Relationship int `json:"relationship"`
	Urgency      int `json:"urgency"`
}

type Contact struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name,omitempty"`
	Title              string     `json:"title,omitempty"`
	Email              string     `json:"email,omitempty"`
	SeparationDegree   *int       `json:"separation_degree,omitempty"`
	ConnectionStrength *float64   `json:"connection_strength,omitempty"`
	LastContactedAt    *time.Time `json:"last_contacted_at,omitempty"`
	LastResponseAt     *time.Time `json:"last_response_at,omitempty"`
	Influence          Influence  `json:"influence"`
}

// AlertMetadata is the optional signal bag attached to an alert.
type AlertMetadata struct {
	Keywords     []string `json:"keywords,omitempty"`
	Sentiment    string   `json:"sentiment,omitempty"`
	IsCompetitor bool     `json:"is_competitor,omitempty"`
	IsEvaluation bool     `json:"is_evaluation,omitempty"`
	Source       string   `json:"source,omitempty"`
}

// HasKeyword reports whether any keyword equals kw, ignoring case.
func (m *AlertMetadata) HasKeyword(kw string) bool {
	if m == nil {
		return false
	}
	for _, k := range m.Keywords {
		if strings.EqualFold(k, kw) {
			return true
		}
	}
	return false
}

type Alert struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Urgency   string         `json:"urgency"`
	Title     string         `json:"title,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  *AlertMetadata `json:"metadata,omitempty"`
}

// IsHighUrgency reports critical or high urgency.
func (a Alert) IsHighUrgency() bool {
	return a.Urgency == UrgencyCritical || a.Urgency == UrgencyHigh
}

type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Outcome   string    `json:"outcome,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// ICPProfile is the ideal customer profile used for fit scoring.
type ICPProfile struct {
	TargetIndustries   []string `json:"target_industries" yaml:"target_industries"`
	MinEmployees       int      `json:"min_employees" yaml:"min_employees"`
	MaxEmployees       int      `json:"max_employees" yaml:"max_employees"`
	MinRevenue         float64  `json:"min_revenue" yaml:"min_revenue"`
	MaxRevenue         float64  `json:"max_revenue" yaml:"max_revenue"`
	TargetTitles       []string `json:"target_titles" yaml:"target_titles"`
	TargetTechnologies []string `json:"target_technologies" yaml:"target_technologies"`
}

// LastActivity returns the latest of LastActivityAt and every activity timestamp.
func (a *Account) LastActivity() *time.Time {
	var latest *time.Time
	if a.LastActivityAt != nil {
		t := *a.LastActivityAt
		latest = &t
	}
	for _, act := range a.Activities {
		if act.CreatedAt.IsZero() {
			continue
		}
		if latest == nil || act.CreatedAt.After(*latest) {
			t := act.CreatedAt
			latest = &t
		}
	}
	return latest
}
