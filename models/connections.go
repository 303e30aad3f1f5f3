// ABOUTME: Data models for network connections and provider records
// ABOUTME: Defines the flat warm-intro Connection and the ProfileRecord/ConnectionRecord provider outputs
package models

import (
	"strings"
	"time"
)

// RelationshipStrength constants for flat connections.
const (
	StrengthStrong = "strong"
	StrengthWarm   = "warm"
	StrengthMedium = "medium"
	StrengthWeak   = "weak"
)

// SharedExperience types.
const (
	ExperienceCompany = "company"
	ExperienceSchool  = "school"
	ExperienceGroup   = "group"
	ExperienceEvent   = "event"
)

type Interaction struct {
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Direction string    `json:"direction,omitempty"`
}

// Connection is the denormalized record used by the warm-intro matcher.
type Connection struct {
	ID                   string        `json:"id"`
	FirstName            string        `json:"first_name,omitempty"`
	LastName             string        `json:"last_name,omitempty"`
	FullName             string        `json:"full_name" validate:"required"`
	Title                string        `json:"title,omitempty"`
	Company              string        `json:"company,omitempty"`
	Industry             string        `json:"industry,omitempty"`
	Location             string        `json:"location,omitempty"`
	ConnectedAt          *time.Time    `json:"connection_date,omitempty"`
	MutualConnections    int           `json:"mutual_connections"`
	InteractionHistory   []Interaction `json:"interaction_history,omitempty"`
	RelationshipStrength string        `json:"relationship_strength"`
	Tags                 []string      `json:"tags,omitempty"`
}

// GivenName returns FirstName, or the first word of FullName.
func (c *Connection) GivenName() string {
	if c.FirstName != "" {
		return c.FirstName
	}
	if fields := strings.Fields(c.FullName); len(fields) > 0 {
		return fields[0]
	}
	return c.FullName
}

// LastInteraction returns the most recent interaction date, if any.
func (c *Connection) LastInteraction() *time.Time {
	var latest *time.Time
	for _, in := range c.InteractionHistory {
		if latest == nil || in.Date.After(*latest) {
			d := in.Date
			latest = &d
		}
	}
	return latest
}

type Experience struct {
	Company string     `json:"company"`
	Title   string     `json:"title,omitempty"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
}

// ProfileRecord is a person profile returned by a profile provider.
type ProfileRecord struct {
	ID             string       `json:"id" validate:"required"`
	PlatformID     string       `json:"platform_id,omitempty"`
	FullName       string       `json:"full_name"`
	Headline       string       `json:"headline,omitempty"`
	CurrentCompany string       `json:"current_company,omitempty"`
	CurrentTitle   string       `json:"current_title,omitempty"`
	Industry       string       `json:"industry,omitempty"`
	Location       string       `json:"location,omitempty"`
	Email          string       `json:"email,omitempty"`
	Summary        string       `json:"summary,omitempty"`
	PictureURL     string       `json:"picture_url,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
}

// Title returns the current title, falling back to the headline.
func (p *ProfileRecord) Title() string {
	if p.CurrentTitle != "" {
		return p.CurrentTitle
	}
	return p.Headline
}

type SharedExperience struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	OverlapMonths int    `json:"overlap_months,omitempty"`
}

// ConnectionRecord is a raw first- or second-degree link returned by a provider.
type ConnectionRecord struct {
	ID                   string             `json:"id" validate:"required"`
	ProfileID            string             `json:"profile_id" validate:"required"`
	FullName             string             `json:"full_name,omitempty"`
	Title                string             `json:"title,omitempty"`
	Company              string             `json:"company,omitempty"`
	Email                string             `json:"email,omitempty"`
	RelationshipStrength float64            `json:"relationship_strength"`
	MutualConnections    int                `json:"mutual_connections,omitempty"`
	LastInteractionAt    *time.Time         `json:"last_interaction_at,omitempty"`
	Endorsements         int                `json:"endorsements,omitempty"`
	SharedExperiences    []SharedExperience `json:"shared_experiences,omitempty"`
}
