// ABOUTME: Data models for the relationship network graph
// ABOUTME: Defines Node, Edge, PathHop and PathResult shared by graph, scoring and engine
package models

import (
	"time"
)

// NodeKind constants.
const (
	NodeSelf            = "self"
	NodeConnection      = "connection"
	NodeExternalContact = "external_contact"
)

// RelationshipKind constants.
const (
	KindColleague       = "colleague"
	KindFormerColleague = "former_colleague"
	KindClassmate       = "classmate"
	KindFriend          = "friend"
	KindFamily          = "family"
	KindMentor          = "mentor"
	KindMentee          = "mentee"
	KindManager         = "manager"
	KindDirectReport    = "direct_report"
	KindVendor          = "vendor"
	KindCustomer        = "customer"
	KindPartner         = "partner"
	KindAcquaintance    = "acquaintance"
	KindOther           = "other"
)

// RelationshipKinds lists every accepted relationship kind.
var RelationshipKinds = []string{
	KindColleague, KindFormerColleague, KindClassmate, KindFriend, KindFamily,
	KindMentor, KindMentee, KindManager, KindDirectReport, KindVendor,
	KindCustomer, KindPartner, KindAcquaintance, KindOther,
}

// IsRelationshipKind reports whether kind is one of the known relationship kinds.
func IsRelationshipKind(kind string) bool {
	for _, k := range RelationshipKinds {
		if k == kind {
			return true
		}
	}
	return false
}

type Node struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	PlatformID  string `json:"platform_id,omitempty"`
	Email       string `json:"email,omitempty"`
	IsTarget    bool   `json:"is_target,omitempty"`
}

type Edge struct {
	SourceID          string     `json:"source_id"`
	TargetID          string     `json:"target_id"`
	Kind              string     `json:"relationship_kind"`
	Strength          float64    `json:"strength"`
	Verified          bool       `json:"verified"`
	Context           string     `json:"context,omitempty"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
	MutualConnections int        `json:"mutual_connection_count,omitempty"`
}

// PathHop is one step of a path. The first hop is the network owner and
// carries no edge data.
type PathHop struct {
	NodeID            string     `json:"node_id"`
	Name              string     `json:"name"`
	Title             string     `json:"title,omitempty"`
	Company           string     `json:"company,omitempty"`
	Kind              string     `json:"relationship_kind,omitempty"`
	Strength          float64    `json:"edge_strength,omitempty"`
	Verified          bool       `json:"verified,omitempty"`
	Context           string     `json:"context,omitempty"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
	MutualConnections int        `json:"mutual_connections,omitempty"`
}

// PathResult is a scored path to a target with any alternatives found.
type PathResult struct {
	TargetID              string      `json:"target_id"`
	TargetName            string      `json:"target_name"`
	TargetTitle           string      `json:"target_title,omitempty"`
	TargetCompany         string      `json:"target_company,omitempty"`
	Degree                int         `json:"degree"`
	Path                  []PathHop   `json:"path"`
	Confidence            float64     `json:"confidence"`
	IntroSuccessRate      float64     `json:"intro_success_rate"`
	SuggestedIntroMessage string      `json:"suggested_intro_message,omitempty"`
	AlternativePaths      [][]PathHop `json:"alternative_paths"`
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
