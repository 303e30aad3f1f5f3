// ABOUTME: Queries over the matcher's loaded accounts and connections
// ABOUTME: Top intros, per-account intros and aggregate relationship statistics
package warmintro

import "github.com/harperreed/sherpa/models"

type PriorityBreakdown struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type Stats struct {
	TotalConnections     int               `json:"total_connections"`
	TotalAccounts        int               `json:"total_accounts"`
	WarmPathways         int               `json:"warm_pathways"`
	AverageConfidence    float64           `json:"average_confidence"`
	PriorityBreakdown    PriorityBreakdown `json:"priority_breakdown"`
	StrongRelationships  int               `json:"strong_relationships"`
	DirectCompanyMatches int               `json:"direct_company_matches"`
	IndustryMatches      int               `json:"industry_matches"`
}

func (m *Matcher) loaded() Result {
	return m.FindWarmIntroPaths(m.accounts, m.connections, m.now())
}

// TopWarmIntros returns the best limit paths. A limit of zero or less means 10.
func (m *Matcher) TopWarmIntros(limit int) []WarmIntroPath {
	if limit <= 0 {
		limit = 10
	}
	paths := m.loaded().Paths
	if len(paths) > limit {
		paths = paths[:limit]
	}
	return paths
}

func (m *Matcher) ForAccount(accountID string) []WarmIntroPath {
	out := []WarmIntroPath{}
	for _, p := range m.loaded().Paths {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out
}

func (m *Matcher) Stats() Stats {
	paths := m.loaded().Paths
	s := Stats{
		TotalConnections: len(m.connections),
		TotalAccounts:    len(m.accounts),
		WarmPathways:     len(paths),
	}

	total := 0.0
	for _, p := range paths {
		total += p.ConfidenceScore
		switch p.Priority {
		case PriorityUrgent:
			s.PriorityBreakdown.Urgent++
		case PriorityHigh:
			s.PriorityBreakdown.High++
		case PriorityMedium:
			s.PriorityBreakdown.Medium++
		default:
			s.PriorityBreakdown.Low++
		}
		switch p.PathType {
		case PathDirect:
			s.DirectCompanyMatches++
		case PathIndustry:
			s.IndustryMatches++
		}
	}
	if len(paths) > 0 {
		s.AverageConfidence = total / float64(len(paths))
	}

	for _, c := range m.connections {
		if c.RelationshipStrength == models.StrengthStrong {
			s.StrongRelationships++
		}
	}
	return s
}
