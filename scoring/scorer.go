// ABOUTME: Deterministic relationship scoring for edges and paths
// ABOUTME: Derives edge strength, kind and context from records and scores path confidence
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/harperreed/sherpa/models"
)

var strongKinds = map[string]bool{
	models.KindColleague:       true,
	models.KindFormerColleague: true,
	models.KindMentor:          true,
	models.KindMentee:          true,
	models.KindManager:         true,
}

var mediumKinds = map[string]bool{
	models.KindClassmate: true,
	models.KindFriend:    true,
	models.KindPartner:   true,
}

// Scorer applies a Policy. The zero value is not usable; call New.
type Scorer struct {
	policy Policy
}

func New() *Scorer {
	return &Scorer{policy: DefaultPolicy()}
}

func NewWithPolicy(policy Policy) *Scorer {
	return &Scorer{policy: policy}
}

func (s *Scorer) Policy() Policy {
	return s.policy
}

func daysSince(t *time.Time, now time.Time) (float64, bool) {
	if t == nil || t.IsZero() {
		return 0, false
	}
	return now.Sub(*t).Hours() / 24, true
}

// EdgeStrength combines a provider record into a single [0,1] strength.
func (s *Scorer) EdgeStrength(rec models.ConnectionRecord, now time.Time) float64 {
	p := s.policy
	strength := rec.RelationshipStrength * p.BaseWeight

	if rec.MutualConnections > 0 && p.MutualDivisor > 0 {
		strength += math.Min(float64(rec.MutualConnections)/p.MutualDivisor, p.MutualCap)
	}

	if days, ok := daysSince(rec.LastInteractionAt, now); ok {
		switch {
		case days < float64(p.RecentDays):
			strength += p.RecentBonus
		case days < float64(p.WarmDays):
			strength += p.WarmBonus
		}
	}

	if rec.Endorsements > 0 {
		strength += math.Min(float64(rec.Endorsements)*p.EndorsementStep, p.EndorsementCap)
	}

	for _, exp := range rec.SharedExperiences {
		switch exp.Type {
		case models.ExperienceCompany:
			strength += p.SharedCompanyBonus
		case models.ExperienceSchool:
			strength += p.SharedSchoolBonus
		default:
			strength += p.SharedOtherBonus
		}
	}

	return models.Clamp01(strength)
}

// InferKind picks a relationship kind from the first decisive shared
// experience, falling back to raw strength bands.
func (s *Scorer) InferKind(rec models.ConnectionRecord) string {
	for _, exp := range rec.SharedExperiences {
		switch exp.Type {
		case models.ExperienceCompany:
			if exp.OverlapMonths > s.policy.ColleagueOverlapMonths {
				return models.KindColleague
			}
			return models.KindFormerColleague
		case models.ExperienceSchool:
			return models.KindClassmate
		}
	}

	switch {
	case rec.RelationshipStrength > 0.8:
		return models.KindFriend
	case rec.RelationshipStrength > 0.5:
		return models.KindColleague
	default:
		return models.KindAcquaintance
	}
}

// DescribeContext renders a short human description of why two people know each other.
func (s *Scorer) DescribeContext(rec models.ConnectionRecord, now time.Time) string {
	var parts []string
	for _, exp := range rec.SharedExperiences {
		switch exp.Type {
		case models.ExperienceCompany:
			parts = append(parts, "Worked together at "+exp.Name)
		case models.ExperienceSchool:
			parts = append(parts, "Classmates at "+exp.Name)
		}
	}
	if rec.MutualConnections > 5 {
		parts = append(parts, fmt.Sprintf("%d mutual connections", rec.MutualConnections))
	}
	if days, ok := daysSince(rec.LastInteractionAt, now); ok && days < float64(s.policy.RecentDays) {
		parts = append(parts, fmt.Sprintf("Recent interaction (%d days ago)", int(math.Floor(days))))
	}
	if len(parts) == 0 {
		return "Professional connection"
	}
	return strings.Join(parts, ", ")
}

// firstHopBonus is the mutual-connection plus recency bonus of an edge.
func (s *Scorer) firstHopBonus(e models.Edge, now time.Time) float64 {
	p := s.policy
	bonus := 0.0
	switch {
	case e.MutualConnections >= p.MutualHighThreshold:
		bonus += p.MutualHighBonus
	case e.MutualConnections >= p.MutualLowThreshold:
		bonus += p.MutualLowBonus
	}
	if days, ok := daysSince(e.LastInteractionAt, now); ok {
		switch {
		case days <= float64(p.RecentDays):
			bonus += p.RecencyNearBonus
		case days <= float64(p.WarmDays):
			bonus += p.RecencyFarBonus
		}
	}
	return bonus
}

// Confidence scores how trustworthy a path of edges is, in [0,1].
// edges[0] is the hop leaving the origin.
func (s *Scorer) Confidence(edges []models.Edge, now time.Time) float64 {
	if len(edges) == 0 {
		return 0
	}
	p := s.policy

	total, kinds := 0.0, 0.0
	for _, e := range edges {
		eff := e.Strength
		if !e.Verified {
			eff *= p.UnverifiedDiscount
		}
		total += eff
		kinds += s.kindBonus(e.Kind)
	}
	n := float64(len(edges))

	// Kind bonuses are averaged and decay with the path: a longer path of
	// the same edges never scores higher.
	conf := (total/n + kinds/n) * math.Pow(p.HopDecay, n-1)
	conf += s.firstHopBonus(edges[0], now)

	return models.Clamp01(conf)
}

func (s *Scorer) kindBonus(kind string) float64 {
	switch {
	case strongKinds[kind]:
		return s.policy.StrongKindBonus
	case mediumKinds[kind]:
		return s.policy.MediumKindBonus
	}
	return 0
}

// DegreeRate is the base introduction success rate at a separation degree.
func (s *Scorer) DegreeRate(degree int) float64 {
	if degree >= 1 && degree <= len(s.policy.DegreeRates) {
		return s.policy.DegreeRates[degree-1]
	}
	return s.policy.DegreeRateFloor
}

// IntroSuccessRate estimates how likely an introduction along edges succeeds,
// rounded to two decimals.
func (s *Scorer) IntroSuccessRate(edges []models.Edge, confidence float64, now time.Time) float64 {
	if len(edges) == 0 {
		return 0
	}
	rate := confidence * s.DegreeRate(len(edges))
	rate += s.firstHopBonus(edges[0], now) * s.policy.SuccessBonusScale
	rate = math.Max(0, math.Min(rate, s.policy.SuccessCeiling))
	return math.Round(rate*100) / 100
}

// ResponseRate estimates how often a connection answers outreach.
func (s *Scorer) ResponseRate(rec models.ConnectionRecord, now time.Time) float64 {
	p := s.policy
	rate := p.ResponseBase + rec.RelationshipStrength*p.ResponseWeight
	if days, ok := daysSince(rec.LastInteractionAt, now); ok {
		switch {
		case days < float64(p.RecentDays):
			rate += 0.2
		case days > float64(p.StaleResponseDays):
			rate -= 0.1
		}
	}
	if rec.MutualConnections > 10 {
		rate += 0.1
	}
	return math.Max(p.ResponseMin, math.Min(rate, p.ResponseMax))
}

// EstimatedResponseDays grows super-linearly with separation.
func EstimatedResponseDays(degree int) int {
	if degree <= 0 {
		return 0
	}
	return int(math.Round(math.Pow(float64(degree), 1.5)))
}
