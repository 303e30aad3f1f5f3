// ABOUTME: Matches target accounts against flat network connections
// ABOUTME: Scores company, industry, location and relationship signals into ranked warm intro paths
package warmintro

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
)

// Path types.
const (
	PathDirect   = "direct"
	PathIndustry = "industry"
	PathLocation = "location"
	PathMutual   = "mutual"
)

// Priority values.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type MatchScore struct {
	Score     float64 `json:"score"`
	PathType  string  `json:"path_type"`
	Reasoning string  `json:"reasoning"`
}

type WarmIntroPath struct {
	AccountID            string  `json:"account_id"`
	AccountName          string  `json:"account_name"`
	ConnectionID         string  `json:"connection_id"`
	ConnectionName       string  `json:"connection_name"`
	ConnectionTitle      string  `json:"connection_title,omitempty"`
	ConnectionCompany    string  `json:"connection_company,omitempty"`
	PathType             string  `json:"path_type"`
	ConfidenceScore      float64 `json:"confidence_score"`
	RelationshipStrength string  `json:"relationship_strength"`
	IntroductionMessage  string  `json:"introduction_message"`
	ExpectedSuccessRate  int     `json:"expected_success_rate"`
	Reasoning            string  `json:"reasoning"`
	UrgencyScore         int     `json:"urgency_score"`
	Priority             string  `json:"priority"`
	RecommendedAction    string  `json:"recommended_action"`
	Timeline             string  `json:"timeline"`
}

// ItemError reports an input record that could not be matched.
type ItemError struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Err   string `json:"error"`
}

type Result struct {
	Paths  []WarmIntroPath `json:"paths"`
	Errors []ItemError     `json:"errors"`
}

type Option func(*Matcher)

func WithPolicy(p Policy) Option {
	return func(m *Matcher) { m.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(m *Matcher) {
		if now != nil {
			m.now = now
		}
	}
}

// Matcher pairs accounts with connections. Load gives it a working set for
// TopWarmIntros, ForAccount and Stats.
type Matcher struct {
	policy      Policy
	now         func() time.Time
	accounts    []models.Account
	connections []models.Connection
}

func New(opts ...Option) *Matcher {
	m := &Matcher{policy: DefaultPolicy(), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the matcher's working set.
func (m *Matcher) Load(accounts []models.Account, connections []models.Connection) {
	m.accounts = accounts
	m.connections = connections
}

// Match scores how good a bridge connection is into account.
func (m *Matcher) Match(account *models.Account, conn *models.Connection, now time.Time) MatchScore {
	p := m.policy

	company := strings.TrimSpace(conn.Company)
	if company != "" && strings.EqualFold(company, strings.TrimSpace(account.Name)) {
		return MatchScore{Score: p.DirectScore, PathType: PathDirect, Reasoning: fmt.Sprintf("Direct contact at %s", account.Name)}
	}

	score := 0.0
	pathType := PathMutual
	var reasons []string

	if points, reason := m.industryMatch(account.Industry, conn.Industry); points > 0 {
		score += points
		pathType = PathIndustry
		reasons = append(reasons, reason)
	}

	if points, reason := m.locationMatch(account.Location, conn.Location); points > 0 {
		score += points
		if pathType == PathMutual {
			pathType = PathLocation
		}
		reasons = append(reasons, reason)
	}

	score += p.StrengthBonus[conn.RelationshipStrength]
	if conn.RelationshipStrength != "" {
		reasons = append(reasons, conn.RelationshipStrength+" relationship")
	}

	if m.hasRecentInteraction(conn, now) {
		score += p.RecentBonus
		reasons = append(reasons, "recent interaction")
	}

	if conn.MutualConnections > p.MutualThreshold {
		score += p.MutualBonus
		reasons = append(reasons, fmt.Sprintf("%d mutual connections", conn.MutualConnections))
	}

	return MatchScore{Score: math.Min(score, 1), PathType: pathType, Reasoning: strings.Join(reasons, "; ")}
}

func (m *Matcher) industryMatch(accountIndustry, connIndustry string) (float64, string) {
	a := strings.ToLower(strings.TrimSpace(accountIndustry))
	c := strings.ToLower(strings.TrimSpace(connIndustry))
	if a == "" || c == "" {
		return 0, ""
	}
	if a == c {
		return m.policy.IndustryScore, fmt.Sprintf("Same industry (%s)", connIndustry)
	}
	if relatedIndustry(a, c) {
		return m.policy.RelatedScore, fmt.Sprintf("Related industry (%s)", connIndustry)
	}
	return 0, ""
}

func (m *Matcher) locationMatch(accountLocation, connLocation string) (float64, string) {
	a := strings.ToLower(strings.TrimSpace(accountLocation))
	c := strings.ToLower(strings.TrimSpace(connLocation))
	if a == "" || c == "" {
		return 0, ""
	}
	if a == c {
		return m.policy.CityScore, fmt.Sprintf("Same location (%s)", connLocation)
	}
	as, cs := lastSegment(a), lastSegment(c)
	if as != "" && as == cs {
		return m.policy.StateScore, fmt.Sprintf("Same state (%s)", strings.ToUpper(cs))
	}
	return 0, ""
}

func lastSegment(loc string) string {
	parts := strings.Split(loc, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

func (m *Matcher) hasRecentInteraction(conn *models.Connection, now time.Time) bool {
	last := conn.LastInteraction()
	return last != nil && last.After(now.AddDate(0, -m.policy.RecentMonths, 0))
}

// FindWarmIntroPaths scores every account/connection pair and keeps those
// above the minimum score, best first. Invalid records are reported once
// each in Errors and skipped.
func (m *Matcher) FindWarmIntroPaths(accounts []models.Account, connections []models.Connection, now time.Time) Result {
	res := Result{Paths: []WarmIntroPath{}, Errors: []ItemError{}}

	valid := make([]*models.Connection, 0, len(connections))
	for i := range connections {
		if err := models.ValidateConnection(&connections[i]); err != nil {
			logger.Warn("warmintro: skipping connection", "index", i, "error", err)
			res.Errors = append(res.Errors, ItemError{Kind: "connection", Index: i, ID: connections[i].ID, Err: err.Error()})
			continue
		}
		valid = append(valid, &connections[i])
	}

	for i := range accounts {
		account := &accounts[i]
		if err := models.ValidateAccount(account); err != nil {
			logger.Warn("warmintro: skipping account", "index", i, "error", err)
			res.Errors = append(res.Errors, ItemError{Kind: "account", Index: i, Err: err.Error()})
			continue
		}
		for _, conn := range valid {
			match := m.Match(account, conn, now)
			if match.Score <= m.policy.MinScore {
				continue
			}
			res.Paths = append(res.Paths, m.buildPath(account, conn, match, now))
		}
	}

	sort.SliceStable(res.Paths, func(i, j int) bool {
		return m.rank(res.Paths[i]) > m.rank(res.Paths[j])
	})
	return res
}

func (m *Matcher) rank(p WarmIntroPath) float64 {
	return m.combined(p.ConfidenceScore, p.UrgencyScore)
}

func (m *Matcher) combined(confidence float64, urgency int) float64 {
	return confidence*m.policy.ConfidenceWeight + float64(urgency)/100*m.policy.UrgencyWeight
}

func (m *Matcher) urgencyOf(account *models.Account) int {
	if account.UrgencyScore > 0 {
		return account.UrgencyScore
	}
	return m.policy.DefaultUrgency
}

func (m *Matcher) buildPath(account *models.Account, conn *models.Connection, match MatchScore, now time.Time) WarmIntroPath {
	urgency := m.urgencyOf(account)
	recent := m.hasRecentInteraction(conn, now)
	return WarmIntroPath{
		AccountID:            account.ID,
		AccountName:          account.Name,
		ConnectionID:         conn.ID,
		ConnectionName:       conn.FullName,
		ConnectionTitle:      conn.Title,
		ConnectionCompany:    conn.Company,
		PathType:             match.PathType,
		ConfidenceScore:      match.Score,
		RelationshipStrength: conn.RelationshipStrength,
		IntroductionMessage:  introductionMessage(account, conn, match.PathType),
		ExpectedSuccessRate:  m.successRate(conn, match, recent),
		Reasoning:            match.Reasoning,
		UrgencyScore:         urgency,
		Priority:             m.priority(match.Score, urgency),
		RecommendedAction:    recommendedAction(account, conn, match.PathType, recent),
		Timeline:             timeline(match.Score, conn.RelationshipStrength),
	}
}

func (m *Matcher) successRate(conn *models.Connection, match MatchScore, recent bool) int {
	p := m.policy
	rate := p.BaseSuccessRate
	if mult, ok := p.SuccessMultiplier[conn.RelationshipStrength]; ok {
		rate *= mult
	}
	rate *= 1 + match.Score
	if recent {
		rate *= p.RecentMultiplier
	}
	return min(int(math.Round(rate*100)), p.MaxSuccessPercent)
}

func (m *Matcher) priority(confidence float64, urgency int) string {
	switch c := m.combined(confidence, urgency); {
	case c > 0.8:
		return PriorityUrgent
	case c > 0.6:
		return PriorityHigh
	case c > 0.4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func introductionMessage(account *models.Account, conn *models.Connection, pathType string) string {
	first := conn.GivenName()
	switch pathType {
	case PathDirect:
		return fmt.Sprintf("Hi %s, I noticed you work at %s. I'd love to share something that could help your team.", first, account.Name)
	case PathIndustry:
		return fmt.Sprintf("Hi %s, given your experience in %s, I'd appreciate your perspective on a solution I'm working with. Could you connect me with the right person at %s?", first, conn.Industry, account.Name)
	case PathLocation:
		return fmt.Sprintf("Hi %s, hope you're doing well in %s! I'm working with companies in your area and would love to get connected with %s.", first, conn.Location, account.Name)
	default:
		return fmt.Sprintf("Hi %s, given our mutual connections and your role at %s, I'd appreciate an introduction to the right team at %s.", first, conn.Company, account.Name)
	}
}

func recommendedAction(account *models.Account, conn *models.Connection, pathType string, recent bool) string {
	switch {
	case pathType == PathDirect:
		return fmt.Sprintf("Message %s directly", conn.GivenName())
	case conn.RelationshipStrength == models.StrengthStrong:
		return fmt.Sprintf("Request warm introduction to %s", account.Name)
	case recent:
		return "Reference recent interaction in outreach"
	default:
		return "Send connection request with personalized message"
	}
}

func timeline(confidence float64, strength string) string {
	switch {
	case confidence > 0.7 && strength == models.StrengthStrong:
		return "1-2 days"
	case confidence > 0.5:
		return "3-5 days"
	case strength == models.StrengthStrong || strength == models.StrengthWarm:
		return "1 week"
	default:
		return "2-3 weeks"
	}
}
