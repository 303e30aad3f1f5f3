// ABOUTME: Multi-factor urgency scoring for target accounts
// ABOUTME: Combines six weighted category scores into a 0-100 overall score
package urgency

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/sherpa/models"
)

// Category names carried on every factor.
const (
	CategoryTiming       = "timing"
	CategoryCompany      = "company"
	CategoryRelationship = "relationship"
	CategoryEngagement   = "engagement"
	CategoryFit          = "fit"
	CategoryCompetitive  = "competitive"
)

type Factor struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	MaxPoints   int    `json:"max_points"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type CategoryScore struct {
	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Factors  []Factor `json:"factors"`
}

type Breakdown struct {
	AccountID    string        `json:"account_id"`
	Overall      int           `json:"overall"`
	Timing       CategoryScore `json:"timing"`
	Company      CategoryScore `json:"company"`
	Relationship CategoryScore `json:"relationship"`
	Engagement   CategoryScore `json:"engagement"`
	Fit          CategoryScore `json:"fit"`
	Competitive  CategoryScore `json:"competitive"`
	Factors      []Factor      `json:"factors"`
	CalculatedAt time.Time     `json:"calculated_at"`
}

// Engine scores accounts under a fixed Policy. It holds no mutable state.
type Engine struct {
	policy Policy
}

func New() *Engine {
	return &Engine{policy: DefaultPolicy()}
}

func NewWithPolicy(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

var defaultEngine = New()

// Score rates an account with the default policy.
func Score(account *models.Account, icp *models.ICPProfile, now time.Time) (*Breakdown, error) {
	return defaultEngine.Score(account, icp, now)
}

// Score rates an account as of now. The result depends only on its inputs.
// A nil icp yields the default fit score.
func (e *Engine) Score(account *models.Account, icp *models.ICPProfile, now time.Time) (*Breakdown, error) {
	if err := models.ValidateAccount(account); err != nil {
		return nil, err
	}

	b := &Breakdown{
		AccountID:    account.ID,
		Timing:       e.timingScore(account, now),
		Company:      e.companyScore(account),
		Relationship: e.relationshipScore(account),
		Engagement:   e.engagementScore(account, now),
		Fit:          e.fitScore(account, icp),
		Competitive:  e.competitiveScore(account),
		CalculatedAt: now,
	}

	weighted := WeightTiming*float64(clampScore(b.Timing.Score)) +
		WeightCompany*float64(clampScore(b.Company.Score)) +
		WeightRelationship*float64(clampScore(b.Relationship.Score)) +
		WeightEngagement*float64(clampScore(b.Engagement.Score)) +
		WeightFit*float64(clampScore(b.Fit.Score)) +
		WeightCompetitive*float64(clampScore(b.Competitive.Score))
	b.Overall = clampScore(int(math.Round(weighted)))

	for _, cat := range []CategoryScore{b.Timing, b.Company, b.Relationship, b.Engagement, b.Fit, b.Competitive} {
		b.Factors = append(b.Factors, cat.Factors...)
	}
	sort.SliceStable(b.Factors, func(i, j int) bool {
		return b.Factors[i].Points > b.Factors[j].Points
	})

	return b, nil
}

// category accumulates factors for one category.
type category struct {
	name    string
	total   int
	factors []Factor
}

func newCategory(name string) *category {
	return &category{name: name, factors: []Factor{}}
}

func (c *category) add(name string, points, maxPoints int, description string) {
	c.total += points
	c.factors = append(c.factors, Factor{
		Name:        name,
		Points:      points,
		MaxPoints:   maxPoints,
		Description: description,
		Category:    c.name,
	})
}

func (c *category) result() CategoryScore {
	score := c.total
	if score > MaxCategoryScore {
		score = MaxCategoryScore
	}
	return CategoryScore{Score: score, MaxScore: MaxCategoryScore, Factors: c.factors}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxCategoryScore {
		return MaxCategoryScore
	}
	return v
}

func daysBetween(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}

func within(t time.Time, now time.Time, days int) bool {
	if t.IsZero() {
		return false
	}
	d := daysBetween(t, now)
	return d >= 0 && d <= float64(days)
}

func alertsOfType(account *models.Account, alertType string) []models.Alert {
	var out []models.Alert
	for _, a := range account.Alerts {
		if a.Type == alertType {
			out = append(out, a)
		}
	}
	return out
}
