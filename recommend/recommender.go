// ABOUTME: Next-best-action recommendations for a scored account
// ABOUTME: Combines network paths, contact staleness, urgency and alert signals into ranked actions
package recommend

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/textgen"
	"github.com/harperreed/sherpa/urgency"
	"github.com/oklog/ulid/v2"
)

// Priority values, most pressing first.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Category values.
const (
	CategoryRelationship = "relationship"
	CategoryTiming       = "timing"
	CategoryEngagement   = "engagement"
	CategoryCompetitive  = "competitive"
	CategoryResearch     = "research"
)

const (
	DefaultMaxRecommendations = 10

	maxIntroDegree       = 2
	directSuccess        = 0.85
	introSuccess         = 0.70
	staleContactDays     = 30
	veryStaleContactDays = 60
	budgetInfluenceMin   = 70
	engageNowScore       = 80
	engageNowQuietDays   = 14
	recentAlertDays      = 30
)

var priorityRank = map[string]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

type TargetContact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

type ActionRecommendation struct {
	ID                 string         `json:"id"`
	AccountID          string         `json:"account_id"`
	Priority           string         `json:"priority"`
	Action             string         `json:"action"`
	Reason             string         `json:"reason"`
	TargetContact      *TargetContact `json:"target_contact,omitempty"`
	SuggestedMessage   string         `json:"suggested_message,omitempty"`
	Deadline           time.Time      `json:"deadline"`
	SuccessProbability float64        `json:"success_probability"`
	Category           string         `json:"category"`
}

// PathFinder resolves the best introduction path to a contact. It is
// satisfied by *network.Engine.
type PathFinder interface {
	FindPath(targetID string) *models.PathResult
}

type Option func(*Recommender)

// WithGenerator drafts intro-request copy with g instead of the path template.
func WithGenerator(g textgen.Generator) Option {
	return func(r *Recommender) { r.generator = g }
}

func WithMaxRecommendations(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.max = n
		}
	}
}

// WithEntropy sets the randomness source for recommendation ids.
func WithEntropy(entropy io.Reader) Option {
	return func(r *Recommender) { r.entropy = entropy }
}

type Recommender struct {
	generator textgen.Generator
	max       int

	mu      sync.Mutex
	entropy io.Reader
}

func New(opts ...Option) *Recommender {
	r := &Recommender{max: DefaultMaxRecommendations}
	for _, opt := range opts {
		opt(r)
	}
	if r.entropy == nil {
		r.entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	}
	return r
}

func (r *Recommender) newID(now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), r.entropy).String()
}

// Generate returns the account's recommended actions, most pressing first.
// breakdown and paths may be nil; the account's stored urgency score and no
// path-based actions are used instead.
func (r *Recommender) Generate(ctx context.Context, account *models.Account, breakdown *urgency.Breakdown, paths PathFinder, now time.Time) []ActionRecommendation {
	if account == nil {
		return []ActionRecommendation{}
	}

	var recs []ActionRecommendation
	add := func(rec ActionRecommendation) {
		rec.ID = r.newID(now)
		rec.AccountID = account.ID
		recs = append(recs, rec)
	}

	if paths != nil {
		for _, rec := range r.relationshipActions(ctx, account, paths, now) {
			add(rec)
		}
	}
	for _, rec := range staleContactActions(account, now) {
		add(rec)
	}

	score := account.UrgencyScore
	if breakdown != nil {
		score = breakdown.Overall
	}
	if rec, ok := engageNowAction(account, score, now); ok {
		add(rec)
	}
	for _, rec := range alertActions(account, now) {
		add(rec)
	}

	if len(account.Contacts) == 0 {
		add(ActionRecommendation{
			Priority:           PriorityMedium,
			Action:             fmt.Sprintf("Map the buying committee at %s", accountName(account)),
			Reason:             "No contacts mapped at this account",
			Deadline:           now.AddDate(0, 0, 7),
			SuccessProbability: 0.5,
			Category:           CategoryResearch,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		pi, pj := priorityRank[recs[i].Priority], priorityRank[recs[j].Priority]
		if pi != pj {
			return pi < pj
		}
		return recs[i].SuccessProbability > recs[j].SuccessProbability
	})
	if len(recs) > r.max {
		recs = recs[:r.max]
	}
	if recs == nil {
		recs = []ActionRecommendation{}
	}
	return recs
}

func (r *Recommender) relationshipActions(ctx context.Context, account *models.Account, paths PathFinder, now time.Time) []ActionRecommendation {
	var out []ActionRecommendation
	for _, c := range account.Contacts {
		if c.ID == "" {
			continue
		}
		res := paths.FindPath(c.ID)
		if res == nil || res.Degree < 1 || res.Degree > maxIntroDegree {
			continue
		}
		name := contactName(c, res)
		target := &TargetContact{ID: c.ID, Name: name, Title: c.Title}

		if res.Degree == 1 {
			out = append(out, ActionRecommendation{
				Priority:           PriorityHigh,
				Action:             fmt.Sprintf("Reach out directly to %s", name),
				Reason:             "Direct connection - high success rate",
				TargetContact:      target,
				SuggestedMessage:   res.SuggestedIntroMessage,
				Deadline:           now.AddDate(0, 0, 7),
				SuccessProbability: round2(directSuccess * res.Confidence),
				Category:           CategoryRelationship,
			})
			continue
		}

		connector := res.Path[1]
		out = append(out, ActionRecommendation{
			Priority:           PriorityMedium,
			Action:             fmt.Sprintf("Request intro to %s via %s", name, connector.Name),
			Reason:             fmt.Sprintf("Strong path through %s", connector.Name),
			TargetContact:      target,
			SuggestedMessage:   r.introMessage(ctx, account, res),
			Deadline:           now.AddDate(0, 0, 7),
			SuccessProbability: round2(introSuccess * res.Confidence),
			Category:           CategoryRelationship,
		})
	}
	return out
}

func (r *Recommender) introMessage(ctx context.Context, account *models.Account, res *models.PathResult) string {
	if r.generator == nil || len(res.Path) < 2 {
		return res.SuggestedIntroMessage
	}
	connector := res.Path[1]
	msg, err := r.generator.GenerateMessage(ctx, textgen.MessageContext{
		SenderName:          res.Path[0].Name,
		ConnectorName:       connector.Name,
		ConnectorCompany:    connector.Company,
		TargetName:          res.TargetName,
		TargetTitle:         res.TargetTitle,
		TargetCompany:       firstNonEmpty(res.TargetCompany, account.Name),
		RelationshipContext: connector.Context,
		Degree:              res.Degree,
	})
	if err != nil || msg == nil || msg.Body == "" {
		logger.Warn("recommend: text generation failed, using path template", "account", account.ID, "error", err)
		return res.SuggestedIntroMessage
	}
	return msg.Body
}

func staleContactActions(account *models.Account, now time.Time) []ActionRecommendation {
	var out []ActionRecommendation
	for _, c := range account.Contacts {
		if c.LastContactedAt == nil || c.Influence.Budget < budgetInfluenceMin {
			continue
		}
		days := int(math.Floor(now.Sub(*c.LastContactedAt).Hours() / 24))
		if days <= staleContactDays {
			continue
		}
		priority := PriorityMedium
		if days > veryStaleContactDays {
			priority = PriorityHigh
		}
		name := firstNonEmpty(c.Name, c.ID)
		out = append(out, ActionRecommendation{
			Priority:           priority,
			Action:             fmt.Sprintf("Re-engage with %s", name),
			Reason:             fmt.Sprintf("No contact in %d days - high budget influence decision maker", days),
			TargetContact:      &TargetContact{ID: c.ID, Name: name, Title: c.Title},
			Deadline:           now.AddDate(0, 0, 3),
			SuccessProbability: round2(math.Max(0.3, 0.7-float64(days)/100)),
			Category:           CategoryEngagement,
		})
	}
	return out
}

func engageNowAction(account *models.Account, score int, now time.Time) (ActionRecommendation, bool) {
	if score < engageNowScore {
		return ActionRecommendation{}, false
	}
	if last := account.LastActivity(); last != nil && now.Sub(*last) <= engageNowQuietDays*24*time.Hour {
		return ActionRecommendation{}, false
	}
	return ActionRecommendation{
		Priority:           PriorityCritical,
		Action:             fmt.Sprintf("Immediate outreach to %s", accountName(account)),
		Reason:             fmt.Sprintf("Urgency score %d/100 with no recent engagement", score),
		Deadline:           now.AddDate(0, 0, 1),
		SuccessProbability: 0.65,
		Category:           CategoryTiming,
	}, true
}

func alertActions(account *models.Account, now time.Time) []ActionRecommendation {
	name := accountName(account)
	var out []ActionRecommendation
	for _, a := range account.Alerts {
		if !a.CreatedAt.IsZero() && now.Sub(a.CreatedAt) > recentAlertDays*24*time.Hour {
			continue
		}
		rec := ActionRecommendation{
			Priority:           PriorityLow,
			Action:             fmt.Sprintf("Follow up on: %s", alertSubject(a)),
			Reason:             alertSubject(a),
			SuccessProbability: 0.4,
			Category:           CategoryEngagement,
		}
		switch a.Type {
		case models.AlertFunding:
			rec.Action = fmt.Sprintf("Congratulate %s on the funding news", name)
			rec.Priority = PriorityHigh
			if a.IsHighUrgency() {
				rec.Priority = PriorityCritical
			}
			rec.SuccessProbability = 0.7
			rec.Category = CategoryTiming
		case models.AlertExecutiveChange:
			rec.Action = fmt.Sprintf("Introduce yourself to the new leader at %s", name)
			rec.Priority = PriorityHigh
			rec.SuccessProbability = 0.65
			rec.Category = CategoryRelationship
		case models.AlertCompetitorMention:
			rec.Action = fmt.Sprintf("Prepare a displacement play for %s", name)
			rec.Priority = PriorityHigh
			rec.SuccessProbability = 0.5
			rec.Category = CategoryCompetitive
		case models.AlertContract:
			rec.Action = fmt.Sprintf("Address contract renewal timing at %s", name)
			rec.Priority = PriorityCritical
			rec.SuccessProbability = 0.75
			rec.Category = CategoryTiming
		case models.AlertHiring:
			rec.Action = fmt.Sprintf("Position for growth - %s is hiring", name)
			rec.Priority = PriorityMedium
			rec.SuccessProbability = 0.55
			rec.Category = CategoryTiming
		case models.AlertExpansion:
			rec.Action = fmt.Sprintf("Position for expansion initiative at %s", name)
			rec.Priority = PriorityHigh
			rec.SuccessProbability = 0.6
			rec.Category = CategoryTiming
		}
		if rec.Priority == PriorityCritical {
			rec.Deadline = now.AddDate(0, 0, 2)
		} else {
			rec.Deadline = now.AddDate(0, 0, 7)
		}
		out = append(out, rec)
	}
	return out
}

const maxSubjectRunes = 50

func alertSubject(a models.Alert) string {
	subject := firstNonEmpty(a.Title, a.Type)
	if runes := []rune(subject); len(runes) > maxSubjectRunes {
		subject = string(runes[:maxSubjectRunes]) + "..."
	}
	return subject
}

func contactName(c models.Contact, res *models.PathResult) string {
	return firstNonEmpty(c.Name, res.TargetName, c.ID)
}

func accountName(a *models.Account) string {
	return firstNonEmpty(a.Name, a.ID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
