// ABOUTME: Competitive category: competitor presence and displacement openings
// ABOUTME: Reads competitor mentions, evaluation activity and dissatisfaction from alerts
package urgency

import "github.com/harperreed/sherpa/models"

var dissatisfactionKeywords = []string{"frustrated", "disappointed", "switching", "alternatives"}

func (e *Engine) competitiveScore(account *models.Account) CategoryScore {
	p := e.policy.Competitive
	cat := newCategory(CategoryCompetitive)

	if mentions := alertsOfType(account, models.AlertCompetitorMention); len(mentions) > 0 {
		urgent := false
		for _, a := range mentions {
			if a.IsHighUrgency() {
				urgent = true
				break
			}
		}
		if urgent {
			cat.add("Competitive Activity", p.UrgentCompetitorPoints, p.UrgentCompetitorPoints,
				"Active competitor engagement detected - urgent")
		} else {
			cat.add("Competitive Activity", p.CompetitorPoints, p.UrgentCompetitorPoints,
				"Competitor mentioned in recent signals")
		}
	}

	var displacement, evaluation, dissatisfied bool
	for _, a := range account.Alerts {
		m := a.Metadata
		if m == nil {
			continue
		}
		if a.Type == models.AlertTechnologyAdoption && m.IsCompetitor {
			displacement = true
		}
		if m.IsEvaluation || m.HasKeyword("rfp") || m.HasKeyword("evaluation") {
			evaluation = true
		}
		if m.Sentiment == "negative" {
			dissatisfied = true
		}
		for _, kw := range dissatisfactionKeywords {
			if m.HasKeyword(kw) {
				dissatisfied = true
			}
		}
	}

	if displacement {
		cat.add("Using Competitor Solution", p.DisplacementPoints, p.DisplacementPoints,
			"Currently using competitor - displacement opportunity")
	}
	if evaluation {
		cat.add("Active Evaluation", p.EvaluationPoints, p.EvaluationPoints, "RFP or vendor evaluation in progress")
	}
	if dissatisfied {
		cat.add("Dissatisfaction Signals", p.DissatisfactionPoints, p.DissatisfactionPoints,
			"Signs of dissatisfaction with current solution")
	}

	return cat.result()
}
