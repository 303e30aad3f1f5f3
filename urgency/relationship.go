// ABOUTME: Relationship category: how well the seller is connected into the account
// ABOUTME: Rewards close separation, strong links, decision-maker access and multiple entry points
package urgency

import (
	"fmt"
	"math"

	"github.com/harperreed/sherpa/models"
)

func (e *Engine) relationshipScore(account *models.Account) CategoryScore {
	p := e.policy.Relationship
	cat := newCategory(CategoryRelationship)

	if len(account.Contacts) == 0 {
		cat.add("No Mapped Contacts", 0, p.degreePoints(1), "No contacts mapped at this account yet")
		return cat.result()
	}

	var best *models.Contact
	for i := range account.Contacts {
		c := &account.Contacts[i]
		if c.SeparationDegree == nil {
			continue
		}
		if best == nil || *c.SeparationDegree < *best.SeparationDegree {
			best = c
		}
	}

	if best != nil {
		degree := *best.SeparationDegree
		cat.add(fmt.Sprintf("%s Separation", ordinal(degree)), p.degreePoints(degree), p.degreePoints(1),
			fmt.Sprintf("Closest contact %s is %s degree away", contactLabel(best), ordinal(degree)))

		if best.ConnectionStrength != nil && *best.ConnectionStrength > 0 {
			s := models.Clamp01(*best.ConnectionStrength)
			cat.add("Connection Strength", int(math.Round(s*p.StrengthScale)), int(p.StrengthScale),
				fmt.Sprintf("%.0f%% connection strength", s*100))
		}
	}

	var dm *models.Contact
	for i := range account.Contacts {
		c := &account.Contacts[i]
		if c.Influence.Budget < p.DecisionMakerThreshold && c.Influence.Urgency < p.DecisionMakerThreshold {
			continue
		}
		if dm == nil || c.Influence.Budget+c.Influence.Urgency > dm.Influence.Budget+dm.Influence.Urgency {
			dm = c
		}
	}
	if dm != nil && p.DecisionMakerDivisor > 0 {
		points := int(math.Round(float64(dm.Influence.Budget+dm.Influence.Urgency) / p.DecisionMakerDivisor))
		cat.add("Decision Maker Access", points, int(math.Round(200/p.DecisionMakerDivisor)),
			fmt.Sprintf("Access to %s with budget or urgency influence", contactLabel(dm)))
	}

	entry := 0
	for _, c := range account.Contacts {
		if c.SeparationDegree != nil && *c.SeparationDegree <= p.EntryPointMaxDegree {
			entry++
		}
	}
	switch {
	case entry >= p.ManyEntryPoints:
		cat.add("Multiple Entry Points", p.ManyEntryPointsPoints, p.ManyEntryPointsPoints,
			fmt.Sprintf("%d contacts within %d degrees", entry, p.EntryPointMaxDegree))
	case entry >= p.FewEntryPoints:
		cat.add("Multiple Contacts", p.FewEntryPointsPoints, p.ManyEntryPointsPoints,
			fmt.Sprintf("%d contacts within %d degrees", entry, p.EntryPointMaxDegree))
	}

	return cat.result()
}

func (p RelationshipPolicy) degreePoints(degree int) int {
	if len(p.DegreePoints) == 0 {
		return 0
	}
	if degree < 1 || degree > len(p.DegreePoints) {
		return p.DegreePoints[len(p.DegreePoints)-1]
	}
	return p.DegreePoints[degree-1]
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func contactLabel(c *models.Contact) string {
	switch {
	case c.Name != "" && c.Title != "":
		return fmt.Sprintf("%s (%s)", c.Name, c.Title)
	case c.Name != "":
		return c.Name
	case c.Title != "":
		return c.Title
	}
	return c.ID
}
