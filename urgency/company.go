// ABOUTME: Company category: buying signals raised by account alerts
// ABOUTME: Funding, leadership change, hiring, expansion, technology and partnerships
package urgency

import (
	"fmt"

	"github.com/harperreed/sherpa/models"
)

func (e *Engine) companyScore(account *models.Account) CategoryScore {
	p := e.policy.Company
	cat := newCategory(CategoryCompany)

	if funding := alertsOfType(account, models.AlertFunding); len(funding) > 0 {
		latest := funding[0]
		for _, a := range funding[1:] {
			if a.CreatedAt.After(latest.CreatedAt) {
				latest = a
			}
		}
		points := p.FundingPoints
		switch latest.Urgency {
		case models.UrgencyCritical:
			points = p.FundingCriticalPoints
		case models.UrgencyHigh:
			points = p.FundingHighPoints
		}
		cat.add("Recent Funding", points, p.FundingCriticalPoints, "New funding means fresh budget for vendors")
	}

	if len(alertsOfType(account, models.AlertExecutiveChange)) > 0 {
		cat.add("Executive Change", p.ExecutivePoints, p.ExecutivePoints, "New leaders re-evaluate vendors early in their tenure")
	}

	hiring := len(alertsOfType(account, models.AlertHiring))
	switch {
	case hiring >= p.HiringSpreeCount:
		cat.add("Hiring Spree", p.HiringSpreePoints, p.HiringSpreePoints,
			fmt.Sprintf("%d hiring signals - rapid team growth", hiring))
	case hiring > 0:
		cat.add("Active Hiring", p.HiringPoints, p.HiringSpreePoints, "Hiring activity detected")
	}

	if len(alertsOfType(account, models.AlertExpansion)) > 0 {
		cat.add("Expansion Initiative", p.ExpansionPoints, p.ExpansionPoints, "Expansion creates new infrastructure needs")
	}
	if len(alertsOfType(account, models.AlertTechnologyAdoption)) > 0 {
		cat.add("Technology Initiative", p.TechnologyPoints, p.TechnologyPoints, "Active technology adoption or modernization")
	}
	if len(alertsOfType(account, models.AlertPartnership)) > 0 {
		cat.add("Partnership Activity", p.PartnershipPoints, p.PartnershipPoints, "New partnerships open integration opportunities")
	}

	return cat.result()
}
