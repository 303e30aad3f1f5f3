// ABOUTME: Fit category: how closely the account matches the ideal customer profile
// ABOUTME: Without a profile every account gets the same neutral fit score
package urgency

import (
	"fmt"
	"math"
	"strings"

	"github.com/harperreed/sherpa/models"
)

func (e *Engine) fitScore(account *models.Account, icp *models.ICPProfile) CategoryScore {
	p := e.policy.Fit
	cat := newCategory(CategoryFit)

	if icp == nil {
		cat.add("No ICP Defined", p.NoICPPoints, MaxCategoryScore, "No Ideal Customer Profile defined - using default scoring")
		return cat.result()
	}

	industry := strings.ToLower(account.Industry)
	if industry != "" {
		for _, target := range icp.TargetIndustries {
			if target != "" && strings.Contains(industry, strings.ToLower(target)) {
				cat.add("Industry Match", p.IndustryPoints, p.IndustryPoints, fmt.Sprintf("%s matches ICP", account.Industry))
				break
			}
		}
	}

	if emp := account.EmployeeCount; emp > 0 {
		if emp >= icp.MinEmployees && emp <= icp.MaxEmployees {
			cat.add("Size Match", p.SizePoints, p.SizePoints, fmt.Sprintf("%d employees fits ICP range", emp))
		} else {
			dist := math.Min(math.Abs(float64(emp-icp.MinEmployees)), math.Abs(float64(emp-icp.MaxEmployees)))
			off := dist / math.Max(float64(icp.MaxEmployees), 1)
			partial := int(math.Max(0, math.Round(float64(p.SizePoints)*(1-off))))
			if partial > 0 {
				cat.add("Near Size Match", partial, p.SizePoints, fmt.Sprintf("%d employees near ICP range", emp))
			}
		}
	}

	if rev := account.AnnualRevenue; rev > 0 && rev >= icp.MinRevenue && rev <= icp.MaxRevenue {
		cat.add("Revenue Match", p.RevenuePoints, p.RevenuePoints, "Revenue within ICP range")
	}

	if n := e.decisionMakers(account, icp); n > 0 {
		cat.add("Decision Maker Present", p.DecisionMakerPoints, p.DecisionMakerPoints,
			fmt.Sprintf("%d ICP-matching decision maker(s)", n))
	}

	return cat.result()
}

// decisionMakers counts contacts whose title matches a target title. When
// the profile names no titles, strong budget or technical influence counts.
func (e *Engine) decisionMakers(account *models.Account, icp *models.ICPProfile) int {
	threshold := e.policy.Fit.DecisionMakerInfluence
	n := 0
	for _, c := range account.Contacts {
		if len(icp.TargetTitles) == 0 {
			if c.Influence.Budget >= threshold || c.Influence.Technical >= threshold {
				n++
			}
			continue
		}
		title := strings.ToLower(c.Title)
		for _, t := range icp.TargetTitles {
			if t != "" && title != "" && strings.Contains(title, strings.ToLower(t)) {
				n++
				break
			}
		}
	}
	return n
}
