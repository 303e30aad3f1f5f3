// ABOUTME: Timing category: quarter and fiscal calendar pressure plus time-sensitive alerts
// ABOUTME: Calendar rules count days to the end of the current calendar quarter
package urgency

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/sherpa/models"
)

func (e *Engine) timingScore(account *models.Account, now time.Time) CategoryScore {
	p := e.policy.Timing
	cat := newCategory(CategoryTiming)

	days := daysToQuarterEnd(now)
	switch {
	case days <= p.QuarterEndDays:
		cat.add("Quarter-End Proximity", p.QuarterEndPoints, p.QuarterEndPoints,
			fmt.Sprintf("%d days until quarter end - budget pressure is high", days))
	case days <= p.ApproachingDays:
		cat.add("Approaching Quarter-End", p.ApproachingPoints, p.QuarterEndPoints,
			fmt.Sprintf("%d days until quarter end", days))
	}

	if fye, ok := fiscalYearEndMonth(account.FiscalYearEnd); ok {
		monthsToFYE := (fye - int(now.Month()) + 12) % 12
		switch {
		case monthsToFYE <= p.BudgetFlushMonths:
			cat.add("Fiscal Year Budget Flush", p.BudgetFlushPoints, p.BudgetFlushPoints,
				fmt.Sprintf("Fiscal year ends in %d month(s) - use-it-or-lose-it budget", monthsToFYE))
		case monthsToFYE >= p.PlanningMonths:
			cat.add("New Fiscal Year Planning", p.PlanningPoints, p.BudgetFlushPoints,
				"New fiscal year - budgets being allocated")
		}
	}

	if now.Month() == time.January || now.Month() == time.February {
		cat.add("Q1 Planning Season", p.Q1Points, p.Q1Points, "Annual planning and new initiatives kick off in Q1")
	}

	if len(alertsOfType(account, models.AlertContract)) > 0 {
		cat.add("Contract Renewal Detected", p.ContractPoints, p.ContractPoints,
			"Contract activity signals an upcoming renewal window")
	}

	for _, a := range alertsOfType(account, models.AlertNews) {
		if a.Metadata.HasKeyword("budget") {
			cat.add("Budget Cycle News", p.BudgetNewsPoints, p.BudgetNewsPoints, "News coverage mentions budget activity")
			break
		}
	}

	recent := 0
	for _, a := range account.Alerts {
		if a.IsHighUrgency() && within(a.CreatedAt, now, p.RecentSignalDays) {
			recent++
		}
	}
	if recent > 0 {
		points := recent * p.RecentSignalStep
		if points > p.RecentSignalMaxPoints {
			points = p.RecentSignalMaxPoints
		}
		cat.add("Recent High-Urgency Signals", points, p.RecentSignalMaxPoints,
			fmt.Sprintf("%d high-urgency signal(s) in the last %d days", recent, p.RecentSignalDays))
	}

	return cat.result()
}

// daysToQuarterEnd counts whole days from now's date to the last day of
// its calendar quarter.
func daysToQuarterEnd(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endMonth := time.Month((int(now.Month())-1)/3*3 + 3)
	// Day zero of the following month is the last day of endMonth.
	last := time.Date(now.Year(), endMonth+1, 0, 0, 0, 0, 0, time.UTC)
	return int(last.Sub(today).Hours() / 24)
}

// fiscalYearEndMonth reads the month from "YYYY-MM-DD", "MM-DD" or "MM".
func fiscalYearEndMonth(fye string) (int, bool) {
	fye = strings.TrimSpace(fye)
	if fye == "" {
		return 0, false
	}
	parts := strings.Split(fye, "-")
	var raw string
	switch len(parts) {
	case 3:
		raw = parts[1]
	case 2, 1:
		raw = parts[0]
	default:
		return 0, false
	}
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	return month, true
}
