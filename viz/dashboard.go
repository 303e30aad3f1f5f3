// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII overview of accounts ranked by outreach urgency
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/warmintro"
)

const (
	staleAfterDays   = 30
	defaultTopLimit  = 10
	priorityBarWidth = 10
)

// priorityOrder lists the bands from hottest to coldest.
var priorityOrder = []string{"HOT", "WARM", "DEVELOPING", "NURTURE", "COLD"}

type DashboardStats struct {
	TotalAccounts int
	TotalContacts int
	TotalAlerts   int

	ByPriority map[string]int
	Top        []RankedAccount

	StaleAccounts []StaleAccount
	Unscored      int

	Intros *warmintro.Stats
}

type RankedAccount struct {
	ID        string
	Name      string
	Score     int
	Label     string
	TopFactor string
}

type StaleAccount struct {
	Name      string
	DaysSince int
}

// GenerateDashboardStats summarises accounts and their scores. Accounts
// without a breakdown are counted as unscored. intros may be nil.
func GenerateDashboardStats(accounts []models.Account, scores map[string]*urgency.Breakdown, intros *warmintro.Stats, now time.Time, limit int) *DashboardStats {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	stats := &DashboardStats{
		TotalAccounts: len(accounts),
		ByPriority:    make(map[string]int),
		Intros:        intros,
	}

	var ranked []RankedAccount
	for i := range accounts {
		a := &accounts[i]
		stats.TotalContacts += len(a.Contacts)
		stats.TotalAlerts += len(a.Alerts)

		if last := a.LastActivity(); last == nil {
			stats.StaleAccounts = append(stats.StaleAccounts, StaleAccount{Name: a.Name, DaysSince: -1})
		} else if days := int(now.Sub(*last).Hours() / 24); days > staleAfterDays {
			stats.StaleAccounts = append(stats.StaleAccounts, StaleAccount{Name: a.Name, DaysSince: days})
		}

		b := scores[a.ID]
		if b == nil {
			stats.Unscored++
			continue
		}
		p := b.Priority()
		stats.ByPriority[p.Label]++
		row := RankedAccount{ID: a.ID, Name: a.Name, Score: b.Overall, Label: p.Label}
		if len(b.Factors) > 0 {
			row.TopFactor = b.Factors[0].Name
		}
		ranked = append(ranked, row)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	stats.Top = ranked
	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SHERPA ACCOUNT DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PRIORITY BANDS\n")
	renderPriorities(&out, stats.ByPriority)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🏢 %d accounts  📇 %d contacts  🔔 %d alerts\n\n",
		stats.TotalAccounts, stats.TotalContacts, stats.TotalAlerts))

	if len(stats.Top) > 0 {
		out.WriteString("TOP ACCOUNTS\n")
		for i, r := range stats.Top {
			line := fmt.Sprintf("  %2d. %-28s %3d  %-10s", i+1, truncate(r.Name, 28), r.Score, r.Label)
			if r.TopFactor != "" {
				line += "  " + r.TopFactor
			}
			out.WriteString(strings.TrimRight(line, " ") + "\n")
		}
		out.WriteString("\n")
	}

	if s := stats.Intros; s != nil {
		out.WriteString("WARM INTROS\n")
		out.WriteString(fmt.Sprintf("  🤝 %d pathways across %d connections (avg confidence %.0f%%)\n",
			s.WarmPathways, s.TotalConnections, s.AverageConfidence*100))
		out.WriteString(fmt.Sprintf("  urgent %d  high %d  medium %d  low %d\n\n",
			s.PriorityBreakdown.Urgent, s.PriorityBreakdown.High, s.PriorityBreakdown.Medium, s.PriorityBreakdown.Low))
	}

	if len(stats.StaleAccounts) > 0 || stats.Unscored > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		if len(stats.StaleAccounts) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d accounts - no activity in %d+ days\n", len(stats.StaleAccounts), staleAfterDays))
		}
		if stats.Unscored > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d accounts - not yet scored\n", stats.Unscored))
		}
	}

	return out.String()
}

func renderPriorities(out *strings.Builder, counts map[string]int) {
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, label := range priorityOrder {
		count := counts[label]
		barLength := (count * priorityBarWidth) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", priorityBarWidth-barLength)
		out.WriteString(fmt.Sprintf("  %-11s %s  %2d\n", label, bar, count))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
