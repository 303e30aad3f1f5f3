// ABOUTME: Engagement category: recency and quality of interactions with the account
// ABOUTME: Looks at last activity, contact responses, meetings and email outcomes
package urgency

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/harperreed/sherpa/models"
)

func (e *Engine) engagementScore(account *models.Account, now time.Time) CategoryScore {
	p := e.policy.Engagement
	cat := newCategory(CategoryEngagement)

	if last := account.LastActivity(); last != nil {
		days := int(math.Floor(daysBetween(*last, now)))
		switch {
		case days <= p.ActiveDays:
			cat.add("Active Engagement", p.ActivePoints, p.ActivePoints, fmt.Sprintf("Last activity %d days ago", days))
		case days <= p.RecentDays:
			cat.add("Recent Engagement", p.RecentPoints, p.ActivePoints, fmt.Sprintf("Last activity %d days ago", days))
		case days <= p.ModerateDays:
			cat.add("Moderate Engagement", p.ModeratePoints, p.ActivePoints, fmt.Sprintf("Last activity %d days ago", days))
		default:
			cat.add("Stale Account", 0, p.ActivePoints, fmt.Sprintf("No activity in %d days", days))
		}
	}

	responding := 0
	for _, c := range account.Contacts {
		if c.LastResponseAt != nil && within(*c.LastResponseAt, now, p.ResponseDays) {
			responding++
		}
	}
	if responding > 0 {
		cat.add("Contact Responsiveness", min(p.ResponseMaxPoints, responding*p.ResponseStep), p.ResponseMaxPoints,
			fmt.Sprintf("%d contact(s) responded in the last %d days", responding, p.ResponseDays))
	}

	meetings, emails, positive := 0, 0, 0
	for _, act := range account.Activities {
		kind := strings.ToLower(act.Type)
		if (strings.Contains(kind, "meeting") || strings.Contains(kind, "call")) && within(act.CreatedAt, now, p.MeetingDays) {
			meetings++
		}
		if strings.Contains(kind, "email") {
			emails++
			if act.Outcome == models.OutcomeReplied || act.Outcome == models.OutcomeOpened {
				positive++
			}
		}
	}
	if meetings > 0 {
		cat.add("Meeting Activity", min(p.MeetingMaxPoints, meetings*p.MeetingStep), p.MeetingMaxPoints,
			fmt.Sprintf("%d meeting(s) or call(s) in the last %d days", meetings, p.MeetingDays))
	}
	if positive > 0 {
		rate := float64(positive) / float64(max(1, emails))
		cat.add("Email Engagement", int(math.Round(rate*p.EmailScale)), int(p.EmailScale),
			fmt.Sprintf("%.0f%% of emails opened or replied", rate*100))
	}

	return cat.result()
}
