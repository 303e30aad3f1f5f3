// ABOUTME: Matches calendar attendees to account contacts by email
// ABOUTME: Indexes every contact across the loaded accounts
package interactions

import (
	"strings"

	"github.com/harperreed/sherpa/models"
)

type contactRef struct {
	account int
	contact int
}

type ContactMatcher struct {
	byEmail map[string]contactRef
}

// NewContactMatcher indexes the contacts of accounts. The first contact
// with a given email wins.
func NewContactMatcher(accounts []models.Account) *ContactMatcher {
	m := &ContactMatcher{byEmail: make(map[string]contactRef)}
	for i := range accounts {
		for j, c := range accounts[i].Contacts {
			key := normalizeEmail(c.Email)
			if key == "" {
				continue
			}
			if _, exists := m.byEmail[key]; !exists {
				m.byEmail[key] = contactRef{account: i, contact: j}
			}
		}
	}
	return m
}

func (m *ContactMatcher) find(email string) (contactRef, bool) {
	ref, ok := m.byEmail[normalizeEmail(email)]
	return ref, ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
