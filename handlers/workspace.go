// ABOUTME: Shared session state the MCP tools answer from
// ABOUTME: Holds the relationship engine, scoring engines and the loaded accounts
package handlers

import (
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/recommend"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/warmintro"
)

// Workspace is everything one MCP session reads. Nil engines fall back to
// their defaults; a nil Engine disables path-based answers.
type Workspace struct {
	Engine      *network.Engine
	Urgency     *urgency.Engine
	Matcher     *warmintro.Matcher
	Recommender *recommend.Recommender
	ICP         *models.ICPProfile
	Accounts    []models.Account
	Now         func() time.Time
}

func (w *Workspace) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w *Workspace) urgencyEngine() *urgency.Engine {
	if w.Urgency == nil {
		w.Urgency = urgency.New()
	}
	return w.Urgency
}

func (w *Workspace) account(id string) (*models.Account, bool) {
	for i := range w.Accounts {
		if w.Accounts[i].ID == id {
			return &w.Accounts[i], true
		}
	}
	return nil, false
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
