// ABOUTME: Tests for the account browser model
// ABOUTME: Drives Update with key messages and checks ranking and rendered views
package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/warmintro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testData() Data {
	recent := now.AddDate(0, 0, -2)
	return Data{
		Accounts: []models.Account{
			{ID: "quiet", Name: "Quiet Co", Industry: "Retail"},
			{
				ID:            "hot",
				Name:          "Initech",
				Industry:      "Manufacturing",
				EmployeeCount: 1200,
				Contacts:      []models.Contact{{ID: "k1", Name: "Kim Lee", Title: "CTO"}},
				Alerts: []models.Alert{
					{Type: models.AlertFunding, Urgency: models.UrgencyCritical, Title: "Series D", CreatedAt: recent},
					{Type: models.AlertExecutiveChange, Urgency: models.UrgencyHigh, Title: "New CTO", CreatedAt: recent},
				},
			},
			{Name: "Missing Id"},
		},
		Intros: []warmintro.WarmIntroPath{
			{AccountName: "Initech", ConnectionName: "Ada Park", PathType: warmintro.PathDirect, ConfidenceScore: 0.95, Priority: warmintro.PriorityUrgent, Timeline: "1-2 weeks"},
		},
		Now: now,
	}
}

func press(m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func TestNewModelRanksAccounts(t *testing.T) {
	m := NewModel(testData())

	require.Len(t, m.rows, 2)
	assert.Equal(t, "hot", m.rows[0].account.ID)
	assert.GreaterOrEqual(t, m.rows[0].breakdown.Overall, m.rows[1].breakdown.Overall)
	assert.Equal(t, 1, m.skipped)

	view := m.View()
	assert.Contains(t, view, "SHERPA")
	assert.Contains(t, view, "Initech")
	assert.Contains(t, view, "Accounts (2)")
	assert.Contains(t, view, "1 accounts could not be scored")
}

func TestTabSwitchesToIntros(t *testing.T) {
	m := NewModel(testData())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabIntros, m.tab)
	assert.Contains(t, m.View(), "Ada Park")

	// Enter does nothing on the intros tab.
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewList, m.viewMode)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabAccounts, m.tab)
}

func TestEnterOpensDetail(t *testing.T) {
	m := NewModel(testData())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, m.viewMode)
	require.NotNil(t, m.detail)
	assert.Equal(t, "hot", m.detail.account.ID)
	assert.NotEmpty(t, m.detail.recommendations)

	view := m.View()
	assert.Contains(t, view, "INITECH")
	assert.Contains(t, view, "Categories")
	assert.Contains(t, view, "Kim Lee, CTO")
	assert.Contains(t, view, "Next Actions")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.viewMode)
	assert.Nil(t, m.detail)
}

func TestQuit(t *testing.T) {
	m := NewModel(testData())
	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m := NewModel(testData())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestEmptyModel(t *testing.T) {
	m := NewModel(Data{Now: now})
	assert.True(t, strings.Contains(m.View(), "No accounts loaded"))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewList, m.viewMode)
}
