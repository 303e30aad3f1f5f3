package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var accountColumns = []table.Column{
	{Title: "Score", Width: 6},
	{Title: "Priority", Width: 11},
	{Title: "Account", Width: 28},
	{Title: "Industry", Width: 20},
	{Title: "Top Factor", Width: 28},
}

var introColumns = []table.Column{
	{Title: "Priority", Width: 9},
	{Title: "Account", Width: 24},
	{Title: "Connection", Width: 22},
	{Title: "Type", Width: 10},
	{Title: "Confidence", Width: 10},
	{Title: "Timeline", Width: 12},
}

func (m Model) accountRows() []table.Row {
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		top := ""
		if len(r.breakdown.Factors) > 0 {
			top = r.breakdown.Factors[0].Name
		}
		rows = append(rows, table.Row{
			strconv.Itoa(r.breakdown.Overall),
			r.breakdown.Priority().Label,
			r.account.Name,
			r.account.Industry,
			top,
		})
	}
	return rows
}

func (m Model) introRows() []table.Row {
	rows := make([]table.Row, 0, len(m.data.Intros))
	for _, p := range m.data.Intros {
		rows = append(rows, table.Row{
			p.Priority,
			p.AccountName,
			p.ConnectionName,
			p.PathType,
			fmt.Sprintf("%.0f%%", p.ConfidenceScore*100),
			p.Timeline,
		})
	}
	return rows
}

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("SHERPA"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	// Table
	switch m.tab {
	case TabAccounts:
		if len(m.rows) == 0 {
			s.WriteString("No accounts loaded. Try 'sherpa seed' or 'sherpa accounts import'.")
		} else {
			s.WriteString(m.accounts.View())
		}
		if m.skipped > 0 {
			s.WriteString(fmt.Sprintf("\n%d accounts could not be scored", m.skipped))
		}
	case TabIntros:
		if len(m.data.Intros) == 0 {
			s.WriteString("No warm introduction pathways found.")
		} else {
			s.WriteString(m.intros.View())
		}
	}
	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{fmt.Sprintf("Accounts (%d)", len(m.rows)), fmt.Sprintf("Warm Intros (%d)", len(m.data.Intros))}
	var rendered []string

	for i, tab := range tabs {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderListHelp() string {
	if m.tab == TabIntros {
		return helpStyle.Render("↑/↓: navigate • tab: accounts • q: quit")
	}
	return helpStyle.Render("↑/↓: navigate • enter: details • tab: warm intros • q: quit")
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if m.tab == TabAccounts {
			m.tab = TabIntros
		} else {
			m.tab = TabAccounts
		}
		return m, nil

	case "enter":
		if m.tab != TabAccounts || len(m.rows) == 0 {
			return m, nil
		}
		cursor := m.accounts.Cursor()
		if cursor < 0 || cursor >= len(m.rows) {
			return m, nil
		}
		m.detail = m.buildDetail(m.rows[cursor])
		m.viewMode = ViewDetail
		return m, nil
	}

	var cmd tea.Cmd
	if m.tab == TabAccounts {
		m.accounts, cmd = m.accounts.Update(msg)
	} else {
		m.intros, cmd = m.intros.Update(msg)
	}
	return m, cmd
}
