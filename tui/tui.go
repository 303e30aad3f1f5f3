// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Browses accounts ranked by urgency, their score factors and warm intro pathways
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/recommend"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/warmintro"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Tab selects which list the list view shows.
type Tab int

const (
	TabAccounts Tab = iota
	TabIntros
)

// Data is what the browser shows. Engine and Recommender may be nil.
type Data struct {
	Accounts    []models.Account
	Intros      []warmintro.WarmIntroPath
	Urgency     *urgency.Engine
	ICP         *models.ICPProfile
	Engine      *network.Engine
	Recommender *recommend.Recommender
	Now         time.Time
}

type accountRow struct {
	account   *models.Account
	breakdown *urgency.Breakdown
}

// Model is the main bubbletea model
type Model struct {
	data Data
	rows []accountRow

	viewMode ViewMode
	tab      Tab

	accounts table.Model
	intros   table.Model

	// Detail view state
	detail *accountDetail

	// Accounts that could not be scored.
	skipped int

	// UI state
	width  int
	height int
}

// NewModel scores every account and ranks them for display.
func NewModel(data Data) Model {
	if data.Urgency == nil {
		data.Urgency = urgency.New()
	}
	if data.Now.IsZero() {
		data.Now = time.Now()
	}

	res := data.Urgency.BatchRecalculate(context.Background(), data.Accounts, data.ICP, data.Now, urgency.BatchOptions{})
	index := make(map[string]*models.Account, len(data.Accounts))
	for i := range data.Accounts {
		index[data.Accounts[i].ID] = &data.Accounts[i]
	}

	m := Model{
		data:     data,
		viewMode: ViewList,
		tab:      TabAccounts,
		skipped:  len(res.Errors),
		width:    100,
		height:   24,
	}
	for _, b := range res.Ranked() {
		if a, ok := index[b.AccountID]; ok {
			m.rows = append(m.rows, accountRow{account: a, breakdown: b})
		}
	}

	m.accounts = newTable(accountColumns, m.accountRows(), m.tableHeight())
	m.intros = newTable(introColumns, m.introRows(), m.tableHeight())
	return m
}

// Run starts the full-screen browser.
func Run(data Data) error {
	p := tea.NewProgram(NewModel(data), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return t
}

func (m Model) tableHeight() int {
	return max(5, m.height-10)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.accounts.SetHeight(m.tableHeight())
		m.intros.SetHeight(m.tableHeight())
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	// priorityColors maps a priority band colour name to a terminal colour.
	priorityColors = map[string]lipgloss.Color{
		"red":    lipgloss.Color("196"),
		"orange": lipgloss.Color("208"),
		"yellow": lipgloss.Color("226"),
		"green":  lipgloss.Color("46"),
		"gray":   lipgloss.Color("245"),
	}
)

func priorityStyle(p urgency.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(priorityColors[p.Color])
}
