package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/recommend"
	"github.com/harperreed/sherpa/urgency"
)

// Number of recommendations shown on the detail view.
const detailRecommendations = 5

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginTop(1)
)

type accountDetail struct {
	account         *models.Account
	breakdown       *urgency.Breakdown
	paths           map[string]*models.PathResult
	recommendations []recommend.ActionRecommendation
}

func (m Model) buildDetail(r accountRow) *accountDetail {
	d := &accountDetail{account: r.account, breakdown: r.breakdown, paths: map[string]*models.PathResult{}}

	var finder recommend.PathFinder
	if m.data.Engine != nil {
		finder = m.data.Engine
		for _, c := range r.account.Contacts {
			if p := m.data.Engine.FindPath(c.ID); p != nil {
				d.paths[c.ID] = p
			}
		}
	}

	rec := m.data.Recommender
	if rec == nil {
		rec = recommend.New(recommend.WithMaxRecommendations(detailRecommendations))
	}
	d.recommendations = rec.Generate(context.Background(), r.account, r.breakdown, finder, m.data.Now)
	if len(d.recommendations) > detailRecommendations {
		d.recommendations = d.recommendations[:detailRecommendations]
	}
	return d
}

func (m Model) renderDetailView() string {
	if m.detail == nil {
		return ""
	}
	d := m.detail
	b := d.breakdown
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render(strings.ToUpper(d.account.Name)))
	s.WriteString("\n")

	p := b.Priority()
	s.WriteString(m.renderField("Urgency", priorityStyle(p).Render(fmt.Sprintf("%d/100 %s", b.Overall, p.Label))))
	s.WriteString(m.renderField("Industry", d.account.Industry))
	s.WriteString(m.renderField("Location", d.account.Location))
	if d.account.EmployeeCount > 0 {
		s.WriteString(m.renderField("Employees", fmt.Sprintf("%d", d.account.EmployeeCount)))
	}

	s.WriteString(sectionStyle.Render("Categories"))
	s.WriteString("\n")
	for _, c := range []struct {
		name  string
		score urgency.CategoryScore
	}{
		{"Timing", b.Timing},
		{"Company", b.Company},
		{"Relationship", b.Relationship},
		{"Engagement", b.Engagement},
		{"Fit", b.Fit},
		{"Competitive", b.Competitive},
	} {
		s.WriteString(m.renderField(c.name, fmt.Sprintf("%d/%d", c.score.Score, c.score.MaxScore)))
	}

	if len(b.Factors) > 0 {
		s.WriteString(sectionStyle.Render("Factors"))
		s.WriteString("\n")
		for _, f := range b.Factors {
			s.WriteString(fmt.Sprintf("  +%-3d %s: %s\n", f.Points, f.Name, f.Description))
		}
	}

	if len(d.account.Contacts) > 0 {
		s.WriteString(sectionStyle.Render("Contacts"))
		s.WriteString("\n")
		for _, c := range d.account.Contacts {
			line := "  " + c.Name
			if c.Title != "" {
				line += ", " + c.Title
			}
			if path, ok := d.paths[c.ID]; ok {
				line += fmt.Sprintf(" (%d°, %.0f%% confidence", path.Degree, path.Confidence*100)
				if len(path.Path) > 2 {
					line += " via " + path.Path[1].Name
				}
				line += ")"
			}
			s.WriteString(line + "\n")
		}
	}

	if len(d.recommendations) > 0 {
		s.WriteString(sectionStyle.Render("Next Actions"))
		s.WriteString("\n")
		for i, r := range d.recommendations {
			s.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, r.Priority, r.Action))
		}
	}

	s.WriteString("\n")

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderDetailHelp() string {
	return helpStyle.Render("esc: back • q: quit")
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.viewMode = ViewList
		m.detail = nil
	}
	return m, nil
}
