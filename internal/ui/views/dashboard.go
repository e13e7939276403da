package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teamnexus/nexus/internal/models"
	"github.com/teamnexus/nexus/internal/ui/keys"
	"github.com/teamnexus/nexus/internal/ui/styles"
)

// DashboardView shows the read-only workspace overview: task totals per
// status, project health, and the recent activity feed.
type DashboardView struct {
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	tasks      []models.Task
	projects   []models.Project
	activities []models.Activity
}

// NewDashboardView creates a new dashboard view
func NewDashboardView() *DashboardView {
	return &DashboardView{
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

// Init initializes the view
func (v *DashboardView) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the view wants exclusive key input
func (v *DashboardView) Capturing() bool {
	return false
}

// Update handles messages
func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case OverviewMsg:
		v.tasks = msg.Tasks
		v.projects = msg.Projects
		v.activities = msg.Activities
	}
	return v, nil
}

// View renders the view
func (v *DashboardView) View() string {
	var b strings.Builder
	b.WriteString(v.renderStatusSummary())
	b.WriteString("\n\n")
	b.WriteString(v.renderProjects())
	b.WriteString("\n\n")
	b.WriteString(v.renderActivities())
	return b.String()
}

func (v *DashboardView) renderStatusSummary() string {
	s := v.styles

	counts := make(map[models.TaskStatus]int)
	for _, t := range v.tasks {
		counts[t.Status]++
	}

	var cards []string
	for _, status := range models.AllStatuses {
		card := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render(fmt.Sprintf("%d", counts[status])),
			s.TitleMuted.Render(status.Label()),
		)
		cards = append(cards, s.Card.Render(card))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.ColumnHeader.Render("상태 요약"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	)
}

func (v *DashboardView) renderProjects() string {
	s := v.styles

	if len(v.projects) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.ColumnHeader.Render("프로젝트 현황"),
			s.TitleMuted.Render("  프로젝트가 없습니다"),
		)
	}

	barWidth := clamp(styles.ContentWidth(v.width)-50, 10, 30)

	var rows []string
	for _, p := range v.projects {
		row := lipgloss.JoinHorizontal(lipgloss.Center,
			lipgloss.NewStyle().Width(24).Render(p.Name),
			v.healthBadge(p.Health),
			" ",
			v.renderProgress(p.Progress, barWidth),
			s.TitleMuted.Render(fmt.Sprintf(" %d%%", p.Progress)),
		)
		rows = append(rows, row)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.ColumnHeader.Render("프로젝트 현황")}, rows...)...,
	)
}

func (v *DashboardView) healthBadge(h models.ProjectHealth) string {
	s := v.styles
	switch h {
	case models.HealthOnTrack:
		return s.BadgeSuccess.Render("정상")
	case models.HealthAtRisk:
		return s.BadgeWarning.Render("위험")
	case models.HealthDelayed:
		return s.BadgeUrgent.Render("지연")
	}
	return s.Badge.Render(string(h))
}

func (v *DashboardView) renderProgress(pct, width int) string {
	s := v.styles
	pct = clamp(pct, 0, 100)
	filled := pct * width / 100
	return s.ProgressFill.Render(strings.Repeat("█", filled)) +
		s.ProgressTrack.Render(strings.Repeat("░", width-filled))
}

func (v *DashboardView) renderActivities() string {
	s := v.styles

	activities := v.activities
	if len(activities) > 8 {
		activities = activities[:8]
	}
	if len(activities) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.ColumnHeader.Render("최근 활동"),
			s.TitleMuted.Render("  활동 내역이 없습니다"),
		)
	}

	var rows []string
	for _, a := range activities {
		dot := s.Badge.Render("·")
		switch a.Severity {
		case models.SeverityHigh:
			dot = s.BadgeUrgent.Render("●")
		case models.SeverityMedium:
			dot = s.BadgeWarning.Render("●")
		case models.SeverityLow:
			dot = s.BadgeSuccess.Render("●")
		}
		when := ""
		if !a.Timestamp.IsZero() {
			when = a.Timestamp.Format("01-02 15:04")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
			dot,
			lipgloss.NewStyle().Width(12).Render(a.UserName),
			a.Action,
			s.TitleMuted.Render(" "+a.Target),
			s.TitleMuted.Render("  "+when),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.ColumnHeader.Render("최근 활동")}, rows...)...,
	)
}
