package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teamnexus/nexus/internal/models"
	"github.com/teamnexus/nexus/internal/ui/keys"
	"github.com/teamnexus/nexus/internal/ui/styles"
)

// TeamView shows the read-only member directory
type TeamView struct {
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	members []models.User
	cursor  int
}

// NewTeamView creates a new team view
func NewTeamView() *TeamView {
	return &TeamView{
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

// Init initializes the view
func (v *TeamView) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the view wants exclusive key input
func (v *TeamView) Capturing() bool {
	return false
}

// Update handles messages
func (v *TeamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height

	case MembersMsg:
		v.members = msg.Members
		v.cursor = clamp(v.cursor, 0, max(0, len(v.members)-1))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.members)-1 {
				v.cursor++
			}
		}
	}
	return v, nil
}

// View renders the view
func (v *TeamView) View() string {
	s := v.styles

	if len(v.members) == 0 {
		return s.TitleMuted.Render("팀원 정보가 없습니다")
	}

	width := max(styles.ContentWidth(v.width)-6, 30)
	barWidth := clamp(width-60, 8, 20)

	var rows []string
	for i, m := range v.members {
		dot := s.BadgeSuccess.Render("●")
		if m.Status == models.Busy {
			dot = s.BadgeUrgent.Render("●")
		}

		role := s.Badge.Render(m.Role.Label())
		position := m.Position
		if m.Department != "" {
			position = m.Department + " / " + m.Position
		}

		workload := ""
		if m.Workload != nil {
			workload = v.renderWorkload(*m.Workload, barWidth)
		}

		line := lipgloss.JoinHorizontal(lipgloss.Center,
			dot,
			lipgloss.NewStyle().Width(12).Render(m.Name),
			role,
			lipgloss.NewStyle().Width(24).Render(s.TitleMuted.Render(position)),
			workload,
		)

		itemStyle := s.ListItem.Width(width)
		if i == v.cursor {
			itemStyle = s.ListSelected.Width(width)
		}
		rows = append(rows, itemStyle.Render(line))

		if i == v.cursor && len(m.Expertise) > 0 {
			tags := s.TitleMuted.Render("    " + strings.Join(m.Expertise, " · "))
			rows = append(rows, tags)
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n")
	b.WriteString(s.Help.Render(s.HelpKey.Render("↑↓") + " 이동"))
	return b.String()
}

func (v *TeamView) renderWorkload(pct, width int) string {
	s := v.styles
	pct = clamp(pct, 0, 100)
	filled := pct * width / 100
	bar := s.ProgressFill.Render(strings.Repeat("█", filled)) +
		s.ProgressTrack.Render(strings.Repeat("░", width-filled))
	return bar + s.TitleMuted.Render(fmt.Sprintf(" %d%%", pct))
}
