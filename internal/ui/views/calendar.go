package views

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teamnexus/nexus/internal/models"
	"github.com/teamnexus/nexus/internal/ui/keys"
	"github.com/teamnexus/nexus/internal/ui/styles"
)

// CalendarView shows team schedules grouped by date
type CalendarView struct {
	saveSchedule func(context.Context, models.SchedulePatch) error
	styles       *styles.Styles
	keys         keys.KeyMap

	width  int
	height int

	schedules []models.Schedule
	user      *models.User

	cursor int
	errMsg string

	// Schedule creation
	creating     bool
	newName      textinput.Model
	newDate      textinput.Model
	newType      textinput.Model
	newNote      textinput.Model
	formFocusIdx int // 0=name, 1=date, 2=type, 3=note, 4=save
}

// NewCalendarView creates a new calendar view saving through the given
// callback
func NewCalendarView(saveSchedule func(context.Context, models.SchedulePatch) error) *CalendarView {
	newName := textinput.New()
	newName.Placeholder = "일정 이름"
	newName.CharLimit = 100

	newDate := textinput.New()
	newDate.Placeholder = "YYYY-MM-DD"
	newDate.CharLimit = 10

	newType := textinput.New()
	newType.Placeholder = "구분 (회의, 휴가, ...)"
	newType.CharLimit = 30

	newNote := textinput.New()
	newNote.Placeholder = "비고"
	newNote.CharLimit = 200

	return &CalendarView{
		saveSchedule: saveSchedule,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		newName:      newName,
		newDate:      newDate,
		newType:      newType,
		newNote:      newNote,
	}
}

// Init initializes the view
func (v *CalendarView) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the view wants exclusive key input
func (v *CalendarView) Capturing() bool {
	return v.creating
}

func (v *CalendarView) sorted() []models.Schedule {
	out := append([]models.Schedule{}, v.schedules...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Update handles messages
func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case SchedulesMsg:
		v.schedules = msg.Schedules
		v.user = msg.User
		v.cursor = clamp(v.cursor, 0, max(0, len(v.schedules)-1))
		return v, nil

	case saveDoneMsg:
		if msg.err != nil {
			v.errMsg = "저장 실패: " + msg.err.Error()
		}
		return v, nil

	case tea.KeyMsg:
		v.errMsg = ""
		if v.creating {
			return v.updateCreating(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.schedules)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.New):
			v.startCreate()
			return v, textinput.Blink
		}
		return v, nil
	}

	return v, nil
}

func (v *CalendarView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submit()

	case key.Matches(msg, v.keys.Tab):
		v.formFocusIdx = (v.formFocusIdx + 1) % 5
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.formFocusIdx = (v.formFocusIdx + 4) % 5
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.formFocusIdx < 4 {
			v.formFocusIdx++
			v.updateFormFocus()
			return v, nil
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	switch v.formFocusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDate, cmd = v.newDate.Update(msg)
	case 2:
		v.newType, cmd = v.newType.Update(msg)
	case 3:
		v.newNote, cmd = v.newNote.Update(msg)
	}
	return v, cmd
}

func (v *CalendarView) startCreate() {
	v.creating = true
	v.formFocusIdx = 0
	v.newName.Reset()
	v.newDate.Reset()
	v.newType.Reset()
	v.newNote.Reset()
	v.updateFormFocus()
}

func (v *CalendarView) updateFormFocus() {
	v.newName.Blur()
	v.newDate.Blur()
	v.newType.Blur()
	v.newNote.Blur()
	switch v.formFocusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDate.Focus()
	case 2:
		v.newType.Focus()
	case 3:
		v.newNote.Focus()
	}
}

func (v *CalendarView) submit() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	date := strings.TrimSpace(v.newDate.Value())
	if name == "" || date == "" {
		v.errMsg = "이름과 날짜를 입력하세요"
		return nil
	}

	kind := strings.TrimSpace(v.newType.Value())
	note := strings.TrimSpace(v.newNote.Value())
	email := ""
	if v.user != nil {
		email = v.user.Email
	}

	patch := models.SchedulePatch{
		Name:  &name,
		Date:  &date,
		Type:  &kind,
		Note:  &note,
		Email: &email,
	}

	v.creating = false
	save := v.saveSchedule
	return func() tea.Msg {
		return saveDoneMsg{err: save(context.Background(), patch)}
	}
}

// View renders the view
func (v *CalendarView) View() string {
	if v.creating {
		return v.renderCreateForm()
	}

	var b strings.Builder
	b.WriteString(v.renderScheduleList())
	if v.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.ErrorText.Render(v.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *CalendarView) renderScheduleList() string {
	s := v.styles

	schedules := v.sorted()
	if len(schedules) == 0 {
		return s.TitleMuted.Render("등록된 일정이 없습니다. 'n'으로 추가하세요.")
	}

	width := max(styles.ContentWidth(v.width)-6, 30)

	var rows []string
	lastDate := ""
	for i, sch := range schedules {
		if sch.Date != lastDate {
			rows = append(rows, s.ColumnHeader.Render(sch.Date))
			lastDate = sch.Date
		}

		line := sch.Name
		if sch.Type != "" {
			line = "[" + sch.Type + "] " + line
		}
		if sch.Note != "" {
			line += s.TitleMuted.Render("  " + sch.Note)
		}

		itemStyle := s.ListItem.Width(width)
		if i == v.cursor {
			itemStyle = s.ListSelected.Width(width)
		}
		rows = append(rows, itemStyle.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *CalendarView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	dateStyle := s.Input
	typeStyle := s.Input
	noteStyle := s.Input
	btnStyle := s.Button
	switch v.formFocusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		dateStyle = s.InputFocused
	case 2:
		typeStyle = s.InputFocused
	case 3:
		noteStyle = s.InputFocused
	case 4:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("새 일정"),
		"",
		"이름:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"날짜:",
		dateStyle.Width(14).Render(v.newDate.View()),
		"",
		"구분:",
		typeStyle.Width(inputWidth).Render(v.newType.View()),
		"",
		"비고:",
		noteStyle.Width(inputWidth).Render(v.newNote.View()),
		"",
		btnStyle.Render(" 저장 "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *CalendarView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		s.HelpKey.Render("↑↓") + " 이동 • " +
			s.HelpKey.Render("n") + " 새 일정",
	)
}
