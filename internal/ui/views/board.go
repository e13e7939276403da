package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teamnexus/nexus/internal/models"
	"github.com/teamnexus/nexus/internal/ui/keys"
	"github.com/teamnexus/nexus/internal/ui/styles"
)

var allPriorities = []models.TaskPriority{
	models.PriorityEmergency,
	models.PriorityHigh,
	models.PriorityMedium,
	models.PriorityLow,
}

// BoardView shows tasks as a kanban board with one column per status. It
// holds a save callback for tasks and nothing else; no other entity kind is
// writable from here.
type BoardView struct {
	saveTask func(context.Context, models.TaskPatch) error
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	tasks []models.Task
	user  *models.User

	colIdx int
	rowIdx int
	errMsg string

	// Task detail view
	viewing    bool
	viewTaskID string

	// Comment input inside the detail view
	commentInput        textarea.Model
	commentInputFocused bool

	// Task creation/editing
	editing      bool
	editingNew   bool
	editTaskID   string
	editTitle    textinput.Model
	editContent  textarea.Model
	editAssignee textinput.Model
	editDue      textinput.Model
	statusIdx    int
	priorityIdx  int
	editFocusIdx int // 0=title, 1=content, 2=assignee, 3=due, 4=status, 5=priority, 6=save
}

// NewBoardView creates a new board view saving through the given callback
func NewBoardView(saveTask func(context.Context, models.TaskPatch) error) *BoardView {
	editTitle := textinput.New()
	editTitle.Placeholder = "업무 제목"
	editTitle.CharLimit = 200

	editContent := textarea.New()
	editContent.Placeholder = "내용"
	editContent.CharLimit = 2000
	editContent.SetWidth(50)
	editContent.SetHeight(4)
	editContent.ShowLineNumbers = false

	editAssignee := textinput.New()
	editAssignee.Placeholder = "담당자"
	editAssignee.CharLimit = 50

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	commentInput := textarea.New()
	commentInput.Placeholder = "댓글 작성..."
	commentInput.CharLimit = 1000
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	return &BoardView{
		saveTask:     saveTask,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		editTitle:    editTitle,
		editContent:  editContent,
		editAssignee: editAssignee,
		editDue:      editDue,
		commentInput: commentInput,
	}
}

// Init initializes the view
func (v *BoardView) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the view wants exclusive key input
func (v *BoardView) Capturing() bool {
	return v.editing || v.viewing
}

func (v *BoardView) columnTasks(status models.TaskStatus) []models.Task {
	var out []models.Task
	for _, t := range v.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (v *BoardView) selectedTask() *models.Task {
	col := v.columnTasks(models.AllStatuses[v.colIdx])
	if len(col) == 0 || v.rowIdx >= len(col) {
		return nil
	}
	return &col[v.rowIdx]
}

func (v *BoardView) taskByID(id string) *models.Task {
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			return &v.tasks[i]
		}
	}
	return nil
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 50)
		v.editContent.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case TasksMsg:
		v.tasks = msg.Tasks
		v.user = msg.User
		v.clampCursor()
		if v.viewing && v.taskByID(v.viewTaskID) == nil {
			v.viewing = false
			v.viewTaskID = ""
		}
		return v, nil

	case saveDoneMsg:
		if msg.err != nil {
			v.errMsg = "저장 실패: " + msg.err.Error()
		}
		return v, nil

	case tea.KeyMsg:
		v.errMsg = ""
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.viewing {
			return v.updateViewing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *BoardView) clampCursor() {
	v.colIdx = clamp(v.colIdx, 0, len(models.AllStatuses)-1)
	col := v.columnTasks(models.AllStatuses[v.colIdx])
	v.rowIdx = clamp(v.rowIdx, 0, max(0, len(col)-1))
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Left):
		if v.colIdx > 0 {
			v.colIdx--
			v.clampCursor()
		}
	case key.Matches(msg, v.keys.Right):
		if v.colIdx < len(models.AllStatuses)-1 {
			v.colIdx++
			v.clampCursor()
		}
	case key.Matches(msg, v.keys.Up):
		if v.rowIdx > 0 {
			v.rowIdx--
		}
	case key.Matches(msg, v.keys.Down):
		col := v.columnTasks(models.AllStatuses[v.colIdx])
		if v.rowIdx < len(col)-1 {
			v.rowIdx++
		}
	case key.Matches(msg, v.keys.Enter):
		if task := v.selectedTask(); task != nil {
			v.viewing = true
			v.viewTaskID = task.ID
			v.commentInputFocused = false
			v.commentInput.Reset()
		}
	case key.Matches(msg, v.keys.Edit):
		if task := v.selectedTask(); task != nil {
			v.startEdit(*task)
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.New):
		v.startNew()
		return v, textinput.Blink
	}
	return v, nil
}

func (v *BoardView) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.commentInputFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentInputFocused = false
			v.commentInput.Blur()
			return v, nil
		case msg.String() == "ctrl+s":
			return v, v.submitComment()
		default:
			var cmd tea.Cmd
			v.commentInput, cmd = v.commentInput.Update(msg)
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewing = false
		v.viewTaskID = ""
	case key.Matches(msg, v.keys.Edit):
		if task := v.taskByID(v.viewTaskID); task != nil {
			v.viewing = false
			v.startEdit(*task)
			return v, textinput.Blink
		}
	case msg.String() == "c":
		v.commentInputFocused = true
		v.commentInput.Focus()
		return v, textarea.Blink
	}
	return v, nil
}

func (v *BoardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.save()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 7
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.editFocusIdx = (v.editFocusIdx + 6) % 7
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter on single-line fields moves to the next one
		if v.editFocusIdx == 0 || v.editFocusIdx == 2 || v.editFocusIdx == 3 {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
		if v.editFocusIdx == 6 {
			return v, v.save()
		}

	case key.Matches(msg, v.keys.Left):
		if v.editFocusIdx == 4 {
			v.statusIdx = (v.statusIdx + len(models.AllStatuses) - 1) % len(models.AllStatuses)
			return v, nil
		}
		if v.editFocusIdx == 5 {
			v.priorityIdx = (v.priorityIdx + len(allPriorities) - 1) % len(allPriorities)
			return v, nil
		}

	case key.Matches(msg, v.keys.Right):
		if v.editFocusIdx == 4 {
			v.statusIdx = (v.statusIdx + 1) % len(models.AllStatuses)
			return v, nil
		}
		if v.editFocusIdx == 5 {
			v.priorityIdx = (v.priorityIdx + 1) % len(allPriorities)
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editContent, cmd = v.editContent.Update(msg)
	case 2:
		v.editAssignee, cmd = v.editAssignee.Update(msg)
	case 3:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func (v *BoardView) startNew() {
	v.editing = true
	v.editingNew = true
	v.editTaskID = ""
	v.editFocusIdx = 0
	v.editTitle.Reset()
	v.editContent.Reset()
	v.editAssignee.Reset()
	v.editDue.Reset()
	v.statusIdx = 0
	v.priorityIdx = 2 // medium
	v.updateEditFocus()
}

func (v *BoardView) startEdit(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTaskID = task.ID
	v.editFocusIdx = 0
	v.editTitle.SetValue(task.Title)
	v.editContent.SetValue(task.Content)
	v.editAssignee.SetValue(task.AssigneeName)
	v.editDue.SetValue(task.DueDate)
	v.statusIdx = 0
	for i, st := range models.AllStatuses {
		if st == task.Status {
			v.statusIdx = i
		}
	}
	v.priorityIdx = 2
	for i, p := range allPriorities {
		if p == task.Priority {
			v.priorityIdx = i
		}
	}
	v.updateEditFocus()
}

func (v *BoardView) updateEditFocus() {
	v.editTitle.Blur()
	v.editContent.Blur()
	v.editAssignee.Blur()
	v.editDue.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editContent.Focus()
	case 2:
		v.editAssignee.Focus()
	case 3:
		v.editDue.Focus()
	}
}

func (v *BoardView) save() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.errMsg = "제목을 입력하세요"
		return nil
	}

	content := strings.TrimSpace(v.editContent.Value())
	assignee := strings.TrimSpace(v.editAssignee.Value())
	due := strings.TrimSpace(v.editDue.Value())
	status := models.AllStatuses[v.statusIdx]
	priority := allPriorities[v.priorityIdx]

	patch := models.TaskPatch{
		ID:           v.editTaskID,
		Title:        &title,
		Content:      &content,
		Status:       &status,
		Priority:     &priority,
		AssigneeName: &assignee,
		DueDate:      &due,
	}

	v.editing = false
	save := v.saveTask
	return func() tea.Msg {
		return saveDoneMsg{err: save(context.Background(), patch)}
	}
}

func (v *BoardView) submitComment() tea.Cmd {
	content := strings.TrimSpace(v.commentInput.Value())
	if content == "" {
		return nil
	}
	task := v.taskByID(v.viewTaskID)
	if task == nil {
		return nil
	}

	author := ""
	if v.user != nil {
		author = v.user.Name
	}
	comments := append(append([]models.Comment{}, task.Comments...), models.Comment{
		Author:    author,
		Content:   content,
		CreatedAt: time.Now(),
	})

	patch := models.TaskPatch{
		ID:       task.ID,
		Comments: &comments,
	}

	v.commentInput.Reset()
	v.commentInputFocused = false
	v.commentInput.Blur()

	save := v.saveTask
	return func() tea.Msg {
		return saveDoneMsg{err: save(context.Background(), patch)}
	}
}

// View renders the view
func (v *BoardView) View() string {
	if v.editing {
		return v.renderEditForm()
	}
	if v.viewing {
		return v.renderTaskView()
	}

	var b strings.Builder
	b.WriteString(v.renderColumns())
	if v.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.ErrorText.Render(v.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *BoardView) renderColumns() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	colWidth := max(contentWidth/len(models.AllStatuses)-2, 14)

	var cols []string
	for ci, status := range models.AllStatuses {
		tasks := v.columnTasks(status)

		header := s.ColumnHeader.Render(status.Label())
		if ci == v.colIdx {
			header = s.Title.Render(status.Label())
		}

		items := []string{header + s.TitleMuted.Render(fmt.Sprintf(" (%d)", len(tasks)))}
		for ri, task := range tasks {
			items = append(items, v.renderCard(task, colWidth, ci == v.colIdx && ri == v.rowIdx))
		}
		if len(tasks) == 0 {
			items = append(items, s.TitleMuted.Render("  -"))
		}

		cols = append(cols, s.Column.Width(colWidth+2).Render(
			lipgloss.JoinVertical(lipgloss.Left, items...),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (v *BoardView) renderCard(task models.Task, width int, selected bool) string {
	s := v.styles

	cardStyle := s.Card
	if selected {
		cardStyle = s.CardFocused
	}

	badge := s.Badge.Render(task.Priority.Label())
	if task.Priority == models.PriorityEmergency {
		badge = s.BadgeUrgent.Render(task.Priority.Label())
	} else if task.Priority == models.PriorityHigh {
		badge = s.BadgeWarning.Render(task.Priority.Label())
	}

	lines := []string{
		lipgloss.NewStyle().Width(width - 2).Render(task.Title),
		badge,
	}
	if task.AssigneeName != "" {
		lines = append(lines, s.TitleMuted.Render(task.AssigneeName))
	}

	return cardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *BoardView) renderTaskView() string {
	task := v.taskByID(v.viewTaskID)
	if task == nil {
		return ""
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(contentWidth-10, 20, 70)

	contentText := task.Content
	if contentText == "" {
		contentText = s.TitleMuted.Render("내용 없음")
	}

	var commentsContent string
	if len(task.Comments) == 0 {
		commentsContent = s.TitleMuted.Render("댓글이 없습니다")
	} else {
		var commentLines []string
		for _, c := range task.Comments {
			header := s.HelpKey.Render(c.Author)
			if !c.CreatedAt.IsZero() {
				header += s.TitleMuted.Render("  " + c.CreatedAt.Format("2006-01-02 15:04"))
			}
			commentLines = append(commentLines, lipgloss.JoinVertical(lipgloss.Left,
				header,
				lipgloss.NewStyle().Width(textWidth).Render(c.Content),
			))
		}
		commentsContent = lipgloss.JoinVertical(lipgloss.Left, commentLines...)
	}

	commentInputStyle := s.Input
	if v.commentInputFocused {
		commentInputStyle = s.InputFocused
	}

	var helpText string
	if v.commentInputFocused {
		helpText = s.Help.Render(s.HelpKey.Render("ctrl+s") + " 등록 • " + s.HelpKey.Render("esc") + " 취소")
	} else {
		helpText = s.Help.Render(s.HelpKey.Render("e") + " 수정 • " + s.HelpKey.Render("c") + " 댓글 • " + s.HelpKey.Render("esc") + " 닫기")
	}

	meta := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Badge.Render(task.Status.Label()),
		s.Badge.Render(task.Priority.Label()),
	)
	if task.AssigneeName != "" {
		meta += s.TitleMuted.Render("  담당: " + task.AssigneeName)
	}
	if task.DueDate != "" {
		meta += s.TitleMuted.Render("  마감: " + task.DueDate)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		meta,
		"",
		lipgloss.NewStyle().Width(textWidth).Render(contentText),
		"",
		s.TitleMuted.Render("댓글"),
		commentsContent,
		"",
		commentInputStyle.Render(v.commentInput.View()),
		"",
		helpText,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *BoardView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "새 업무"
	if !v.editingNew {
		formTitle = "업무 수정"
	}

	titleStyle := s.Input
	contentStyle := s.Input
	assigneeStyle := s.Input
	dueStyle := s.Input
	statusStyle := s.Button
	priorityStyle := s.Button
	btnStyle := s.Button

	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		contentStyle = s.InputFocused
	case 2:
		assigneeStyle = s.InputFocused
	case 3:
		dueStyle = s.InputFocused
	case 4:
		statusStyle = s.ButtonFocused
	case 5:
		priorityStyle = s.ButtonFocused
	case 6:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"제목:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"내용:",
		contentStyle.Render(v.editContent.View()),
		"",
		"담당자:",
		assigneeStyle.Width(inputWidth).Render(v.editAssignee.View()),
		"",
		"마감일:",
		dueStyle.Width(14).Render(v.editDue.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			statusStyle.Render("상태: "+models.AllStatuses[v.statusIdx].Label()),
			"  ",
			priorityStyle.Render("우선순위: "+allPriorities[v.priorityIdx].Label()),
		),
		"",
		btnStyle.Render(" 저장 "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		s.HelpKey.Render("←→") + " 컬럼 • " +
			s.HelpKey.Render("↑↓") + " 이동 • " +
			s.HelpKey.Render("↵") + " 상세 • " +
			s.HelpKey.Render("e") + " 수정 • " +
			s.HelpKey.Render("n") + " 새 업무",
	)
}
