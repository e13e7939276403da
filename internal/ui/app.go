package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teamnexus/nexus/internal/api"
	"github.com/teamnexus/nexus/internal/models"
	"github.com/teamnexus/nexus/internal/ui/keys"
	"github.com/teamnexus/nexus/internal/ui/styles"
	"github.com/teamnexus/nexus/internal/ui/views"
	"github.com/teamnexus/nexus/internal/workspace"
)

// Tab identifies one of the workspace panels. Exactly one is active at a
// time.
type Tab int

const (
	TabDashboard Tab = iota
	TabBoard
	TabCommunity
	TabCalendar
	TabTeam
	tabCount
)

// Title returns the panel title shown in the header and sidebar
func (t Tab) Title() string {
	switch t {
	case TabDashboard:
		return "대시보드"
	case TabBoard:
		return "업무 보드"
	case TabCommunity:
		return "커뮤니티"
	case TabCalendar:
		return "일정"
	case TabTeam:
		return "팀원"
	}
	return ""
}

// panel is the behavior every tab view shares
type panel interface {
	Update(msg tea.Msg) (tea.Model, tea.Cmd)
	View() string
	Capturing() bool
}

type App struct {
	ws     *workspace.App
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	tab  Tab
	spin spinner.Model

	login     *views.LoginView
	dashboard *views.DashboardView
	board     *views.BoardView
	community *views.CommunityView
	calendar  *views.CalendarView
	team      *views.TeamView

	statusErr string
}

// NewApp creates the root application model
func NewApp(ws *workspace.App, client api.Client) *App {
	s := styles.NewStyles()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)

	return &App{
		ws:        ws,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		tab:       TabDashboard,
		spin:      spin,
		login:     views.NewLoginView(client.Authenticate),
		dashboard: views.NewDashboardView(),
		board:     views.NewBoardView(ws.SaveTask),
		community: views.NewCommunityView(ws.SavePost),
		calendar:  views.NewCalendarView(ws.SaveSchedule),
		team:      views.NewTeamView(),
	}
}

type eventMsg struct {
	ev workspace.Event
}

func (a *App) waitForEvent() tea.Cmd {
	events := a.ws.Events()
	return func() tea.Msg {
		return eventMsg{ev: <-events}
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.login.Init(), a.waitForEvent())
}

func (a *App) current() panel {
	switch a.tab {
	case TabBoard:
		return a.board
	case TabCommunity:
		return a.community
	case TabCalendar:
		return a.calendar
	case TabTeam:
		return a.team
	}
	return a.dashboard
}

// selectTab activates the given panel. Out-of-range values are ignored, and
// selecting the active panel is a no-op.
func (a *App) selectTab(t Tab) {
	if t < 0 || t >= tabCount {
		return
	}
	a.tab = t
}

// broadcast sends a message to every panel
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range []panel{a.dashboard, a.board, a.community, a.calendar, a.team} {
		_, cmd := p.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) panelSize() tea.WindowSizeMsg {
	contentWidth := styles.ContentWidth(a.width)
	return tea.WindowSizeMsg{
		Width:  max(contentWidth-styles.SidebarWidth-4, 20),
		Height: max(a.height-6, 5),
	}
}

// pushSnapshot hands each panel the slice of the snapshot it owns. Panels
// that author content also get the session user; nothing else crosses the
// boundary.
func (a *App) pushSnapshot() tea.Cmd {
	data := a.ws.Snapshot()
	user := a.ws.User()
	if data == nil {
		data = &models.AppData{}
	}

	sends := []struct {
		p   panel
		msg tea.Msg
	}{
		{a.dashboard, views.OverviewMsg{Tasks: data.Tasks, Projects: data.Projects, Activities: data.Activities}},
		{a.board, views.TasksMsg{Tasks: data.Tasks, User: user}},
		{a.community, views.PostsMsg{Posts: data.Posts, User: user}},
		{a.calendar, views.SchedulesMsg{Schedules: data.Schedules, User: user}},
		{a.team, views.MembersMsg{Members: data.Members}},
	}
	var cmds []tea.Cmd
	for _, s := range sends {
		_, cmd := s.p.Update(s.msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.Update(msg)
		return a, a.broadcast(a.panelSize())

	case spinner.TickMsg:
		if !a.ws.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case views.LoggedIn:
		a.ws.Login(msg.User)
		return a, a.spin.Tick

	case eventMsg:
		return a.handleEvent(msg.ev)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.ws.User() == nil {
		_, cmd := a.login.Update(msg)
		return a, cmd
	}
	_, cmd := a.current().Update(msg)
	return a, cmd
}

func (a *App) handleEvent(ev workspace.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{a.waitForEvent()}

	switch ev := ev.(type) {
	case workspace.SnapshotUpdated:
		a.statusErr = ""
		cmds = append(cmds, a.pushSnapshot())

	case workspace.RefreshFailed:
		a.statusErr = "동기화 실패: " + ev.Err.Error()

	case workspace.SessionChanged:
		if a.ws.User() == nil {
			a.login.Reset()
			a.selectTab(TabDashboard)
			a.statusErr = ""
			cmds = append(cmds, a.pushSnapshot())
		} else {
			a.selectTab(TabDashboard)
			cmds = append(cmds, a.spin.Tick)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C quits from anywhere
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.ws.User() == nil {
		_, cmd := a.login.Update(msg)
		return a, cmd
	}

	if a.ws.Loading() {
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	if !a.current().Capturing() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.Logout):
			a.ws.Logout()
			return a, nil

		case key.Matches(msg, a.keys.Tab):
			a.selectTab((a.tab + 1) % tabCount)
			return a, nil

		case key.Matches(msg, a.keys.ShiftTab):
			a.selectTab((a.tab + tabCount - 1) % tabCount)
			return a, nil

		case key.Matches(msg, a.keys.Refresh):
			ws := a.ws
			return a, func() tea.Msg {
				ws.Refresh()
				return nil
			}

		case msg.String() >= "1" && msg.String() <= "5":
			a.selectTab(Tab(int(msg.String()[0] - '1')))
			return a, nil
		}
	}

	_, cmd := a.current().Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.ws.User() == nil {
		return a.login.View()
	}

	if a.ws.Loading() {
		content := lipgloss.JoinVertical(lipgloss.Center,
			a.spin.View()+" 데이터 동기화 중...",
			"",
			a.styles.TitleMuted.Render("잠시만 기다려 주세요"),
		)
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			content,
		)
	}

	return a.renderChrome()
}

func (a *App) renderChrome() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	// Header
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Title.Render("NEXUS"),
		s.TitleMuted.Render(" · "+a.tab.Title()),
		s.TitleMuted.Render("  "+time.Now().Format("2006-01-02")),
	)
	if a.statusErr != "" {
		header += "  " + s.ErrorText.Render(a.statusErr)
	}
	header = s.TitleBar.Width(contentWidth).Render(header)

	// Sidebar
	var items []string
	for t := TabDashboard; t < tabCount; t++ {
		label := string('1'+rune(t)) + " " + t.Title()
		if t == a.tab {
			items = append(items, s.SidebarSelected.Render(label))
		} else {
			items = append(items, s.SidebarItem.Render(label))
		}
	}
	if user := a.ws.User(); user != nil {
		card := lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render(user.Name),
			s.TitleMuted.Render(user.Position),
			s.TitleMuted.Render(user.Role.Label()),
		)
		items = append(items, "", s.UserCard.Render(card))
	}
	items = append(items, "", s.TitleMuted.Render("ctrl+q 로그아웃"))
	sidebar := s.Sidebar.Height(max(a.height-4, 10)).Render(
		lipgloss.JoinVertical(lipgloss.Left, items...),
	)

	// Active panel
	body := lipgloss.NewStyle().Padding(1, 2).Render(a.current().View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body),
	)
	return styles.CenterView(content, a.width, a.height)
}
