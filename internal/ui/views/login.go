package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teamnexus/nexus/internal/api"
	"github.com/teamnexus/nexus/internal/models"
	"github.com/teamnexus/nexus/internal/ui/keys"
	"github.com/teamnexus/nexus/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// LoginView collects credentials and verifies them against the data service.
// It holds only the authenticate call, not the full client.
type LoginView struct {
	authenticate func(context.Context, string, string) (*models.User, error)
	styles       *styles.Styles
	keys         keys.KeyMap

	width  int
	height int

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=button
	errMsg   string
	busy     bool
}

// NewLoginView creates a login view over the given authenticate call
func NewLoginView(authenticate func(context.Context, string, string) (*models.User, error)) *LoginView {
	email := textinput.New()
	email.Placeholder = "email@nexus.team"
	email.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	v := &LoginView{
		authenticate: authenticate,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		email:        email,
		password:     password,
	}
	v.email.Focus()
	return v
}

// Init initializes the view
func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the form for a fresh session
func (v *LoginView) Reset() {
	v.email.Reset()
	v.password.Reset()
	v.focusIdx = 0
	v.errMsg = ""
	v.busy = false
	v.updateFocus()
}

type loginFailedMsg struct {
	err error
}

// Update handles messages
func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginFailedMsg:
		v.busy = false
		if errors.Is(msg.err, api.ErrBadCredentials) {
			v.errMsg = "이메일 또는 비밀번호가 올바르지 않습니다"
		} else {
			v.errMsg = msg.err.Error()
		}
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.ShiftTab):
			v.focusIdx = (v.focusIdx + 2) % 3
			v.updateFocus()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.focusIdx++
				v.updateFocus()
				return v, textinput.Blink
			}
			return v, v.submit()

		case msg.String() == "ctrl+s":
			return v, v.submit()
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case 0:
			v.email, cmd = v.email.Update(msg)
		case 1:
			v.password, cmd = v.password.Update(msg)
		}
		return v, cmd
	}

	return v, nil
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errMsg = "이메일과 비밀번호를 입력하세요"
		return nil
	}

	v.busy = true
	v.errMsg = ""
	auth := v.authenticate
	return func() tea.Msg {
		user, err := auth(context.Background(), email, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return LoggedIn{User: *user}
	}
}

// View renders the view
func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 24, 40)

	emailStyle := s.Input
	passwordStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passwordStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	status := ""
	if v.busy {
		status = s.TitleMuted.Render("확인 중...")
	} else if v.errMsg != "" {
		status = s.ErrorText.Render(v.errMsg)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("NEXUS"),
		s.TitleMuted.Render("팀 워크스페이스 로그인"),
		"",
		"이메일:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"",
		"비밀번호:",
		passwordStyle.Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(" 로그인 "),
		"",
		status,
		"",
		s.TitleMuted.Render("Tab: next • ↵: login • Ctrl+C: quit"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
