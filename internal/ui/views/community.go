package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teamnexus/nexus/internal/models"
	"github.com/teamnexus/nexus/internal/ui/keys"
	"github.com/teamnexus/nexus/internal/ui/styles"
)

var allTopics = []models.TopicType{
	models.TopicStrategic,
	models.TopicOperational,
	models.TopicWarRoom,
}

// CommunityView shows the community board: posts grouped by topic, with a
// read view that bumps the view counter and a like action.
type CommunityView struct {
	savePost func(context.Context, models.PostPatch) error
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	posts []models.Post
	user  *models.User

	topicIdx int // 0 = all, 1.. = allTopics[topicIdx-1]
	cursor   int
	errMsg   string

	// Post detail view
	viewing    bool
	viewPostID string

	// Post creation
	creating     bool
	newTopicIdx  int
	newTitle     textinput.Model
	newContent   textarea.Model
	formFocusIdx int // 0=topic, 1=title, 2=content, 3=save
}

// NewCommunityView creates a new community view saving through the given
// callback
func NewCommunityView(savePost func(context.Context, models.PostPatch) error) *CommunityView {
	newTitle := textinput.New()
	newTitle.Placeholder = "게시글 제목"
	newTitle.CharLimit = 200

	newContent := textarea.New()
	newContent.Placeholder = "내용"
	newContent.CharLimit = 5000
	newContent.SetWidth(50)
	newContent.SetHeight(5)
	newContent.ShowLineNumbers = false

	return &CommunityView{
		savePost:   savePost,
		styles:     styles.NewStyles(),
		keys:       keys.DefaultKeyMap(),
		newTitle:   newTitle,
		newContent: newContent,
	}
}

// Init initializes the view
func (v *CommunityView) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the view wants exclusive key input
func (v *CommunityView) Capturing() bool {
	return v.creating || v.viewing
}

func (v *CommunityView) filteredPosts() []models.Post {
	if v.topicIdx == 0 {
		return v.posts
	}
	topic := allTopics[v.topicIdx-1]
	var out []models.Post
	for _, p := range v.posts {
		if p.Type == topic {
			out = append(out, p)
		}
	}
	return out
}

func (v *CommunityView) postByID(id string) *models.Post {
	for i := range v.posts {
		if v.posts[i].ID == id {
			return &v.posts[i]
		}
	}
	return nil
}

// Update handles messages
func (v *CommunityView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.newContent.SetWidth(clamp(styles.ContentWidth(v.width)-10, 20, 50))
		return v, nil

	case PostsMsg:
		v.posts = msg.Posts
		v.user = msg.User
		v.cursor = clamp(v.cursor, 0, max(0, len(v.filteredPosts())-1))
		if v.viewing && v.postByID(v.viewPostID) == nil {
			v.viewing = false
			v.viewPostID = ""
		}
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
		if v.viewing {
			return v.updateViewing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *CommunityView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Left):
		if v.topicIdx > 0 {
			v.topicIdx--
			v.cursor = 0
		}
	case key.Matches(msg, v.keys.Right):
		if v.topicIdx < len(allTopics) {
			v.topicIdx++
			v.cursor = 0
		}
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.filteredPosts())-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Enter):
		posts := v.filteredPosts()
		if len(posts) > 0 && v.cursor < len(posts) {
			return v, v.openPost(posts[v.cursor])
		}
	case key.Matches(msg, v.keys.Like):
		posts := v.filteredPosts()
		if len(posts) > 0 && v.cursor < len(posts) {
			return v, v.likePost(posts[v.cursor])
		}
	case key.Matches(msg, v.keys.New):
		v.startCreate()
		return v, textinput.Blink
	}
	return v, nil
}

func (v *CommunityView) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewing = false
		v.viewPostID = ""
	case key.Matches(msg, v.keys.Like):
		if post := v.postByID(v.viewPostID); post != nil {
			return v, v.likePost(*post)
		}
	}
	return v, nil
}

func (v *CommunityView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submitPost()

	case key.Matches(msg, v.keys.Tab):
		v.formFocusIdx = (v.formFocusIdx + 1) % 4
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.formFocusIdx = (v.formFocusIdx + 3) % 4
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Left):
		if v.formFocusIdx == 0 {
			v.newTopicIdx = (v.newTopicIdx + len(allTopics) - 1) % len(allTopics)
			return v, nil
		}

	case key.Matches(msg, v.keys.Right):
		if v.formFocusIdx == 0 {
			v.newTopicIdx = (v.newTopicIdx + 1) % len(allTopics)
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter):
		if v.formFocusIdx == 0 || v.formFocusIdx == 1 {
			v.formFocusIdx++
			v.updateFormFocus()
			return v, nil
		}
		if v.formFocusIdx == 3 {
			return v, v.submitPost()
		}
	}

	var cmd tea.Cmd
	switch v.formFocusIdx {
	case 1:
		v.newTitle, cmd = v.newTitle.Update(msg)
	case 2:
		v.newContent, cmd = v.newContent.Update(msg)
	}
	return v, cmd
}

func (v *CommunityView) startCreate() {
	v.creating = true
	v.formFocusIdx = 0
	v.newTopicIdx = 1 // operational
	v.newTitle.Reset()
	v.newContent.Reset()
	v.updateFormFocus()
}

func (v *CommunityView) updateFormFocus() {
	v.newTitle.Blur()
	v.newContent.Blur()
	switch v.formFocusIdx {
	case 1:
		v.newTitle.Focus()
	case 2:
		v.newContent.Focus()
	}
}

// openPost shows the post and bumps its view counter. The counter write is
// last-write-wins; two readers racing may lose a count, which is acceptable.
func (v *CommunityView) openPost(post models.Post) tea.Cmd {
	v.viewing = true
	v.viewPostID = post.ID

	views := post.Views + 1
	patch := models.PostPatch{ID: post.ID, Views: &views}
	save := v.savePost
	return func() tea.Msg {
		return saveDoneMsg{err: save(context.Background(), patch)}
	}
}

func (v *CommunityView) likePost(post models.Post) tea.Cmd {
	likes := post.Likes + 1
	patch := models.PostPatch{ID: post.ID, Likes: &likes}
	save := v.savePost
	return func() tea.Msg {
		return saveDoneMsg{err: save(context.Background(), patch)}
	}
}

func (v *CommunityView) submitPost() tea.Cmd {
	title := strings.TrimSpace(v.newTitle.Value())
	if title == "" {
		v.errMsg = "제목을 입력하세요"
		return nil
	}

	content := strings.TrimSpace(v.newContent.Value())
	topic := allTopics[v.newTopicIdx]
	author := ""
	if v.user != nil {
		author = v.user.Name
	}

	patch := models.PostPatch{
		Type:    &topic,
		Title:   &title,
		Content: &content,
		Author:  &author,
	}

	v.creating = false
	save := v.savePost
	return func() tea.Msg {
		return saveDoneMsg{err: save(context.Background(), patch)}
	}
}

// View renders the view
func (v *CommunityView) View() string {
	if v.creating {
		return v.renderCreateForm()
	}
	if v.viewing {
		return v.renderPostView()
	}

	var b strings.Builder
	b.WriteString(v.renderTopicTabs())
	b.WriteString("\n\n")
	b.WriteString(v.renderPostList())
	if v.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.ErrorText.Render(v.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *CommunityView) renderTopicTabs() string {
	s := v.styles

	labels := []string{"전체"}
	for _, t := range allTopics {
		labels = append(labels, t.Label())
	}

	var tabs []string
	for i, label := range labels {
		if i == v.topicIdx {
			tabs = append(tabs, s.SidebarSelected.Render(label))
		} else {
			tabs = append(tabs, s.SidebarItem.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
}

func (v *CommunityView) renderPostList() string {
	s := v.styles

	posts := v.filteredPosts()
	if len(posts) == 0 {
		return s.TitleMuted.Render("게시글이 없습니다. 'n'으로 작성하세요.")
	}

	width := max(styles.ContentWidth(v.width)-6, 30)

	var items []string
	for i, post := range posts {
		meta := fmt.Sprintf("%s · %s · 조회 %d · 좋아요 %d", post.Author, post.Date, post.Views, post.Likes)

		titleStyle := s.ListItem.Width(width)
		metaStyle := s.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
		if i == v.cursor {
			titleStyle = s.ListSelected.Width(width)
			metaStyle = s.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
		}

		item := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("["+post.Type.Label()+"] "+post.Title),
			metaStyle.Render(meta),
		)
		items = append(items, item+"\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *CommunityView) renderPostView() string {
	post := v.postByID(v.viewPostID)
	if post == nil {
		return ""
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(contentWidth-10, 20, 70)

	contentText := post.Content
	if contentText == "" {
		contentText = s.TitleMuted.Render("내용 없음")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("["+post.Type.Label()+"] "+post.Title),
		s.TitleMuted.Render(fmt.Sprintf("%s · %s · 조회 %d · 좋아요 %d", post.Author, post.Date, post.Views, post.Likes)),
		"",
		lipgloss.NewStyle().Width(textWidth).Render(contentText),
		"",
		s.Help.Render(s.HelpKey.Render("+")+" 좋아요 • "+s.HelpKey.Render("esc")+" 닫기"),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *CommunityView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	topicStyle := s.Button
	titleStyle := s.Input
	contentStyle := s.Input
	btnStyle := s.Button
	switch v.formFocusIdx {
	case 0:
		topicStyle = s.ButtonFocused
	case 1:
		titleStyle = s.InputFocused
	case 2:
		contentStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("새 게시글"),
		"",
		topicStyle.Render("분류: "+allTopics[v.newTopicIdx].Label()),
		"",
		"제목:",
		titleStyle.Width(inputWidth).Render(v.newTitle.View()),
		"",
		"내용:",
		contentStyle.Render(v.newContent.View()),
		"",
		btnStyle.Render(" 등록 "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *CommunityView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		s.HelpKey.Render("←→") + " 분류 • " +
			s.HelpKey.Render("↑↓") + " 이동 • " +
			s.HelpKey.Render("↵") + " 읽기 • " +
			s.HelpKey.Render("+") + " 좋아요 • " +
			s.HelpKey.Render("n") + " 새 글",
	)
}
