package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire documents are dual-keyed: User, Task, Post, Schedule and Comment carry
// every field under both its Korean and English name. Both keys are emitted on
// marshal; on unmarshal either key is accepted, and a document where a
// populated pair disagrees is rejected rather than silently picking a side.

func pickString(koKey, ko, enKey, en string) (string, error) {
	if ko != "" && en != "" && ko != en {
		return "", fmt.Errorf("locale pair mismatch: %s=%q, %s=%q", koKey, ko, enKey, en)
	}
	if en != "" {
		return en, nil
	}
	return ko, nil
}

func pickEnum[T comparable](koKey, ko, enKey, en string, parse func(string) (T, error)) (T, error) {
	var zero T
	if ko == "" && en == "" {
		return zero, nil
	}
	if ko != "" && en != "" {
		kv, err := parse(ko)
		if err != nil {
			return zero, fmt.Errorf("%s: %w", koKey, err)
		}
		ev, err := parse(en)
		if err != nil {
			return zero, fmt.Errorf("%s: %w", enKey, err)
		}
		if kv != ev {
			return zero, fmt.Errorf("locale pair mismatch: %s=%q, %s=%q", koKey, ko, enKey, en)
		}
		return kv, nil
	}
	raw := ko
	key := koKey
	if en != "" {
		raw = en
		key = enKey
	}
	v, err := parse(raw)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func pickInt(koKey string, ko *int, enKey string, en *int) (int, error) {
	if ko != nil && en != nil && *ko != *en {
		return 0, fmt.Errorf("locale pair mismatch: %s=%d, %s=%d", koKey, *ko, enKey, *en)
	}
	if en != nil {
		return *en, nil
	}
	if ko != nil {
		return *ko, nil
	}
	return 0, nil
}

func pickList(koKey string, ko []string, enKey string, en []string) ([]string, error) {
	if ko != nil && en != nil {
		if len(ko) != len(en) {
			return nil, fmt.Errorf("locale pair mismatch: %s and %s differ", koKey, enKey)
		}
		for i := range ko {
			if ko[i] != en[i] {
				return nil, fmt.Errorf("locale pair mismatch: %s and %s differ", koKey, enKey)
			}
		}
	}
	if en != nil {
		return en, nil
	}
	return ko, nil
}

// parseWireTime accepts the timestamp shapes the service produces
func parseWireTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func formatWireTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

type userJSON struct {
	EmployeeIDKo string       `json:"사번,omitempty"`
	EmployeeID   string       `json:"employeeId,omitempty"`
	EmailKo      string       `json:"이메일,omitempty"`
	Email        string       `json:"email,omitempty"`
	NameKo       string       `json:"이름,omitempty"`
	Name         string       `json:"name,omitempty"`
	RoleKo       string       `json:"권한,omitempty"`
	Role         string       `json:"role,omitempty"`
	PositionKo   string       `json:"직위,omitempty"`
	Position     string       `json:"position,omitempty"`
	DepartmentKo string       `json:"부서,omitempty"`
	Department   string       `json:"department,omitempty"`
	AvatarKo     string       `json:"아바타색상,omitempty"`
	Avatar       string       `json:"avatarColor,omitempty"`
	ExpertiseKo  []string     `json:"전문분야,omitempty"`
	Expertise    []string     `json:"expertise,omitempty"`
	WorkloadKo   *int         `json:"업무부하,omitempty"`
	Workload     *int         `json:"workload,omitempty"`
	Status       Availability `json:"currentStatus,omitempty"`
}

// MarshalJSON emits the dual-keyed wire form
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		EmployeeIDKo: u.EmployeeID, EmployeeID: u.EmployeeID,
		EmailKo: u.Email, Email: u.Email,
		NameKo: u.Name, Name: u.Name,
		RoleKo: u.Role.Label(), Role: string(u.Role),
		PositionKo: u.Position, Position: u.Position,
		DepartmentKo: u.Department, Department: u.Department,
		AvatarKo: u.AvatarColor, Avatar: u.AvatarColor,
		ExpertiseKo: u.Expertise, Expertise: u.Expertise,
		WorkloadKo: u.Workload, Workload: u.Workload,
		Status: u.Status,
	})
}

// UnmarshalJSON accepts either key of each pair and rejects disagreements
func (u *User) UnmarshalJSON(data []byte) error {
	var w userJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var err error
	if u.EmployeeID, err = pickString("사번", w.EmployeeIDKo, "employeeId", w.EmployeeID); err != nil {
		return err
	}
	if u.Email, err = pickString("이메일", w.EmailKo, "email", w.Email); err != nil {
		return err
	}
	if u.Name, err = pickString("이름", w.NameKo, "name", w.Name); err != nil {
		return err
	}
	if u.Role, err = pickEnum("권한", w.RoleKo, "role", w.Role, ParseRole); err != nil {
		return err
	}
	if u.Position, err = pickString("직위", w.PositionKo, "position", w.Position); err != nil {
		return err
	}
	if u.Department, err = pickString("부서", w.DepartmentKo, "department", w.Department); err != nil {
		return err
	}
	if u.AvatarColor, err = pickString("아바타색상", w.AvatarKo, "avatarColor", w.Avatar); err != nil {
		return err
	}
	if u.Expertise, err = pickList("전문분야", w.ExpertiseKo, "expertise", w.Expertise); err != nil {
		return err
	}
	if u.Workload, err = pickIntPtr("업무부하", w.WorkloadKo, "workload", w.Workload); err != nil {
		return err
	}
	u.Status = w.Status
	return nil
}

func pickIntPtr(koKey string, ko *int, enKey string, en *int) (*int, error) {
	if ko != nil && en != nil && *ko != *en {
		return nil, fmt.Errorf("locale pair mismatch: %s=%d, %s=%d", koKey, *ko, enKey, *en)
	}
	if en != nil {
		return en, nil
	}
	return ko, nil
}

type commentJSON struct {
	ID        string `json:"id"`
	AuthorKo  string `json:"작성자,omitempty"`
	Author    string `json:"author,omitempty"`
	ContentKo string `json:"내용,omitempty"`
	Content   string `json:"content,omitempty"`
	CreatedKo string `json:"작성일,omitempty"`
	Created   string `json:"createdAt,omitempty"`
}

// MarshalJSON emits the dual-keyed wire form
func (c Comment) MarshalJSON() ([]byte, error) {
	created := formatWireTime(c.CreatedAt)
	return json.Marshal(commentJSON{
		ID:       c.ID,
		AuthorKo: c.Author, Author: c.Author,
		ContentKo: c.Content, Content: c.Content,
		CreatedKo: created, Created: created,
	})
}

// UnmarshalJSON accepts either key of each pair and rejects disagreements
func (c *Comment) UnmarshalJSON(data []byte) error {
	var w commentJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var err error
	c.ID = w.ID
	if c.Author, err = pickString("작성자", w.AuthorKo, "author", w.Author); err != nil {
		return err
	}
	if c.Content, err = pickString("내용", w.ContentKo, "content", w.Content); err != nil {
		return err
	}
	created, err := pickString("작성일", w.CreatedKo, "createdAt", w.Created)
	if err != nil {
		return err
	}
	if c.CreatedAt, err = parseWireTime(created); err != nil {
		return err
	}
	return nil
}

type taskJSON struct {
	ID              string    `json:"id"`
	TitleKo         string    `json:"제목,omitempty"`
	Title           string    `json:"title,omitempty"`
	ContentKo       string    `json:"내용,omitempty"`
	Content         string    `json:"content,omitempty"`
	StatusKo        string    `json:"상태,omitempty"`
	Status          string    `json:"status,omitempty"`
	PriorityKo      string    `json:"우선순위,omitempty"`
	Priority        string    `json:"priority,omitempty"`
	AssigneeNameKo  string    `json:"담당자이름,omitempty"`
	AssigneeName    string    `json:"assigneeName,omitempty"`
	AssigneeEmailKo string    `json:"담당자이메일,omitempty"`
	AssigneeEmail   string    `json:"assigneeEmail,omitempty"`
	DueDateKo       string    `json:"마감일,omitempty"`
	DueDate         string    `json:"dueDate,omitempty"`
	UpdatedKo       string    `json:"업데이트일,omitempty"`
	Updated         string    `json:"updatedAt,omitempty"`
	CommentsKo      []Comment `json:"댓글,omitempty"`
	Comments        []Comment `json:"comments,omitempty"`
	ProjectID       string    `json:"projectId,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Kudos           int       `json:"kudos"`
	TypeKo          string    `json:"유형,omitempty"`
	Type            string    `json:"type,omitempty"`
}

// MarshalJSON emits the dual-keyed wire form
func (t Task) MarshalJSON() ([]byte, error) {
	updated := formatWireTime(t.UpdatedAt)
	return json.Marshal(taskJSON{
		ID:      t.ID,
		TitleKo: t.Title, Title: t.Title,
		ContentKo: t.Content, Content: t.Content,
		StatusKo: t.Status.Label(), Status: string(t.Status),
		PriorityKo: t.Priority.Label(), Priority: string(t.Priority),
		AssigneeNameKo: t.AssigneeName, AssigneeName: t.AssigneeName,
		AssigneeEmailKo: t.AssigneeEmail, AssigneeEmail: t.AssigneeEmail,
		DueDateKo: t.DueDate, DueDate: t.DueDate,
		UpdatedKo: updated, Updated: updated,
		CommentsKo: t.Comments, Comments: t.Comments,
		ProjectID:  t.ProjectID,
		Tags:       t.Tags,
		Kudos:      t.Kudos,
		TypeKo:     t.Type.Label(), Type: string(t.Type),
	})
}

// UnmarshalJSON accepts either key of each pair and rejects disagreements
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var err error
	t.ID = w.ID
	if t.Title, err = pickString("제목", w.TitleKo, "title", w.Title); err != nil {
		return err
	}
	if t.Content, err = pickString("내용", w.ContentKo, "content", w.Content); err != nil {
		return err
	}
	if t.Status, err = pickEnum("상태", w.StatusKo, "status", w.Status, ParseTaskStatus); err != nil {
		return err
	}
	if t.Priority, err = pickEnum("우선순위", w.PriorityKo, "priority", w.Priority, ParseTaskPriority); err != nil {
		return err
	}
	if t.AssigneeName, err = pickString("담당자이름", w.AssigneeNameKo, "assigneeName", w.AssigneeName); err != nil {
		return err
	}
	if t.AssigneeEmail, err = pickString("담당자이메일", w.AssigneeEmailKo, "assigneeEmail", w.AssigneeEmail); err != nil {
		return err
	}
	if t.DueDate, err = pickString("마감일", w.DueDateKo, "dueDate", w.DueDate); err != nil {
		return err
	}
	updated, err := pickString("업데이트일", w.UpdatedKo, "updatedAt", w.Updated)
	if err != nil {
		return err
	}
	if t.UpdatedAt, err = parseWireTime(updated); err != nil {
		return err
	}
	t.Comments = w.Comments
	if t.Comments == nil {
		t.Comments = w.CommentsKo
	}
	t.ProjectID = w.ProjectID
	t.Tags = w.Tags
	t.Kudos = w.Kudos
	if t.Type, err = pickEnum("유형", w.TypeKo, "type", w.Type, ParseTopicType); err != nil {
		return err
	}
	return nil
}

type postJSON struct {
	ID        string `json:"id"`
	TypeKo    string `json:"유형,omitempty"`
	Type      string `json:"type,omitempty"`
	TitleKo   string `json:"제목,omitempty"`
	Title     string `json:"title,omitempty"`
	ContentKo string `json:"내용,omitempty"`
	Content   string `json:"content,omitempty"`
	AuthorKo  string `json:"작성자,omitempty"`
	Author    string `json:"author,omitempty"`
	DateKo    string `json:"작성일,omitempty"`
	Date      string `json:"date,omitempty"`
	ViewsKo   *int   `json:"조회수,omitempty"`
	Views     *int   `json:"views,omitempty"`
	LikesKo   *int   `json:"좋아요,omitempty"`
	Likes     *int   `json:"likes,omitempty"`
}

// MarshalJSON emits the dual-keyed wire form
func (p Post) MarshalJSON() ([]byte, error) {
	views, likes := p.Views, p.Likes
	return json.Marshal(postJSON{
		ID:     p.ID,
		TypeKo: p.Type.Label(), Type: string(p.Type),
		TitleKo: p.Title, Title: p.Title,
		ContentKo: p.Content, Content: p.Content,
		AuthorKo: p.Author, Author: p.Author,
		DateKo: p.Date, Date: p.Date,
		ViewsKo: &views, Views: &views,
		LikesKo: &likes, Likes: &likes,
	})
}

// UnmarshalJSON accepts either key of each pair and rejects disagreements
func (p *Post) UnmarshalJSON(data []byte) error {
	var w postJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var err error
	p.ID = w.ID
	if p.Type, err = pickEnum("유형", w.TypeKo, "type", w.Type, ParseTopicType); err != nil {
		return err
	}
	if p.Title, err = pickString("제목", w.TitleKo, "title", w.Title); err != nil {
		return err
	}
	if p.Content, err = pickString("내용", w.ContentKo, "content", w.Content); err != nil {
		return err
	}
	if p.Author, err = pickString("작성자", w.AuthorKo, "author", w.Author); err != nil {
		return err
	}
	if p.Date, err = pickString("작성일", w.DateKo, "date", w.Date); err != nil {
		return err
	}
	if p.Views, err = pickInt("조회수", w.ViewsKo, "views", w.Views); err != nil {
		return err
	}
	if p.Likes, err = pickInt("좋아요", w.LikesKo, "likes", w.Likes); err != nil {
		return err
	}
	return nil
}

type scheduleJSON struct {
	ID     string `json:"id"`
	NameKo string `json:"이름,omitempty"`
	Name   string `json:"name,omitempty"`
	TypeKo string `json:"유형,omitempty"`
	Type   string `json:"type,omitempty"`
	DateKo string `json:"날짜,omitempty"`
	Date   string `json:"date,omitempty"`
	NoteKo string `json:"비고,omitempty"`
	Note   string `json:"note,omitempty"`
	Email  string `json:"email,omitempty"`
}

// MarshalJSON emits the dual-keyed wire form
func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(scheduleJSON{
		ID:     s.ID,
		NameKo: s.Name, Name: s.Name,
		TypeKo: s.Type, Type: s.Type,
		DateKo: s.Date, Date: s.Date,
		NoteKo: s.Note, Note: s.Note,
		Email: s.Email,
	})
}

// UnmarshalJSON accepts either key of each pair and rejects disagreements
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var w scheduleJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var err error
	s.ID = w.ID
	if s.Name, err = pickString("이름", w.NameKo, "name", w.Name); err != nil {
		return err
	}
	if s.Type, err = pickString("유형", w.TypeKo, "type", w.Type); err != nil {
		return err
	}
	if s.Date, err = pickString("날짜", w.DateKo, "date", w.Date); err != nil {
		return err
	}
	if s.Note, err = pickString("비고", w.NoteKo, "note", w.Note); err != nil {
		return err
	}
	s.Email = w.Email
	return nil
}
