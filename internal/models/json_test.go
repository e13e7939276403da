package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTaskDecodeKoreanKeys(t *testing.T) {
	raw := `{
		"id": "t-1",
		"제목": "보고서 작성",
		"상태": "진행중",
		"우선순위": "긴급",
		"담당자이름": "박서연",
		"마감일": "2026-09-01"
	}`

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatal(err)
	}
	if task.Title != "보고서 작성" {
		t.Errorf("title = %q", task.Title)
	}
	if task.Status != StatusInProgress {
		t.Errorf("status = %q, want IN_PROGRESS", task.Status)
	}
	if task.Priority != PriorityEmergency {
		t.Errorf("priority = %q, want EMERGENCY", task.Priority)
	}
	if task.AssigneeName != "박서연" {
		t.Errorf("assignee = %q", task.AssigneeName)
	}
}

func TestTaskDecodeEnglishKeys(t *testing.T) {
	raw := `{"id": "t-1", "title": "write report", "status": "ON_HOLD", "priority": "LOW"}`

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatal(err)
	}
	if task.Title != "write report" {
		t.Errorf("title = %q", task.Title)
	}
	if task.Status != StatusOnHold {
		t.Errorf("status = %q, want ON_HOLD", task.Status)
	}
}

func TestTaskDecodeAgreeingPair(t *testing.T) {
	// Different spellings of the same status are not a conflict
	raw := `{"id": "t-1", "title": "x", "제목": "x", "status": "IN_PROGRESS", "상태": "진행중"}`

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatal(err)
	}
	if task.Status != StatusInProgress {
		t.Errorf("status = %q", task.Status)
	}
}

func TestTaskDecodeMismatchedPairRejected(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"title", `{"id": "t-1", "title": "a", "제목": "b"}`},
		{"status", `{"id": "t-1", "status": "COMPLETED", "상태": "진행중"}`},
		{"priority", `{"id": "t-1", "priority": "HIGH", "우선순위": "낮음"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var task Task
			err := json.Unmarshal([]byte(tc.raw), &task)
			if err == nil {
				t.Fatal("mismatched locale pair accepted")
			}
			if !strings.Contains(err.Error(), "mismatch") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTaskMarshalEmitsBothKeys(t *testing.T) {
	task := Task{ID: "t-1", Title: "점검", Status: StatusBacklog, Priority: PriorityMedium}
	raw, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["제목"] != "점검" || doc["title"] != "점검" {
		t.Errorf("title pair = %v / %v", doc["제목"], doc["title"])
	}
	if doc["status"] != "BACKLOG" {
		t.Errorf("status = %v", doc["status"])
	}
	if doc["상태"] != "대기" {
		t.Errorf("상태 = %v", doc["상태"])
	}
}

func TestPostCounterPairMismatch(t *testing.T) {
	raw := `{"id": "b-1", "title": "t", "views": 10, "조회수": 12}`
	var post Post
	if err := json.Unmarshal([]byte(raw), &post); err == nil {
		t.Fatal("disagreeing counters accepted")
	}

	raw = `{"id": "b-1", "title": "t", "views": 10, "조회수": 10, "likes": 3}`
	if err := json.Unmarshal([]byte(raw), &post); err != nil {
		t.Fatal(err)
	}
	if post.Views != 10 || post.Likes != 3 {
		t.Errorf("views = %d, likes = %d", post.Views, post.Likes)
	}
}

func TestScheduleDecodeMismatchedPairRejected(t *testing.T) {
	raw := `{"id": "s-1", "name": "스프린트 회고", "이름": "전사 회의"}`
	var sch Schedule
	err := json.Unmarshal([]byte(raw), &sch)
	if err == nil {
		t.Fatal("mismatched locale pair accepted")
	}
	if !strings.Contains(err.Error(), "mismatch") {
		t.Errorf("unexpected error: %v", err)
	}

	raw = `{"id": "s-1", "name": "전사 회의", "이름": "전사 회의", "날짜": "2026-09-10"}`
	if err := json.Unmarshal([]byte(raw), &sch); err != nil {
		t.Fatal(err)
	}
	if sch.Name != "전사 회의" || sch.Date != "2026-09-10" {
		t.Errorf("schedule = %+v", sch)
	}
}

func TestUserDecodeWorkloadAndRole(t *testing.T) {
	raw := `{"사번": "u-1", "이메일": "a@nexus.team", "이름": "강지훈", "권한": "관리자", "업무부하": 75}`
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		t.Fatal(err)
	}
	if user.Role != RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.Workload == nil || *user.Workload != 75 {
		t.Errorf("workload = %v, want 75", user.Workload)
	}
}

func TestCommentTimestampShapes(t *testing.T) {
	cases := []string{
		`{"id": "c-1", "author": "a", "content": "x", "createdAt": "2026-08-01T10:30:00Z"}`,
		`{"id": "c-1", "author": "a", "content": "x", "작성일": "2026-08-01 10:30:00"}`,
		`{"id": "c-1", "author": "a", "content": "x", "createdAt": "2026-08-01"}`,
	}
	for _, raw := range cases {
		var c Comment
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			t.Errorf("decode %s: %v", raw, err)
			continue
		}
		if c.CreatedAt.IsZero() {
			t.Errorf("timestamp not parsed from %s", raw)
		}
	}

	var c Comment
	raw := `{"id": "c-1", "author": "a", "content": "x", "createdAt": "next tuesday"}`
	if err := json.Unmarshal([]byte(raw), &c); err == nil {
		t.Error("garbage timestamp accepted")
	}
}

func TestParseEnumsBothSpellings(t *testing.T) {
	if got, err := ParseTaskStatus("완료"); err != nil || got != StatusCompleted {
		t.Errorf("ParseTaskStatus(완료) = %q, %v", got, err)
	}
	if got, err := ParseTaskStatus("COMPLETED"); err != nil || got != StatusCompleted {
		t.Errorf("ParseTaskStatus(COMPLETED) = %q, %v", got, err)
	}
	if _, err := ParseTaskStatus("DONE"); err == nil {
		t.Error("unknown status accepted")
	}

	if got, err := ParseTopicType("공지사항"); err != nil || got != TopicWarRoom {
		t.Errorf("ParseTopicType(공지사항) = %q, %v", got, err)
	}
	if got, err := ParseRole("팀원"); err != nil || got != RoleMember {
		t.Errorf("ParseRole(팀원) = %q, %v", got, err)
	}
}

func TestAppDataValidate(t *testing.T) {
	data := &AppData{
		Tasks: []Task{{ID: "t-1", Title: "ok", Status: StatusBacklog, Priority: PriorityLow}},
	}
	if err := data.Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}

	data.Tasks = append(data.Tasks, Task{ID: "t-2", Title: "bad", Status: "UNKNOWN", Priority: PriorityLow})
	if err := data.Validate(); err == nil {
		t.Error("task with unknown status accepted")
	}
}
