package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/teamnexus/nexus/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func priorityPtr(p models.TaskPriority) *models.TaskPriority { return &p }

func TestSaveTaskCreateThenPartialUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := db.SaveTask(ctx, models.TaskPatch{
		Title:        strPtr("주간 보고"),
		Content:      strPtr("금요일까지"),
		Status:       statusPtr(models.StatusBacklog),
		Priority:     priorityPtr(models.PriorityHigh),
		AssigneeName: strPtr("박서연"),
		DueDate:      strPtr("2026-09-05"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created task has no id")
	}

	// A patch touching only status must leave every other field alone
	_, err = db.SaveTask(ctx, models.TaskPatch{
		ID:     created.ID,
		Status: statusPtr(models.StatusInProgress),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := db.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusInProgress {
		t.Errorf("status = %q, want IN_PROGRESS", got.Status)
	}
	if got.Title != "주간 보고" || got.Content != "금요일까지" {
		t.Errorf("untouched fields changed: title=%q content=%q", got.Title, got.Content)
	}
	if got.AssigneeName != "박서연" || got.DueDate != "2026-09-05" {
		t.Errorf("untouched fields changed: assignee=%q due=%q", got.AssigneeName, got.DueDate)
	}
	if got.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want HIGH", got.Priority)
	}
}

func TestSaveTaskUnknownID(t *testing.T) {
	db := openTestDB(t)

	_, err := db.SaveTask(context.Background(), models.TaskPatch{
		ID:    "missing",
		Title: strPtr("x"),
	})
	if err == nil {
		t.Fatal("update of unknown task succeeded")
	}
}

func TestSaveTaskReplacesComments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := db.SaveTask(ctx, models.TaskPatch{Title: strPtr("with comments")})
	if err != nil {
		t.Fatal(err)
	}

	comments := []models.Comment{
		{Author: "강지훈", Content: "첫 댓글"},
		{Author: "이민준", Content: "둘째 댓글"},
	}
	if _, err := db.SaveTask(ctx, models.TaskPatch{ID: created.ID, Comments: &comments}); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetTaskComments(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("comments = %d, want 2", len(got))
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Error("comment not stamped with id and timestamp")
	}

	// Replacing again drops the old set
	replacement := []models.Comment{{Author: "강지훈", Content: "정리"}}
	if _, err := db.SaveTask(ctx, models.TaskPatch{ID: created.ID, Comments: &replacement}); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetTaskComments(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Content != "정리" {
		t.Errorf("comments after replace = %+v", got)
	}
}

func TestSavePostCounters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := db.SavePost(ctx, models.PostPatch{
		Type:   topicPtr(models.TopicOperational),
		Title:  strPtr("배포 가이드"),
		Author: strPtr("최은영"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Date == "" {
		t.Error("new post not dated")
	}

	// Counter bumps are plain last-write-wins
	if _, err := db.SavePost(ctx, models.PostPatch{ID: created.ID, Views: intPtr(5)}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.SavePost(ctx, models.PostPatch{ID: created.ID, Likes: intPtr(2)}); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetPost(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Views != 5 || got.Likes != 2 {
		t.Errorf("views=%d likes=%d, want 5/2", got.Views, got.Likes)
	}
	if got.Title != "배포 가이드" {
		t.Errorf("title changed: %q", got.Title)
	}
}

func topicPtr(tt models.TopicType) *models.TopicType { return &tt }

func TestSaveSchedulePartial(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := db.SaveSchedule(ctx, models.SchedulePatch{
		Name: strPtr("전사 회의"),
		Date: strPtr("2026-09-10"),
		Type: strPtr("회의"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.SaveSchedule(ctx, models.SchedulePatch{ID: created.ID, Note: strPtr("대회의실")}); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetSchedule(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Note != "대회의실" || got.Name != "전사 회의" || got.Date != "2026-09-10" {
		t.Errorf("schedule after patch = %+v", got)
	}
}

func TestAuthenticate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	member := models.User{
		EmployeeID: "u-1",
		Email:      "jihoon@nexus.team",
		Name:       "강지훈",
		Role:       models.RoleAdmin,
	}
	if err := db.UpsertMember(ctx, member); err != nil {
		t.Fatal(err)
	}
	if err := db.SetPassword(ctx, "u-1", "secret"); err != nil {
		t.Fatal(err)
	}

	user, err := db.Authenticate(ctx, "jihoon@nexus.team", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if user.Name != "강지훈" || user.Role != models.RoleAdmin {
		t.Errorf("user = %+v", user)
	}

	if _, err := db.Authenticate(ctx, "jihoon@nexus.team", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: err = %v, want ErrBadCredentials", err)
	}
	if _, err := db.Authenticate(ctx, "nobody@nexus.team", "secret"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email: err = %v, want ErrBadCredentials", err)
	}
}

func TestImportFixture(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	data, err := LoadFixture()
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Import(ctx, data, "demo"); err != nil {
		t.Fatal(err)
	}

	members, err := db.ListMembers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != len(data.Members) {
		t.Errorf("members = %d, want %d", len(members), len(data.Members))
	}

	tasks, err := db.ListTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != len(data.Tasks) {
		t.Errorf("tasks = %d, want %d", len(tasks), len(data.Tasks))
	}

	// Fixture members can log in with the import password
	if _, err := db.Authenticate(ctx, data.Members[0].Email, "demo"); err != nil {
		t.Errorf("fixture member cannot authenticate: %v", err)
	}

	// Import is idempotent
	if err := db.Import(ctx, data, "demo"); err != nil {
		t.Fatal(err)
	}
	tasks, err = db.ListTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != len(data.Tasks) {
		t.Errorf("tasks after re-import = %d, want %d", len(tasks), len(data.Tasks))
	}
}
