package views

import (
	"context"
	"testing"

	"github.com/teamnexus/nexus/internal/models"
)

// saveRecorder collects the patches a panel hands to its save callback
type saveRecorder struct {
	tasks     []models.TaskPatch
	posts     []models.PostPatch
	schedules []models.SchedulePatch
}

func (r *saveRecorder) saveTask(ctx context.Context, patch models.TaskPatch) error {
	r.tasks = append(r.tasks, patch)
	return nil
}

func (r *saveRecorder) savePost(ctx context.Context, patch models.PostPatch) error {
	r.posts = append(r.posts, patch)
	return nil
}

func (r *saveRecorder) saveSchedule(ctx context.Context, patch models.SchedulePatch) error {
	r.schedules = append(r.schedules, patch)
	return nil
}

func boardData() TasksMsg {
	return TasksMsg{
		Tasks: []models.Task{
			{ID: "t-1", Title: "a", Status: models.StatusBacklog, Priority: models.PriorityLow},
			{ID: "t-2", Title: "b", Status: models.StatusBacklog, Priority: models.PriorityHigh},
			{ID: "t-3", Title: "c", Status: models.StatusInProgress, Priority: models.PriorityMedium},
			{ID: "t-4", Title: "d", Status: models.StatusCompleted, Priority: models.PriorityLow},
		},
		User: &models.User{EmployeeID: "u-1", Name: "tester", Role: models.RoleMember},
	}
}

func TestBoardGroupsByStatus(t *testing.T) {
	rec := &saveRecorder{}
	v := NewBoardView(rec.saveTask)
	v.Update(boardData())

	counts := map[models.TaskStatus]int{
		models.StatusBacklog:    2,
		models.StatusInProgress: 1,
		models.StatusCompleted:  1,
		models.StatusOnHold:     0,
	}
	for status, want := range counts {
		if got := len(v.columnTasks(status)); got != want {
			t.Errorf("column %s = %d tasks, want %d", status, got, want)
		}
	}
}

func TestBoardCursorClampsOnSnapshotShrink(t *testing.T) {
	rec := &saveRecorder{}
	v := NewBoardView(rec.saveTask)
	v.Update(boardData())
	v.rowIdx = 1

	if task := v.selectedTask(); task == nil || task.ID != "t-2" {
		t.Fatalf("selected = %+v, want t-2", task)
	}

	// The replacement snapshot has one fewer task in this column
	shrunk := boardData()
	shrunk.Tasks = shrunk.Tasks[1:2]
	v.Update(shrunk)

	task := v.selectedTask()
	if task == nil {
		t.Fatal("no selection after snapshot replacement")
	}
	if task.ID != "t-2" {
		t.Errorf("selected = %s", task.ID)
	}
}

func TestBoardDetailClosesWhenTaskDisappears(t *testing.T) {
	rec := &saveRecorder{}
	v := NewBoardView(rec.saveTask)
	v.Update(boardData())
	v.viewing = true
	v.viewTaskID = "t-1"

	replaced := boardData()
	replaced.Tasks = replaced.Tasks[2:]
	v.Update(replaced)

	if v.viewing {
		t.Error("detail view still open for a task that no longer exists")
	}
}

func TestBoardSavesThroughTaskCallback(t *testing.T) {
	rec := &saveRecorder{}
	v := NewBoardView(rec.saveTask)
	v.Update(boardData())

	v.startNew()
	v.editTitle.SetValue("새 업무")
	cmd := v.save()
	if cmd == nil {
		t.Fatal("save produced no command")
	}
	if done := cmd().(saveDoneMsg); done.err != nil {
		t.Fatalf("save failed: %v", done.err)
	}

	// The board writes tasks and nothing else
	if len(rec.tasks) != 1 {
		t.Fatalf("task saves = %d, want 1", len(rec.tasks))
	}
	if len(rec.posts) != 0 || len(rec.schedules) != 0 {
		t.Error("board save touched another entity kind")
	}
	if got := *rec.tasks[0].Title; got != "새 업무" {
		t.Errorf("title = %q", got)
	}
}

func TestCommunityTopicFilter(t *testing.T) {
	rec := &saveRecorder{}
	v := NewCommunityView(rec.savePost)
	v.Update(PostsMsg{Posts: []models.Post{
		{ID: "b-1", Type: models.TopicStrategic, Title: "x", Author: "a"},
		{ID: "b-2", Type: models.TopicOperational, Title: "y", Author: "a"},
		{ID: "b-3", Type: models.TopicOperational, Title: "z", Author: "a"},
	}})

	if got := len(v.filteredPosts()); got != 3 {
		t.Errorf("all posts = %d, want 3", got)
	}

	v.topicIdx = 2 // operational
	if got := len(v.filteredPosts()); got != 2 {
		t.Errorf("operational posts = %d, want 2", got)
	}

	v.topicIdx = 3 // war room
	if got := len(v.filteredPosts()); got != 0 {
		t.Errorf("war room posts = %d, want 0", got)
	}
}

func TestCommunityOpenBumpsViewCounter(t *testing.T) {
	rec := &saveRecorder{}
	v := NewCommunityView(rec.savePost)
	post := models.Post{ID: "b-1", Type: models.TopicStrategic, Title: "x", Author: "a", Views: 7}
	v.Update(PostsMsg{Posts: []models.Post{post}})

	cmd := v.openPost(post)
	if !v.viewing || v.viewPostID != "b-1" {
		t.Fatal("post detail not opened")
	}

	msg := cmd()
	if done, ok := msg.(saveDoneMsg); !ok || done.err != nil {
		t.Fatalf("save result = %#v", msg)
	}

	if len(rec.posts) != 1 {
		t.Fatalf("post saves = %d, want 1", len(rec.posts))
	}
	patch := rec.posts[0]
	if patch.ID != "b-1" || patch.Views == nil || *patch.Views != 8 {
		t.Errorf("patch = %+v, want views 8", patch)
	}
	if patch.Likes != nil || patch.Title != nil {
		t.Error("view bump touched unrelated fields")
	}

	// The local snapshot is never merged; the counter changes only when a
	// refreshed snapshot arrives.
	if v.posts[0].Views != 7 {
		t.Errorf("local post mutated: views = %d", v.posts[0].Views)
	}
}

func TestCalendarSortsByDate(t *testing.T) {
	rec := &saveRecorder{}
	v := NewCalendarView(rec.saveSchedule)
	v.Update(SchedulesMsg{Schedules: []models.Schedule{
		{ID: "s-1", Name: "late", Date: "2026-09-20"},
		{ID: "s-2", Name: "early", Date: "2026-09-01"},
		{ID: "s-3", Name: "mid", Date: "2026-09-10"},
	}})

	sorted := v.sorted()
	if sorted[0].Name != "early" || sorted[1].Name != "mid" || sorted[2].Name != "late" {
		t.Errorf("order = %s, %s, %s", sorted[0].Name, sorted[1].Name, sorted[2].Name)
	}
}
