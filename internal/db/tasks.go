package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teamnexus/nexus/internal/models"
)

// ListTasks returns all tasks with their comments, most recently updated first
func (db *DB) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, content, status, priority, assignee_name, assignee_email,
		       due_date, updated_at, project_id, tags, kudos, type
		FROM tasks
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var tags, topic string
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.Status, &t.Priority,
			&t.AssigneeName, &t.AssigneeEmail, &t.DueDate, &t.UpdatedAt,
			&t.ProjectID, &tags, &t.Kudos, &topic); err != nil {
			return nil, err
		}
		t.Tags = splitTags(tags)
		t.Type = models.TopicType(topic)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Load comments for each task
	for i := range tasks {
		comments, err := db.GetTaskComments(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Comments = comments
	}

	return tasks, nil
}

// GetTask retrieves a task by ID with its comments
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	t := &models.Task{}
	var tags, topic string
	err := db.QueryRowContext(ctx, `
		SELECT id, title, content, status, priority, assignee_name, assignee_email,
		       due_date, updated_at, project_id, tags, kudos, type
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.Title, &t.Content, &t.Status, &t.Priority,
		&t.AssigneeName, &t.AssigneeEmail, &t.DueDate, &t.UpdatedAt,
		&t.ProjectID, &tags, &t.Kudos, &topic)
	if err != nil {
		return nil, err
	}
	t.Tags = splitTags(tags)
	t.Type = models.TopicType(topic)

	comments, err := db.GetTaskComments(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Comments = comments

	return t, nil
}

// SaveTask applies a partial task. Fields left nil in the patch keep their
// stored value; an empty ID creates a new task. The merge happens here, on
// the service side - the client never merges locally.
func (db *DB) SaveTask(ctx context.Context, p models.TaskPatch) (*models.Task, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
		_, err := db.ExecContext(ctx, `
			INSERT INTO tasks (id, title, content, status, priority, assignee_name,
			                   assignee_email, due_date, project_id, tags, kudos, type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID,
			orDefault(p.Title, ""),
			orDefault(p.Content, ""),
			orDefault((*string)(p.Status), string(models.StatusBacklog)),
			orDefault((*string)(p.Priority), string(models.PriorityMedium)),
			orDefault(p.AssigneeName, ""),
			orDefault(p.AssigneeEmail, ""),
			orDefault(p.DueDate, ""),
			orDefault(p.ProjectID, ""),
			joinTags(p.Tags),
			orDefaultInt(p.Kudos, 0),
			orDefault((*string)(p.Type), ""))
		if err != nil {
			return nil, err
		}
	} else {
		sets := []string{"updated_at = CURRENT_TIMESTAMP"}
		args := []interface{}{}

		if p.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *p.Title)
		}
		if p.Content != nil {
			sets = append(sets, "content = ?")
			args = append(args, *p.Content)
		}
		if p.Status != nil {
			sets = append(sets, "status = ?")
			args = append(args, string(*p.Status))
		}
		if p.Priority != nil {
			sets = append(sets, "priority = ?")
			args = append(args, string(*p.Priority))
		}
		if p.AssigneeName != nil {
			sets = append(sets, "assignee_name = ?")
			args = append(args, *p.AssigneeName)
		}
		if p.AssigneeEmail != nil {
			sets = append(sets, "assignee_email = ?")
			args = append(args, *p.AssigneeEmail)
		}
		if p.DueDate != nil {
			sets = append(sets, "due_date = ?")
			args = append(args, *p.DueDate)
		}
		if p.ProjectID != nil {
			sets = append(sets, "project_id = ?")
			args = append(args, *p.ProjectID)
		}
		if p.Tags != nil {
			sets = append(sets, "tags = ?")
			args = append(args, strings.Join(*p.Tags, ","))
		}
		if p.Kudos != nil {
			sets = append(sets, "kudos = ?")
			args = append(args, *p.Kudos)
		}
		if p.Type != nil {
			sets = append(sets, "type = ?")
			args = append(args, string(*p.Type))
		}

		args = append(args, p.ID)
		res, err := db.ExecContext(ctx,
			"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return nil, fmt.Errorf("task %s not found", p.ID)
		}
	}

	// A comment list in the patch replaces the stored list
	if p.Comments != nil {
		if err := db.replaceTaskComments(ctx, p.ID, *p.Comments); err != nil {
			return nil, err
		}
	}

	return db.GetTask(ctx, p.ID)
}

// DeleteTask deletes a task and its comments
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	return err
}

// GetTaskComments retrieves all comments for a task, oldest first
func (db *DB) GetTaskComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, author, content, created_at
		FROM comments
		WHERE task_id = ?
		ORDER BY created_at ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (db *DB) replaceTaskComments(ctx context.Context, taskID string, comments []models.Comment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE task_id = ?", taskID); err != nil {
		return err
	}
	for _, c := range comments {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO comments (id, task_id, author, content, created_at) VALUES (?, ?, ?, ?, ?)
		`, c.ID, taskID, c.Author, c.Content, c.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinTags(tags *[]string) string {
	if tags == nil {
		return ""
	}
	return strings.Join(*tags, ",")
}

func orDefault(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}

func orDefaultInt(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
