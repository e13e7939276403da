package db

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teamnexus/nexus/internal/models"
)

//go:embed fixtures/demo.json
var fixtures embed.FS

// LoadFixture decodes the embedded demo snapshot. The fixture is stored in
// the service's dual-keyed wire form, so decoding also checks the locale
// pairs for agreement.
func LoadFixture() (*models.AppData, error) {
	raw, err := fixtures.ReadFile("fixtures/demo.json")
	if err != nil {
		return nil, err
	}
	var data models.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return &data, nil
}

// Import loads a snapshot into the store. Every member gets the given
// password so the demo workspace is immediately usable.
func (db *DB) Import(ctx context.Context, data *models.AppData, password string) error {
	for _, m := range data.Members {
		if err := db.UpsertMember(ctx, m); err != nil {
			return fmt.Errorf("member %s: %w", m.EmployeeID, err)
		}
		if err := db.SetPassword(ctx, m.EmployeeID, password); err != nil {
			return fmt.Errorf("member %s: %w", m.EmployeeID, err)
		}
	}
	for _, p := range data.Projects {
		if err := db.UpsertProject(ctx, p); err != nil {
			return fmt.Errorf("project %s: %w", p.ID, err)
		}
	}
	for _, t := range data.Tasks {
		if err := db.importTask(ctx, t); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	for _, p := range data.Posts {
		if err := db.importPost(ctx, p); err != nil {
			return fmt.Errorf("post %s: %w", p.ID, err)
		}
	}
	for _, s := range data.Schedules {
		if err := db.importSchedule(ctx, s); err != nil {
			return fmt.Errorf("schedule %s: %w", s.ID, err)
		}
	}
	for _, a := range data.Activities {
		if err := db.RecordActivity(ctx, a); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
	}
	return nil
}

func (db *DB) importTask(ctx context.Context, t models.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tasks (id, title, content, status, priority, assignee_name,
		                              assignee_email, due_date, updated_at, project_id, tags, kudos, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Content, string(t.Status), string(t.Priority), t.AssigneeName,
		t.AssigneeEmail, t.DueDate, t.UpdatedAt, t.ProjectID,
		strings.Join(t.Tags, ","), t.Kudos, string(t.Type))
	if err != nil {
		return err
	}
	return db.replaceTaskComments(ctx, t.ID, t.Comments)
}

func (db *DB) importPost(ctx context.Context, p models.Post) error {
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO posts (id, type, title, content, author, date, views, likes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, string(p.Type), p.Title, p.Content, p.Author, p.Date, p.Views, p.Likes)
	return err
}

func (db *DB) importSchedule(ctx context.Context, s models.Schedule) error {
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO schedules (id, name, type, date, note, email)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Type, s.Date, s.Note, s.Email)
	return err
}
