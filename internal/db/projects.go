package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamnexus/nexus/internal/models"
)

// ListProjects returns all projects
func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, health, progress
		FROM projects ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Health, &p.Progress); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpsertProject inserts or replaces a project record
func (db *DB) UpsertProject(ctx context.Context, p models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, health, progress)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			health = excluded.health,
			progress = excluded.progress
	`, p.ID, p.Name, p.Description, string(p.Health), p.Progress)
	return err
}
