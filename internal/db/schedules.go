package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/teamnexus/nexus/internal/models"
)

// ListSchedules returns all schedules in date order
func (db *DB) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, type, date, note, email
		FROM schedules
		ORDER BY date, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.Date, &s.Note, &s.Email); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// GetSchedule retrieves a schedule by ID
func (db *DB) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	s := &models.Schedule{}
	err := db.QueryRowContext(ctx, `
		SELECT id, name, type, date, note, email
		FROM schedules WHERE id = ?
	`, id).Scan(&s.ID, &s.Name, &s.Type, &s.Date, &s.Note, &s.Email)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSchedule applies a partial schedule. An empty ID creates a new entry.
func (db *DB) SaveSchedule(ctx context.Context, p models.SchedulePatch) (*models.Schedule, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
		_, err := db.ExecContext(ctx, `
			INSERT INTO schedules (id, name, type, date, note, email)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.ID,
			orDefault(p.Name, ""),
			orDefault(p.Type, ""),
			orDefault(p.Date, ""),
			orDefault(p.Note, ""),
			orDefault(p.Email, ""))
		if err != nil {
			return nil, err
		}
		return db.GetSchedule(ctx, p.ID)
	}

	sets := []string{}
	args := []interface{}{}

	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *p.Type)
	}
	if p.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *p.Date)
	}
	if p.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *p.Note)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if len(sets) == 0 {
		return db.GetSchedule(ctx, p.ID)
	}

	args = append(args, p.ID)
	res, err := db.ExecContext(ctx,
		"UPDATE schedules SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("schedule %s not found", p.ID)
	}
	return db.GetSchedule(ctx, p.ID)
}

// DeleteSchedule deletes a schedule
func (db *DB) DeleteSchedule(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	return err
}
