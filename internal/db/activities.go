package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teamnexus/nexus/internal/models"
)

// ListActivities returns the most recent activity log entries, newest first
func (db *DB) ListActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, user_name, action, target, timestamp, severity
		FROM activities
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserName, &a.Action, &a.Target,
			&a.Timestamp, &a.Severity); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// RecordActivity appends an entry to the activity log
func (db *DB) RecordActivity(ctx context.Context, a models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	if a.Severity == "" {
		a.Severity = models.SeverityLow
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, user_name, action, target, timestamp, severity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.UserName, a.Action, a.Target, a.Timestamp, string(a.Severity))
	return err
}
