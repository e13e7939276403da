package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/teamnexus/nexus/internal/models"
)

// ErrBadCredentials is returned when an email/password pair does not match
var ErrBadCredentials = errors.New("unknown email or wrong password")

// ListMembers returns all workspace members ordered by name
func (db *DB) ListMembers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT employee_id, email, name, role, position, department,
		       avatar_color, expertise, workload, status
		FROM members
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		u, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

// GetMemberByEmail retrieves a member by email
func (db *DB) GetMemberByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT employee_id, email, name, role, position, department,
		       avatar_color, expertise, workload, status
		FROM members WHERE email = ?
	`, email)
	u, err := scanMember(row)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertMember inserts or replaces a member record, keeping any stored
// password hash
func (db *DB) UpsertMember(ctx context.Context, u models.User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO members (employee_id, email, name, role, position, department,
		                     avatar_color, expertise, workload, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			role = excluded.role,
			position = excluded.position,
			department = excluded.department,
			avatar_color = excluded.avatar_color,
			expertise = excluded.expertise,
			workload = excluded.workload,
			status = excluded.status
	`, u.EmployeeID, u.Email, u.Name, string(u.Role), u.Position, u.Department,
		u.AvatarColor, strings.Join(u.Expertise, ","), u.Workload, string(u.Status))
	return err
}

// SetPassword stores a bcrypt hash of the member's password
func (db *DB) SetPassword(ctx context.Context, employeeID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"UPDATE members SET password_hash = ? WHERE employee_id = ?", string(hash), employeeID)
	return err
}

// Authenticate verifies an email/password pair and returns the member
func (db *DB) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var hash string
	err := db.QueryRowContext(ctx,
		"SELECT password_hash FROM members WHERE email = ?", email).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	return db.GetMemberByEmail(ctx, email)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMember(row rowScanner) (models.User, error) {
	var u models.User
	var expertise string
	var workload sql.NullInt64
	var status string
	if err := row.Scan(&u.EmployeeID, &u.Email, &u.Name, &u.Role, &u.Position,
		&u.Department, &u.AvatarColor, &expertise, &workload, &status); err != nil {
		return u, err
	}
	u.Expertise = splitTags(expertise)
	if workload.Valid {
		w := int(workload.Int64)
		u.Workload = &w
	}
	u.Status = models.Availability(status)
	return u, nil
}
