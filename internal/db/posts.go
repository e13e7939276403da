package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teamnexus/nexus/internal/models"
)

// ListPosts returns all posts, newest first
func (db *DB) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, type, title, content, author, date, views, likes
		FROM posts
		ORDER BY date DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Type, &p.Title, &p.Content, &p.Author,
			&p.Date, &p.Views, &p.Likes); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost retrieves a post by ID
func (db *DB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	p := &models.Post{}
	err := db.QueryRowContext(ctx, `
		SELECT id, type, title, content, author, date, views, likes
		FROM posts WHERE id = ?
	`, id).Scan(&p.ID, &p.Type, &p.Title, &p.Content, &p.Author, &p.Date, &p.Views, &p.Likes)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SavePost applies a partial post. An empty ID creates a new post dated today.
func (db *DB) SavePost(ctx context.Context, p models.PostPatch) (*models.Post, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
		_, err := db.ExecContext(ctx, `
			INSERT INTO posts (id, type, title, content, author, date, views, likes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID,
			orDefault((*string)(p.Type), string(models.TopicOperational)),
			orDefault(p.Title, ""),
			orDefault(p.Content, ""),
			orDefault(p.Author, ""),
			orDefault(p.Date, time.Now().Format("2006-01-02")),
			orDefaultInt(p.Views, 0),
			orDefaultInt(p.Likes, 0))
		if err != nil {
			return nil, err
		}
		return db.GetPost(ctx, p.ID)
	}

	sets := []string{}
	args := []interface{}{}

	if p.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*p.Type))
	}
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *p.Content)
	}
	if p.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *p.Author)
	}
	if p.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *p.Date)
	}
	if p.Views != nil {
		sets = append(sets, "views = ?")
		args = append(args, *p.Views)
	}
	if p.Likes != nil {
		sets = append(sets, "likes = ?")
		args = append(args, *p.Likes)
	}
	if len(sets) == 0 {
		return db.GetPost(ctx, p.ID)
	}

	args = append(args, p.ID)
	res, err := db.ExecContext(ctx,
		"UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("post %s not found", p.ID)
	}
	return db.GetPost(ctx, p.ID)
}

// DeletePost deletes a post
func (db *DB) DeletePost(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	return err
}
