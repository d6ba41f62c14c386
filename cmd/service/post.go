package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var errPostNotFound = errors.New("post not found")

// Post is the placeholder persisted entity.
type Post struct {
	ID    *int64
	Title string
	Body  string
}

type postStore struct {
	db      *sql.DB
	dialect string
}

func (s *postStore) ensureSchema(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL
	)`
	if s.dialect == "mysql" {
		ddl = `CREATE TABLE IF NOT EXISTS posts (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		body TEXT NOT NULL
	)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

// Create inserts p and sets its ID.
func (s *postStore) Create(ctx context.Context, p *Post) error {
	res, err := s.db.ExecContext(ctx, "INSERT INTO posts (title, body) VALUES (?, ?)", p.Title, p.Body)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = &id
	return nil
}

func (s *postStore) Get(ctx context.Context, id int64) (*Post, error) {
	var p Post
	var pid int64
	err := s.db.QueryRowContext(ctx, "SELECT id, title, body FROM posts WHERE id = ?", id).Scan(&pid, &p.Title, &p.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	p.ID = &pid
	return &p, nil
}

// Recent returns up to limit posts, newest first.
func (s *postStore) Recent(ctx context.Context, limit int) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, body FROM posts ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var id int64
		if err := rows.Scan(&id, &p.Title, &p.Body); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.ID = &id
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
