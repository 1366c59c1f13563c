// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package postgres provides the PostgreSQL-backed post repository.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/quillpad/quillpad/internal/auth"
	"github.com/quillpad/quillpad/internal/blog"
)

// poolIface is the subset of pgxpool.Pool the repository uses. Tests
// substitute a pgxmock pool through it.
type poolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostRepository implements blog.PostRepository using PostgreSQL.
type PostRepository struct {
	pool poolIface
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool poolIface) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `p.id, p.author_id, p.title, p.content, p.posted_at, p.updated_at,
	       u.username, u.image_file`

// Create stores a new post.
func (r *PostRepository) Create(ctx context.Context, post *blog.Post) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO posts (id, author_id, title, content, posted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		post.ID.String(),
		post.AuthorID.String(),
		post.Title,
		post.Content,
		post.PostedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return oops.Code("POST_CREATE_FAILED").
			With("operation", "insert post").
			With("author_id", post.AuthorID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a post joined with its author's display fields.
func (r *PostRepository) GetByID(ctx context.Context, id ulid.ULID) (*blog.PostWithAuthor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id.String())

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post by id").
			With("id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// Update applies title, content, and updated_at for a post.
func (r *PostRepository) Update(ctx context.Context, post *blog.Post) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE posts SET title = $2, content = $3, updated_at = $4
		WHERE id = $1
	`,
		post.ID.String(),
		post.Title,
		post.Content,
		post.UpdatedAt,
	)
	if err != nil {
		return oops.Code("POST_UPDATE_FAILED").
			With("operation", "update post").
			With("id", post.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("id", post.ID.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// Delete removes a post by ID.
func (r *PostRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM posts WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// ListPage returns one page of posts, newest first.
func (r *PostRepository) ListPage(ctx context.Context, page, perPage int) (*blog.Page, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "count posts").
			Wrap(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.posted_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list posts").
			With("page", page).
			Wrap(err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}

	return newPage(posts, page, perPage, total), nil
}

// ListByAuthorPage returns one page of a single author's posts, newest first.
func (r *PostRepository) ListByAuthorPage(ctx context.Context, authorID ulid.ULID, page, perPage int) (*blog.Page, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`,
		authorID.String()).Scan(&total)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "count author posts").
			With("author_id", authorID.String()).
			Wrap(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.posted_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, authorID.String(), perPage, (page-1)*perPage)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list author posts").
			With("author_id", authorID.String()).
			With("page", page).
			Wrap(err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}

	return newPage(posts, page, perPage, total), nil
}

func newPage(posts []blog.PostWithAuthor, page, perPage, total int) *blog.Page {
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	return &blog.Page{
		Posts:      posts,
		Number:     page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

func collectPosts(rows pgx.Rows) ([]blog.PostWithAuthor, error) {
	posts := []blog.PostWithAuthor{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, oops.Code("POST_LIST_FAILED").
				With("operation", "scan post row").
				Wrap(err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "iterate posts").
			Wrap(err)
	}
	return posts, nil
}

// scanPost scans a joined post row. Callers handle pgx.ErrNoRows.
func scanPost(row pgx.Row) (*blog.PostWithAuthor, error) {
	var (
		idStr       string
		authorIDStr string
		title       string
		content     string
		postedAt    time.Time
		updatedAt   time.Time
		username    string
		imageFile   string
	)

	err := row.Scan(&idStr, &authorIDStr, &title, &content, &postedAt, &updatedAt, &username, &imageFile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("POST_SCAN_FAILED").
			With("operation", "scan post").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("POST_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	authorID, err := ulid.Parse(authorIDStr)
	if err != nil {
		return nil, oops.Code("POST_INVALID_AUTHOR_ID").
			With("author_id", authorIDStr).
			Wrap(err)
	}

	return &blog.PostWithAuthor{
		Post: blog.Post{
			ID:        id,
			AuthorID:  authorID,
			Title:     title,
			Content:   content,
			PostedAt:  postedAt,
			UpdatedAt: updatedAt,
		},
		AuthorUsername: username,
		AuthorImage:    imageFile,
	}, nil
}

// Compile-time interface check.
var _ blog.PostRepository = (*PostRepository)(nil)
