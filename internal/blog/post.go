// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package blog

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/quillpad/quillpad/internal/auth"
)

// MaxTitleLength is the longest accepted post title.
const MaxTitleLength = 100

// PostsPerPage is the listing page size.
const PostsPerPage = 5

// Post is a published blog entry.
type Post struct {
	ID        ulid.ULID
	AuthorID  ulid.ULID
	Title     string
	Content   string
	PostedAt  time.Time
	UpdatedAt time.Time
}

// PostWithAuthor is a post joined with the display fields of its author.
type PostWithAuthor struct {
	Post
	AuthorUsername string
	AuthorImage    string
}

// Page is one page of a post listing.
type Page struct {
	Posts      []PostWithAuthor
	Number     int
	PerPage    int
	Total      int
	TotalPages int
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// PrevPage is the previous page number, or 1 when already on the first page.
func (p Page) PrevPage() int {
	if p.Number <= 1 {
		return 1
	}
	return p.Number - 1
}

// NextPage is the next page number, or the last page when already on it.
func (p Page) NextPage() int {
	if p.Number >= p.TotalPages {
		return p.TotalPages
	}
	return p.Number + 1
}

// NewPost creates a post with a fresh ID and timestamps.
func NewPost(authorID ulid.ULID, title, content string) *Post {
	now := time.Now()
	return &Post{
		ID:        ulid.Make(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		PostedAt:  now,
		UpdatedAt: now,
	}
}

// ValidatePost checks title and content, returning field errors for
// everything wrong at once.
func ValidatePost(title, content string) error {
	var errs auth.FieldErrors
	title = strings.TrimSpace(title)
	if title == "" {
		errs = append(errs, auth.FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > MaxTitleLength {
		errs = append(errs, auth.FieldError{Field: "title", Message: "title must be at most 100 characters"})
	}
	if strings.TrimSpace(content) == "" {
		errs = append(errs, auth.FieldError{Field: "content", Message: "content is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ClampPage normalizes a requested page number to at least 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PostRepository provides post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id ulid.ULID) (*PostWithAuthor, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id ulid.ULID) error

	// ListPage returns one page of posts, newest first.
	ListPage(ctx context.Context, page, perPage int) (*Page, error)
	// ListByAuthorPage returns one page of a single author's posts, newest first.
	ListByAuthorPage(ctx context.Context, authorID ulid.ULID, page, perPage int) (*Page, error)
}
