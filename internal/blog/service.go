// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package blog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/quillpad/quillpad/internal/auth"
)

// ErrForbidden is returned when a user acts on a post they do not own.
var ErrForbidden = errors.New("forbidden")

// Service provides post authoring and listing operations.
type Service struct {
	posts  PostRepository
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(posts PostRepository) (*Service, error) {
	return NewServiceWithLogger(posts, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(posts PostRepository, logger *slog.Logger) (*Service, error) {
	if posts == nil {
		return nil, oops.Code("BLOG_SERVICE_INVALID").Errorf("posts repository is required")
	}
	if logger == nil {
		return nil, oops.Code("BLOG_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{posts: posts, logger: logger}, nil
}

// CreatePost validates and stores a new post by the given author.
func (s *Service) CreatePost(ctx context.Context, author *auth.User, title, content string) (*Post, error) {
	if err := ValidatePost(title, content); err != nil {
		return nil, err
	}

	post := NewPost(author.ID, title, content)
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").
			With("author_id", author.ID.String()).
			Wrap(err)
	}

	s.logger.Info("post created",
		"post_id", post.ID.String(),
		"author", author.Username)
	return post, nil
}

// GetPost retrieves a post with its author display fields.
func (s *Service) GetPost(ctx context.Context, id ulid.ULID) (*PostWithAuthor, error) {
	return s.posts.GetByID(ctx, id)
}

// UpdatePost validates and applies new title and content to a post. Only
// the post's author may update it.
func (s *Service) UpdatePost(ctx context.Context, actor *auth.User, id ulid.ULID, title, content string) (*Post, error) {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != actor.ID {
		return nil, oops.Code("POST_FORBIDDEN").
			With("post_id", id.String()).
			With("actor_id", actor.ID.String()).
			Wrap(ErrForbidden)
	}
	if err := ValidatePost(title, content); err != nil {
		return nil, err
	}

	post := existing.Post
	post.Title = title
	post.Content = content
	post.UpdatedAt = time.Now()
	if err := s.posts.Update(ctx, &post); err != nil {
		return nil, oops.Code("POST_UPDATE_FAILED").
			With("post_id", id.String()).
			Wrap(err)
	}

	s.logger.Info("post updated",
		"post_id", post.ID.String(),
		"author", actor.Username)
	return &post, nil
}

// DeletePost removes a post. Only the post's author may delete it.
func (s *Service) DeletePost(ctx context.Context, actor *auth.User, id ulid.ULID) error {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != actor.ID {
		return oops.Code("POST_FORBIDDEN").
			With("post_id", id.String()).
			With("actor_id", actor.ID.String()).
			Wrap(ErrForbidden)
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return oops.Code("POST_DELETE_FAILED").
			With("post_id", id.String()).
			Wrap(err)
	}

	s.logger.Info("post deleted",
		"post_id", id.String(),
		"author", actor.Username)
	return nil
}

// ListPage returns one page of all posts, newest first. Page numbers below
// 1 are clamped to the first page.
func (s *Service) ListPage(ctx context.Context, page int) (*Page, error) {
	return s.posts.ListPage(ctx, ClampPage(page), PostsPerPage)
}

// ListByAuthor returns one page of a single author's posts, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID ulid.ULID, page int) (*Page, error) {
	return s.posts.ListByAuthorPage(ctx, authorID, ClampPage(page), PostsPerPage)
}
