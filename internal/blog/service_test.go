// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package blog_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quillpad/quillpad/internal/auth"
	"github.com/quillpad/quillpad/internal/blog"
	"github.com/quillpad/quillpad/internal/blog/mocks"
)

func testAuthor() *auth.User {
	return &auth.User{
		ID:       ulid.Make(),
		Username: "corey",
		Email:    "corey@blog.example",
	}
}

func storedPost(author *auth.User) *blog.PostWithAuthor {
	now := time.Now()
	return &blog.PostWithAuthor{
		Post: blog.Post{
			ID:        ulid.Make(),
			AuthorID:  author.ID,
			Title:     "Original Title",
			Content:   "original content",
			PostedAt:  now,
			UpdatedAt: now,
		},
		AuthorUsername: author.Username,
		AuthorImage:    auth.DefaultImageFile,
	}
}

func TestNewService(t *testing.T) {
	t.Run("requires posts repository", func(t *testing.T) {
		svc, err := blog.NewService(nil)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("creates service", func(t *testing.T) {
		svc, err := blog.NewService(mocks.NewMockPostRepository(t))
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestService_CreatePost(t *testing.T) {
	ctx := context.Background()
	author := testAuthor()

	t.Run("creates valid post", func(t *testing.T) {
		posts := mocks.NewMockPostRepository(t)
		posts.On("Create", mock.Anything, mock.MatchedBy(func(p *blog.Post) bool {
			return p.AuthorID == author.ID && p.Title == "First Post" && p.Content == "hello"
		})).Return(nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		post, err := svc.CreatePost(ctx, author, "First Post", "hello")
		require.NoError(t, err)
		assert.Equal(t, author.ID, post.AuthorID)
		assert.NotEqual(t, ulid.ULID{}, post.ID)
	})

	t.Run("rejects invalid post without writing", func(t *testing.T) {
		posts := mocks.NewMockPostRepository(t)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		_, err = svc.CreatePost(ctx, author, "", "")
		fieldErrs, ok := auth.AsFieldErrors(err)
		require.True(t, ok)
		assert.NotEmpty(t, fieldErrs.ByField("title"))
		assert.NotEmpty(t, fieldErrs.ByField("content"))
		posts.AssertNotCalled(t, "Create")
	})
}

func TestService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	author := testAuthor()

	t.Run("author updates own post", func(t *testing.T) {
		existing := storedPost(author)
		posts := mocks.NewMockPostRepository(t)
		posts.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		posts.On("Update", mock.Anything, mock.MatchedBy(func(p *blog.Post) bool {
			return p.ID == existing.ID && p.Title == "New Title" && p.Content == "new content"
		})).Return(nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		updated, err := svc.UpdatePost(ctx, author, existing.ID, "New Title", "new content")
		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.True(t, updated.UpdatedAt.After(existing.UpdatedAt) || updated.UpdatedAt.Equal(existing.UpdatedAt))
	})

	t.Run("rejects non-author", func(t *testing.T) {
		existing := storedPost(author)
		intruder := &auth.User{ID: ulid.Make(), Username: "mallory"}

		posts := mocks.NewMockPostRepository(t)
		posts.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		_, err = svc.UpdatePost(ctx, intruder, existing.ID, "New Title", "new content")
		assert.ErrorIs(t, err, blog.ErrForbidden)
		posts.AssertNotCalled(t, "Update")
	})

	t.Run("rejects invalid content", func(t *testing.T) {
		existing := storedPost(author)
		posts := mocks.NewMockPostRepository(t)
		posts.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		_, err = svc.UpdatePost(ctx, author, existing.ID, "", "")
		_, ok := auth.AsFieldErrors(err)
		assert.True(t, ok)
		posts.AssertNotCalled(t, "Update")
	})

	t.Run("missing post", func(t *testing.T) {
		id := ulid.Make()
		posts := mocks.NewMockPostRepository(t)
		posts.On("GetByID", mock.Anything, id).Return(nil, auth.ErrNotFound)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		_, err = svc.UpdatePost(ctx, author, id, "Title", "content")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestService_DeletePost(t *testing.T) {
	ctx := context.Background()
	author := testAuthor()

	t.Run("author deletes own post", func(t *testing.T) {
		existing := storedPost(author)
		posts := mocks.NewMockPostRepository(t)
		posts.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		posts.On("Delete", mock.Anything, existing.ID).Return(nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		require.NoError(t, svc.DeletePost(ctx, author, existing.ID))
	})

	t.Run("rejects non-author", func(t *testing.T) {
		existing := storedPost(author)
		intruder := &auth.User{ID: ulid.Make(), Username: "mallory"}

		posts := mocks.NewMockPostRepository(t)
		posts.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		err = svc.DeletePost(ctx, intruder, existing.ID)
		assert.ErrorIs(t, err, blog.ErrForbidden)
		posts.AssertNotCalled(t, "Delete")
	})
}

func TestService_ListPage(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps page numbers below one", func(t *testing.T) {
		page := &blog.Page{Number: 1, PerPage: blog.PostsPerPage, TotalPages: 1}
		posts := mocks.NewMockPostRepository(t)
		posts.On("ListPage", mock.Anything, 1, blog.PostsPerPage).Return(page, nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		got, err := svc.ListPage(ctx, -5)
		require.NoError(t, err)
		assert.Equal(t, page, got)
	})

	t.Run("passes requested page through", func(t *testing.T) {
		page := &blog.Page{Number: 3, PerPage: blog.PostsPerPage, TotalPages: 4}
		posts := mocks.NewMockPostRepository(t)
		posts.On("ListPage", mock.Anything, 3, blog.PostsPerPage).Return(page, nil)

		svc, err := blog.NewService(posts)
		require.NoError(t, err)

		got, err := svc.ListPage(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Number)
	})
}

func TestService_ListByAuthor(t *testing.T) {
	ctx := context.Background()
	author := testAuthor()

	page := &blog.Page{Number: 1, PerPage: blog.PostsPerPage, TotalPages: 1}
	posts := mocks.NewMockPostRepository(t)
	posts.On("ListByAuthorPage", mock.Anything, author.ID, 1, blog.PostsPerPage).Return(page, nil)

	svc, err := blog.NewService(posts)
	require.NoError(t, err)

	got, err := svc.ListByAuthor(ctx, author.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}
