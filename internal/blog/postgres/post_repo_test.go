// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpad/quillpad/internal/auth"
	"github.com/quillpad/quillpad/internal/blog"
)

func testPost() *blog.PostWithAuthor {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &blog.PostWithAuthor{
		Post: blog.Post{
			ID:        ulid.Make(),
			AuthorID:  ulid.Make(),
			Title:     "A Day in the Garden",
			Content:   "It rained.",
			PostedAt:  now,
			UpdatedAt: now,
		},
		AuthorUsername: "corey",
		AuthorImage:    "default.jpg",
	}
}

func postRowColumns() []string {
	return []string{
		"id", "author_id", "title", "content", "posted_at", "updated_at",
		"username", "image_file",
	}
}

func addPostRow(rows *pgxmock.Rows, p *blog.PostWithAuthor) *pgxmock.Rows {
	return rows.AddRow(p.ID.String(), p.AuthorID.String(), p.Title, p.Content,
		p.PostedAt, p.UpdatedAt, p.AuthorUsername, p.AuthorImage)
}

func TestPostRepository_Create(t *testing.T) {
	post := testPost()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO posts`).
					WithArgs(post.ID.String(), post.AuthorID.String(), post.Title,
						post.Content, post.PostedAt, post.UpdatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO posts`).
					WithArgs(post.ID.String(), post.AuthorID.String(), post.Title,
						post.Content, post.PostedAt, post.UpdatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
			errMsg:  "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewPostRepository(mock)
			err = repo.Create(context.Background(), &post.Post)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPostRepository_GetByID(t *testing.T) {
	post := testPost()

	t.Run("found with author fields", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := addPostRow(pgxmock.NewRows(postRowColumns()), post)
		mock.ExpectQuery(`JOIN users u ON u.id = p.author_id`).
			WithArgs(post.ID.String()).
			WillReturnRows(rows)

		repo := NewPostRepository(mock)
		got, err := repo.GetByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, post, got)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`JOIN users u ON u.id = p.author_id`).
			WithArgs(post.ID.String()).
			WillReturnRows(pgxmock.NewRows(postRowColumns()))

		repo := NewPostRepository(mock)
		_, err = repo.GetByID(context.Background(), post.ID)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Update(t *testing.T) {
	post := testPost()

	t.Run("updates post", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE posts SET`).
			WithArgs(post.ID.String(), post.Title, post.Content, post.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewPostRepository(mock)
		require.NoError(t, repo.Update(context.Background(), &post.Post))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing post", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE posts SET`).
			WithArgs(post.ID.String(), post.Title, post.Content, post.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewPostRepository(mock)
		err = repo.Update(context.Background(), &post.Post)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Delete(t *testing.T) {
	post := testPost()

	t.Run("deletes post", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM posts WHERE id`).
			WithArgs(post.ID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewPostRepository(mock)
		require.NoError(t, repo.Delete(context.Background(), post.ID))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing post", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM posts WHERE id`).
			WithArgs(post.ID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewPostRepository(mock)
		err = repo.Delete(context.Background(), post.ID)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_ListPage(t *testing.T) {
	a := testPost()
	b := testPost()

	t.Run("first page with posts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

		rows := pgxmock.NewRows(postRowColumns())
		addPostRow(rows, a)
		addPostRow(rows, b)
		mock.ExpectQuery(`ORDER BY p.posted_at DESC`).
			WithArgs(5, 0).
			WillReturnRows(rows)

		repo := NewPostRepository(mock)
		page, err := repo.ListPage(context.Background(), 1, 5)
		require.NoError(t, err)

		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 5, page.PerPage)
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Posts, 2)
		assert.Equal(t, *a, page.Posts[0])
		assert.Equal(t, *b, page.Posts[1])
		assert.True(t, page.HasNext())
		assert.False(t, page.HasPrev())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("later page applies offset", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))
		mock.ExpectQuery(`ORDER BY p.posted_at DESC`).
			WithArgs(5, 10).
			WillReturnRows(addPostRow(pgxmock.NewRows(postRowColumns()), a))

		repo := NewPostRepository(mock)
		page, err := repo.ListPage(context.Background(), 3, 5)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Number)
		assert.False(t, page.HasNext())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table still reports one page", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`ORDER BY p.posted_at DESC`).
			WithArgs(5, 0).
			WillReturnRows(pgxmock.NewRows(postRowColumns()))

		repo := NewPostRepository(mock)
		page, err := repo.ListPage(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 1, page.TotalPages)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_ListByAuthorPage(t *testing.T) {
	post := testPost()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts WHERE author_id`).
		WithArgs(post.AuthorID.String()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`WHERE p.author_id = \$1`).
		WithArgs(post.AuthorID.String(), 5, 0).
		WillReturnRows(addPostRow(pgxmock.NewRows(postRowColumns()), post))

	repo := NewPostRepository(mock)
	page, err := repo.ListByAuthorPage(context.Background(), post.AuthorID, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, *post, page.Posts[0])
	assert.Equal(t, 1, page.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}
