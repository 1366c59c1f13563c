// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/quillpad/quillpad/internal/auth"
	"github.com/quillpad/quillpad/internal/blog"
)

// pageParam reads the ?page= query parameter, defaulting to the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return blog.ClampPage(page)
}

// postIDParam parses the post ID path segment. A malformed ID behaves like
// a missing post.
func postIDParam(r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		return ulid.ULID{}, false
	}
	return id, true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, err := s.blog.ListPage(r.Context(), pageParam(r))
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}

	data := s.newPageData(w, r, "")
	data.Data = s.resolveImages(page)
	s.renderer.render(w, http.StatusOK, "home.html", data)
}

type userPostsPage struct {
	Username string
	Page     *blog.Page
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	author, err := s.users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	page, err := s.blog.ListByAuthor(r.Context(), author.ID, pageParam(r))
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}

	data := s.newPageData(w, r, author.Username)
	data.Data = userPostsPage{Username: author.Username, Page: s.resolveImages(page)}
	s.renderer.render(w, http.StatusOK, "user_posts.html", data)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	post, err := s.blog.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	post.AuthorImage = s.images.URL(post.AuthorImage)
	data := s.newPageData(w, r, post.Title)
	data.Data = postPage{
		Post:     post,
		IsAuthor: data.User != nil && data.User.ID == post.AuthorID,
	}
	s.renderer.render(w, http.StatusOK, "post.html", data)
}

// postPage carries a post and whether the viewer may edit it.
type postPage struct {
	Post     *blog.PostWithAuthor
	IsAuthor bool
}

type postFormPage struct {
	Legend string
}

func (s *Server) handleNewPostForm(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(w, r, "New Post")
	data.Data = postFormPage{Legend: "New Post"}
	s.renderer.render(w, http.StatusOK, "post_form.html", data)
}

func (s *Server) handleNewPost(w http.ResponseWriter, r *http.Request) {
	user, _, _ := CurrentUser(r.Context())
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, r, err)
		return
	}

	renderAgain := func(errs auth.FieldErrors) {
		data := s.newPageData(w, r, "New Post")
		data.Form = formValues(r, "title", "content")
		data.Errors = errs
		data.Data = postFormPage{Legend: "New Post"}
		s.renderer.render(w, http.StatusUnprocessableEntity, "post_form.html", data)
	}

	if errs := ValidateForm(r.Form, postFormFields()); len(errs) > 0 {
		renderAgain(errs)
		return
	}

	post, err := s.blog.CreatePost(r.Context(), user, r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		if fieldErrs, ok := auth.AsFieldErrors(err); ok {
			renderAgain(fieldErrs)
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	addFlash(w, r, "Your post has been created!", FlashSuccess)
	http.Redirect(w, r, "/post/"+post.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleUpdatePostForm(w http.ResponseWriter, r *http.Request) {
	user, _, _ := CurrentUser(r.Context())
	id, ok := postIDParam(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	post, err := s.blog.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.renderServerError(w, r, err)
		return
	}
	if post.AuthorID != user.ID {
		s.renderForbidden(w, r)
		return
	}

	data := s.newPageData(w, r, "Update Post")
	data.Form = formValues(r)
	data.Form.Set("title", post.Title)
	data.Form.Set("content", post.Content)
	data.Data = postFormPage{Legend: "Update Post"}
	s.renderer.render(w, http.StatusOK, "post_form.html", data)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	user, _, _ := CurrentUser(r.Context())
	id, ok := postIDParam(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, r, err)
		return
	}

	renderAgain := func(errs auth.FieldErrors) {
		data := s.newPageData(w, r, "Update Post")
		data.Form = formValues(r, "title", "content")
		data.Errors = errs
		data.Data = postFormPage{Legend: "Update Post"}
		s.renderer.render(w, http.StatusUnprocessableEntity, "post_form.html", data)
	}

	if errs := ValidateForm(r.Form, postFormFields()); len(errs) > 0 {
		renderAgain(errs)
		return
	}

	_, err := s.blog.UpdatePost(r.Context(), user, id, r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			s.handleNotFound(w, r)
		case errors.Is(err, blog.ErrForbidden):
			s.renderForbidden(w, r)
		default:
			if fieldErrs, ok := auth.AsFieldErrors(err); ok {
				renderAgain(fieldErrs)
				return
			}
			s.renderServerError(w, r, err)
		}
		return
	}

	addFlash(w, r, "Your post has been updated!", FlashSuccess)
	http.Redirect(w, r, "/post/"+id.String(), http.StatusSeeOther)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	user, _, _ := CurrentUser(r.Context())
	id, ok := postIDParam(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	if err := s.blog.DeletePost(r.Context(), user, id); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			s.handleNotFound(w, r)
		case errors.Is(err, blog.ErrForbidden):
			s.renderForbidden(w, r)
		default:
			s.renderServerError(w, r, err)
		}
		return
	}

	addFlash(w, r, "Your post has been deleted!", FlashSuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// resolveImages swaps the stored author image names for public URLs.
func (s *Server) resolveImages(page *blog.Page) *blog.Page {
	for i := range page.Posts {
		page.Posts[i].AuthorImage = s.images.URL(page.Posts[i].AuthorImage)
	}
	return page
}
