// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/quillpad/quillpad/internal/auth"
	"github.com/quillpad/quillpad/internal/storage"
)

// multipartFormOverhead leaves room for the non-file form fields on top of
// the image size ceiling.
const multipartFormOverhead = 64 << 10

type accountPage struct {
	ImageURL string
}

func (s *Server) handleAccountForm(w http.ResponseWriter, r *http.Request) {
	user, _, _ := CurrentUser(r.Context())

	data := s.newPageData(w, r, "Account")
	data.Form = formValues(r)
	data.Form.Set("username", user.Username)
	data.Form.Set("email", user.Email)
	data.Data = accountPage{ImageURL: s.images.URL(user.ImageFile)}
	s.renderer.render(w, http.StatusOK, "account.html", data)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	user, _, _ := CurrentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageBytes+multipartFormOverhead)
	if err := r.ParseMultipartForm(storage.MaxImageBytes + multipartFormOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderAccountAgain(w, r, user, auth.FieldErrors{
				{Field: "picture", Message: "images must be 2 MB or smaller"},
			})
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	errs := ValidateForm(r.Form, accountFormFields())

	imageName, imageErrs := s.saveProfileImage(r)
	errs = mergeFieldErrors(errs, imageErrs)
	if len(errs) > 0 {
		s.renderAccountAgain(w, r, user, errs)
		return
	}

	err := s.auth.UpdateAccount(r.Context(), user, auth.AccountUpdate{
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		ImageFile: imageName,
	})
	if err != nil {
		if fieldErrs, ok := auth.AsFieldErrors(err); ok {
			s.renderAccountAgain(w, r, user, fieldErrs)
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	addFlash(w, r, "Your account has been updated!", FlashSuccess)
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

func (s *Server) renderAccountAgain(w http.ResponseWriter, r *http.Request, user *auth.User, errs auth.FieldErrors) {
	data := s.newPageData(w, r, "Account")
	data.Form = formValues(r, "username", "email")
	data.Errors = errs
	data.Data = accountPage{ImageURL: s.images.URL(user.ImageFile)}
	s.renderer.render(w, http.StatusUnprocessableEntity, "account.html", data)
}

// saveProfileImage validates and stores an uploaded picture, returning the
// stored name. An absent file is not an error; the current image stays.
func (s *Server) saveProfileImage(r *http.Request) (string, auth.FieldErrors) {
	file, header, err := r.FormFile("picture")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", auth.FieldErrors{{Field: "picture", Message: "could not read uploaded file"}}
	}
	defer closeUpload(file)

	ext, err := storage.ValidateImage(header.Filename, header.Size)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ImageUploadsTotal.WithLabelValues("rejected").Inc()
		}
		if fieldErrs, ok := auth.AsFieldErrors(err); ok {
			return "", fieldErrs
		}
		return "", auth.FieldErrors{{Field: "picture", Message: "invalid image"}}
	}

	name, err := storage.RandomImageName(ext)
	if err != nil {
		return "", auth.FieldErrors{{Field: "picture", Message: "could not store uploaded file"}}
	}
	if err := s.images.Save(r.Context(), name, file); err != nil {
		s.logger.Error("image upload failed", "name", name, "error", err)
		if s.metrics != nil {
			s.metrics.ImageUploadsTotal.WithLabelValues("failure").Inc()
		}
		return "", auth.FieldErrors{{Field: "picture", Message: "could not store uploaded file"}}
	}

	if s.metrics != nil {
		s.metrics.ImageUploadsTotal.WithLabelValues("success").Inc()
	}
	return name, nil
}

func closeUpload(file multipart.File) {
	//nolint:errcheck // upload already fully read
	file.Close()
}
