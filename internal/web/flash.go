// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// flashCookie holds messages for exactly one subsequent page render.
const flashCookie = "qp_flash"

// Flash is a one-shot notification rendered on the next page.
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// Flash categories map to alert styles in the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
	FlashWarning = "warning"
)

// addFlash queues a flash message on top of any already queued this request.
func addFlash(w http.ResponseWriter, r *http.Request, message, category string) {
	flashes := append(readFlashes(r), Flash{Message: message, Category: category})

	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns queued flashes and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

// readFlashes decodes the flash cookie. Malformed cookies are dropped.
func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	data, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
