// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package web serves the server-rendered site: registration, login,
// account management, password reset, and the post pages.
package web

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/quillpad/quillpad/internal/auth"
	"github.com/quillpad/quillpad/internal/blog"
	"github.com/quillpad/quillpad/internal/observability"
	"github.com/quillpad/quillpad/internal/storage"
)

//go:embed static/*
var staticFS embed.FS

// Options carries the collaborators of a Server.
type Options struct {
	Addr    string
	Auth    *auth.Service
	Reset   *auth.PasswordResetService
	Blog    *blog.Service
	Users   auth.UserRepository
	Images  storage.ImageStore
	Metrics *observability.Metrics
	Logger  *slog.Logger

	// ImageDir, when set, is served at /static/profile_pics/ for the
	// local image backend. The S3 backend serves images itself.
	ImageDir string
}

// Server is the public HTTP server.
type Server struct {
	addr       string
	auth       *auth.Service
	reset      *auth.PasswordResetService
	blog       *blog.Service
	users      auth.UserRepository
	images     storage.ImageStore
	metrics    *observability.Metrics
	logger     *slog.Logger
	imageDir   string
	renderer   *renderer
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the site server. All collaborators except Metrics,
// Logger, and ImageDir are required.
func NewServer(opts Options) (*Server, error) {
	if opts.Auth == nil {
		return nil, oops.Code("WEB_SERVER_INVALID").Errorf("auth service is required")
	}
	if opts.Reset == nil {
		return nil, oops.Code("WEB_SERVER_INVALID").Errorf("password reset service is required")
	}
	if opts.Blog == nil {
		return nil, oops.Code("WEB_SERVER_INVALID").Errorf("blog service is required")
	}
	if opts.Users == nil {
		return nil, oops.Code("WEB_SERVER_INVALID").Errorf("user repository is required")
	}
	if opts.Images == nil {
		return nil, oops.Code("WEB_SERVER_INVALID").Errorf("image store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rd, err := newRenderer(logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		addr:     opts.Addr,
		auth:     opts.Auth,
		reset:    opts.Reset,
		blog:     opts.Blog,
		users:    opts.Users,
		images:   opts.Images,
		metrics:  opts.Metrics,
		logger:   logger,
		imageDir: opts.ImageDir,
		renderer: rd,
	}, nil
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(s.loadSession)
	r.NotFound(s.handleNotFound)

	assets, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(assets)))
	if s.imageDir != "" {
		r.Handle("/static/profile_pics/*", http.StripPrefix("/static/profile_pics/",
			http.FileServer(http.Dir(s.imageDir))))
	}

	r.Get("/", s.handleHome)
	r.Get("/user/{username}", s.handleUserPosts)
	r.Get("/post/{postID}", s.handlePost)

	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Get("/reset_password", s.handleResetRequestForm)
	r.Post("/reset_password", s.handleResetRequest)
	r.Get("/reset_password/{token}", s.handleResetConfirmForm)
	r.Post("/reset_password/{token}", s.handleResetConfirm)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)
		r.Get("/account", s.handleAccountForm)
		r.Post("/account", s.handleAccount)
		r.Get("/post/new", s.handleNewPostForm)
		r.Post("/post/new", s.handleNewPost)
		r.Get("/post/{postID}/update", s.handleUpdatePostForm)
		r.Post("/post/{postID}/update", s.handleUpdatePost)
		r.Post("/post/{postID}/delete", s.handleDeletePost)
	})

	return r
}

// Start begins serving. It returns an error channel that receives any
// serve failure; the channel closes when the server stops cleanly.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_web_server").Wrap(err)
		}
	}

	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the listen address, or "" when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
