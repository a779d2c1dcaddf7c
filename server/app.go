// Package server is the HTTP side of the app: it turns requests into
// handlers.Request values and carries out the handlers.Response they return.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"internmatch/handlers"
	"internmatch/models"
	"internmatch/ui"
)

type Options struct {
	Handlers      *handlers.Handler
	Sessions      SessionStore
	Secret        []byte
	SessionTTL    time.Duration
	SecureCookies bool
	Logger        *slog.Logger
	Version       string
}

type App struct {
	handlers      *handlers.Handler
	sessions      SessionStore
	renderer      *Renderer
	secret        []byte
	sessionTTL    time.Duration
	secureCookies bool
	logger        *slog.Logger
	version       string
}

func NewApp(opts Options) (*App, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &App{
		handlers:      opts.Handlers,
		sessions:      opts.Sessions,
		renderer:      renderer,
		secret:        opts.Secret,
		sessionTTL:    opts.SessionTTL,
		secureCookies: opts.SecureCookies,
		logger:        opts.Logger,
		version:       opts.Version,
	}, nil
}

// Routes mounts every route and wraps the mux in the middleware chain.
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(ui.Files, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static)))
	mux.HandleFunc("GET /health", a.health)

	mux.Handle("GET /{$}", a.adapt(a.handlers.Home))
	mux.Handle("GET /register", a.adapt(a.handlers.Register))
	mux.Handle("POST /register", a.adapt(a.handlers.Register))
	mux.Handle("GET /login", a.adapt(a.handlers.Login))
	mux.Handle("POST /login", a.adapt(a.handlers.Login))
	mux.Handle("GET /dashboard", a.adapt(a.handlers.Dashboard))
	mux.Handle("GET /create_opportunity", a.adapt(a.handlers.CreateOpportunity))
	mux.Handle("POST /create_opportunity", a.adapt(a.handlers.CreateOpportunity))
	mux.Handle("GET /logout", a.adapt(a.handlers.Logout))

	return a.middleware(mux)
}

// middleware logs every request, including ones recovered from a panic.
func (a *App) middleware(next http.Handler) http.Handler {
	return a.logRequest(a.recoverPanic(next))
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "internmatch",
		"version": a.version,
	})
}

type handlerFunc func(ctx context.Context, req handlers.Request) handlers.Response

// adapt runs a route handler against a snapshot of the request and session,
// then applies its Response.
func (a *App) adapt(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		session, err := a.loadSession(r)
		if err != nil {
			a.serverError(w, r, "load session", err)
			return
		}

		req := handlers.Request{
			Method: r.Method,
			Form:   r.PostForm,
			UserID: sessionUserID(session),
		}
		resp := fn(r.Context(), req)

		if err := a.apply(w, r, session, resp); err != nil {
			a.serverError(w, r, "apply response", err)
		}
	})
}

func (a *App) apply(w http.ResponseWriter, r *http.Request, session *models.Session, resp handlers.Response) error {
	ctx := r.Context()

	switch {
	case resp.Login != 0:
		// a fresh token on login; the anonymous one is dropped
		if session != nil {
			if err := a.sessions.DeleteSession(ctx, session.SessionToken); err != nil {
				return err
			}
		}
		var err error
		session, err = a.startSession(w, r, strconv.FormatInt(resp.Login, 10))
		if err != nil {
			return err
		}
		a.logger.Info("login successful", "user_id", resp.Login)
	case resp.Logout:
		if session != nil {
			if err := a.sessions.ClearSessionUser(ctx, session.SessionToken); err != nil {
				return err
			}
			if session.Authenticated() {
				a.logger.Info("logged out", "user_id", session.UserID)
			}
			session.UserID = ""
		}
	case session.Authenticated():
		if err := a.sessions.UpdateLastActivity(ctx, session.SessionToken); err != nil {
			a.logger.Warn("updating last activity", "err", err)
		}
	}

	if resp.Redirect != "" {
		if len(resp.Flashes) > 0 {
			if session == nil {
				var err error
				if session, err = a.startSession(w, r, ""); err != nil {
					return err
				}
			}
			if err := a.sessions.PushFlash(ctx, session.SessionToken, resp.Flashes...); err != nil {
				return err
			}
		}
		http.Redirect(w, r, resp.Redirect, http.StatusSeeOther)
		return nil
	}

	var flashes []models.Flash
	if session != nil {
		queued, err := a.sessions.DrainFlashes(ctx, session.SessionToken)
		if err != nil {
			return err
		}
		flashes = queued
	}
	flashes = append(flashes, resp.Flashes...)

	return a.renderer.Render(w, http.StatusOK, resp.Template, models.PageData{
		Flashes:    flashes,
		IsLoggedIn: session.Authenticated(),
		Form:       resp.Form,
		Data:       resp.Data,
	})
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	a.logger.Error(op, "method", r.Method, "path", r.URL.Path, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
