package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"internmatch/models"
	"internmatch/utils"
)

const sessionCookie = "session_token"

// SessionStore is the server-side session and flash storage.
// utils.SessionStore implements it on redis.
type SessionStore interface {
	StoreSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	ClearSessionUser(ctx context.Context, token string) error
	UpdateLastActivity(ctx context.Context, token string) error
	PushFlash(ctx context.Context, token string, flashes ...models.Flash) error
	DrainFlashes(ctx context.Context, token string) ([]models.Flash, error)
}

// loadSession resolves the signed cookie to a live session. A missing,
// forged or expired cookie yields (nil, nil).
func (a *App) loadSession(r *http.Request) (*models.Session, error) {
	if !utils.CookieExists(r, sessionCookie) {
		return nil, nil
	}
	cookie, _ := r.Cookie(sessionCookie)

	token, err := utils.ParseSessionToken(a.secret, cookie.Value)
	if err != nil {
		a.logger.Debug("ignoring session cookie", "err", err)
		return nil, nil
	}

	session, err := a.sessions.GetSession(r.Context(), token)
	if errors.Is(err, utils.ErrSessionNotFound) {
		return nil, nil
	}
	return session, err
}

// startSession creates a session for userID ("" for anonymous) and sets its cookie.
func (a *App) startSession(w http.ResponseWriter, r *http.Request, userID string) (*models.Session, error) {
	token, err := utils.GenerateToken(32)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := models.Session{
		SessionToken: token,
		UserID:       userID,
		CreatedAt:    now.Format(time.RFC3339),
		ExpiresAt:    now.Add(a.sessionTTL).Format(time.RFC3339),
		LastActivity: now.Format(time.RFC3339),
		UserAgent:    utils.GetUserAgent(r),
		IPAddress:    utils.GetIP(r),
	}
	if err := a.sessions.StoreSession(r.Context(), session); err != nil {
		return nil, err
	}

	signed, err := utils.SignSessionToken(a.secret, token, a.sessionTTL)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(a.sessionTTL.Seconds()),
	})
	return &session, nil
}

func sessionUserID(s *models.Session) int64 {
	if !s.Authenticated() {
		return 0
	}
	id, err := strconv.ParseInt(s.UserID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
