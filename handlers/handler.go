// Package handlers holds the route handlers. Each one takes a Request and
// returns a Response; cookies, sessions and templates belong to the server package.
package handlers

import (
	"context"
	"log/slog"
	"time"

	"internmatch/store"
)

// Template names rendered by the handlers.
const (
	TemplateIndex             = "index"
	TemplateRegister          = "register"
	TemplateLogin             = "login"
	TemplateDashboard         = "dashboard"
	TemplateCreateOpportunity = "create_opportunity"
)

// Route paths used in redirects.
const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// Mailer sends the welcome email after registration.
type Mailer interface {
	SendWelcome(ctx context.Context, email, username string) error
}

type Handler struct {
	users         store.UserRepository
	opportunities store.OpportunityRepository
	mailer        Mailer
	logger        *slog.Logger
	now           func() time.Time
}

// New returns a Handler. mailer may be nil, in which case no mail is sent.
func New(users store.UserRepository, opportunities store.OpportunityRepository, mailer Mailer, logger *slog.Logger) *Handler {
	return &Handler{
		users:         users,
		opportunities: opportunities,
		mailer:        mailer,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock replaces the clock used to stamp posted dates.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Home renders the landing page.
func (h *Handler) Home(ctx context.Context, req Request) Response {
	return render(TemplateIndex, nil)
}
