package handlers

import (
	"net/url"

	"internmatch/models"
)

// Request is the immutable view of an incoming request a handler works from:
// method, parsed form fields and a snapshot of the session.
type Request struct {
	Method string
	Form   url.Values
	// UserID is the logged-in user, zero for anonymous visitors.
	UserID int64
}

func (r Request) Authenticated() bool {
	return r.UserID != 0
}

// Response describes what the HTTP layer should do. Exactly one of Template
// or Redirect is set. Flashes travel with the render, or are queued on the
// session for the page after a redirect.
type Response struct {
	Template string
	Redirect string
	Data     any
	// Form echoes submitted values back into a re-rendered form.
	Form    map[string]string
	Flashes []models.Flash

	// Login authenticates the session as this user; Logout clears it.
	Login  int64
	Logout bool
}

func render(template string, data any, flashes ...models.Flash) Response {
	return Response{Template: template, Data: data, Flashes: flashes}
}

func redirect(target string, flashes ...models.Flash) Response {
	return Response{Redirect: target, Flashes: flashes}
}

func (r Response) withForm(form url.Values, fields ...string) Response {
	r.Form = make(map[string]string, len(fields))
	for _, f := range fields {
		r.Form[f] = form.Get(f)
	}
	return r
}

func success(msg string) models.Flash { return models.Flash{Category: models.FlashSuccess, Message: msg} }
func danger(msg string) models.Flash  { return models.Flash{Category: models.FlashDanger, Message: msg} }
func warning(msg string) models.Flash { return models.Flash{Category: models.FlashWarning, Message: msg} }
