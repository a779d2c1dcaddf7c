package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"internmatch/models"
	"internmatch/store"
	"internmatch/utils"
)

const (
	msgAllFieldsRequired = "All fields are required."
	msgUserExists        = "Username or email already exists. Please choose a different one."
	msgRegistered        = "Registration successful! You can now log in."
	msgLoginFailed       = "Login failed. Invalid email or password."
	msgLoggedIn          = "Login successful!"
	msgLoggedOut         = "You have been logged out."
	msgLoginFirst        = "You need to log in first."
)

// Register shows the registration form and creates accounts.
func (h *Handler) Register(ctx context.Context, req Request) Response {
	if req.Method != http.MethodPost {
		return render(TemplateRegister, nil)
	}

	username := req.Form.Get("username")
	email := req.Form.Get("email")
	password := req.Form.Get("password")

	again := func(f models.Flash) Response {
		return render(TemplateRegister, nil, f).withForm(req.Form, "username", "email")
	}

	if missing := utils.MissingFields(req.Form, "username", "email"); len(missing) > 0 || password == "" {
		return again(danger(msgAllFieldsRequired))
	}

	// early exit only; the unique indexes decide
	for _, check := range []struct {
		field store.UserField
		value string
	}{
		{store.UserByUsername, username},
		{store.UserByEmail, email},
	} {
		_, err := h.users.FindBy(ctx, check.field, check.value)
		if err == nil {
			return again(warning(msgUserExists))
		}
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("registration lookup failed", "field", check.field, "err", err)
			return again(danger(fmt.Sprintf("An error occurred: %v", err)))
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		h.logger.Error("hashing password", "err", err)
		return again(danger(fmt.Sprintf("An error occurred: %v", err)))
	}

	user := &models.User{Username: username, Email: email, Password: hash}
	if err := h.users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return again(warning(msgUserExists))
		}
		h.logger.Error("add user error", "username", username, "err", err)
		return again(danger(fmt.Sprintf("An error occurred: %v", err)))
	}
	h.logger.Info("user registered", "user_id", user.ID)

	if h.mailer != nil {
		mailCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := h.mailer.SendWelcome(mailCtx, user.Email, user.Username); err != nil {
			h.logger.Warn("welcome email not sent", "user_id", user.ID, "err", err)
		}
		cancel()
	}

	return redirect(PathLogin, success(msgRegistered))
}

// Login shows the login form and authenticates by email and password.
// Unknown email and wrong password get the same answer.
func (h *Handler) Login(ctx context.Context, req Request) Response {
	if req.Method != http.MethodPost {
		return render(TemplateLogin, nil)
	}

	email := req.Form.Get("email")
	password := req.Form.Get("password")
	failed := render(TemplateLogin, nil, danger(msgLoginFailed)).withForm(req.Form, "email")

	if len(utils.MissingFields(req.Form, "email")) > 0 || password == "" {
		return failed
	}

	user, err := h.users.FindBy(ctx, store.UserByEmail, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("user lookup failed", "err", err)
		}
		return failed
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		h.logger.Info("password verification failed", "user_id", user.ID)
		return failed
	}

	resp := redirect(PathDashboard, success(msgLoggedIn))
	resp.Login = user.ID
	return resp
}

// Logout clears the session user. Logging out without a session is fine.
func (h *Handler) Logout(ctx context.Context, req Request) Response {
	resp := redirect(PathLogin, success(msgLoggedOut))
	resp.Logout = true
	return resp
}
