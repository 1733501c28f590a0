// Package handler serves the register, login and logout pages.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_trader/internal/feature/auth/domain/entity"
	"stock_trader/internal/feature/auth/transport/http/dto"
	"stock_trader/internal/feature/auth/usecase"
	jwtmw "stock_trader/internal/platform/jwt"
	"stock_trader/internal/platform/render"
	"stock_trader/internal/shared/apperror"
)

// AuthUsecase defines the account operations the handler needs.
// The interface lives with its consumer, not the usecase package.
type AuthUsecase interface {
	Register(ctx context.Context, username, password, confirmation string) (*entity.Account, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutEverywhere(ctx context.Context, accountID uint) error
}

// AuthHandler handles the account pages.
type AuthHandler struct {
	auth   AuthUsecase
	tokens jwtmw.TokenParser
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase, tokens jwtmw.TokenParser) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	render.Page(c, http.StatusOK, "register.html", nil)
}

// Register handles POST /register and sends the new user to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		render.Apology(c, apperror.New(apperror.ErrInvalidInput, "invalid registration form"))
		return
	}
	if _, err := h.auth.Register(c.Request.Context(), form.Username, form.Password, form.Confirmation); err != nil {
		render.Apology(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, jwtmw.LoginPath)
}

// LoginForm handles GET /login. Visiting the page forgets the current session.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.discardSession(c)
	render.Page(c, http.StatusOK, "login.html", nil)
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	h.discardSession(c)

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		render.Apology(c, apperror.New(apperror.ErrInvalidInput, "invalid login form"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Username:  form.Username,
		Password:  form.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		// the usecase never says which of username or password was wrong
		slog.Warn("login failed", "error", err, "username", form.Username, "remote_addr", c.ClientIP())
		render.Apology(c, err)
		return
	}

	jwtmw.SetCookie(c, res.Token, res.ExpiresAt)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.discardSession(c)
	c.Redirect(http.StatusFound, "/")
}

// LogoutEverywhere handles POST /logout/all. It runs behind SessionRequired.
func (h *AuthHandler) LogoutEverywhere(c *gin.Context) {
	accountID, ok := jwtmw.AccountIDFrom(c.Request.Context())
	if !ok {
		c.Redirect(http.StatusFound, jwtmw.LoginPath)
		return
	}
	sessionID, _ := jwtmw.SessionIDFrom(c.Request.Context())
	if err := h.auth.LogoutEverywhere(c.Request.Context(), accountID); err != nil {
		render.Apology(c, err)
		return
	}
	slog.Info("logged out everywhere", "account_id", accountID, "session_id", sessionID)
	jwtmw.ClearCookie(c)
	c.Redirect(http.StatusSeeOther, jwtmw.LoginPath)
}

func (h *AuthHandler) discardSession(c *gin.Context) {
	id := jwtmw.CookieSessionID(c, h.tokens)
	if id == "" {
		if _, err := c.Cookie(jwtmw.CookieName); err == nil {
			jwtmw.ClearCookie(c)
		}
		return
	}
	if err := h.auth.Logout(c.Request.Context(), id); err != nil {
		// the cookie is cleared anyway; the session expires on its own
		slog.Error("logout failed", "session_id", id, "error", err)
	}
	jwtmw.ClearCookie(c)
}
