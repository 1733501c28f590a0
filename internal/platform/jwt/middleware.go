package jwtmw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_trader/internal/feature/auth/domain/entity"
	"stock_trader/internal/feature/auth/usecase"
)

// CookieName is the HttpOnly cookie carrying the session token.
const CookieName = "session"

// LoginPath is where unauthenticated requests are redirected.
const LoginPath = "/login"

// TokenParser verifies a cookie token.
type TokenParser interface {
	ParseToken(token string) (*SessionClaims, error)
}

// SessionFinder looks a session up by id.
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*entity.Session, error)
}

// StoreErrorHandler renders the response when the session store itself fails.
// It must abort the chain.
type StoreErrorHandler func(c *gin.Context, err error)

// SessionRequired only lets requests with a valid, unrevoked session through.
// The account and session ids are stored in both the request context and the gin context.
// Everything else is redirected to the login page with the cookie cleared.
// Store failures go to onStoreError; a nil handler answers with a bare 500.
func SessionRequired(tokens TokenParser, sessions SessionFinder, onStoreError StoreErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(CookieName)
		if err != nil || tokenStr == "" {
			redirectToLogin(c)
			return
		}

		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			slog.Debug("rejected session token", "error", err)
			redirectToLogin(c)
			return
		}
		accountID, _ := claims.AccountID()

		s, err := sessions.FindByID(c.Request.Context(), claims.SessionID())
		if err != nil {
			if !errors.Is(err, usecase.ErrSessionNotFound) {
				err = fmt.Errorf("session %s lookup: %w", claims.SessionID(), err)
				if onStoreError == nil {
					slog.Error("session lookup failed", "error", err)
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				onStoreError(c, err)
				c.Abort()
				return
			}
			redirectToLogin(c)
			return
		}
		if !s.IsValid() || s.AccountID != accountID {
			redirectToLogin(c)
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Set(ContextSessionID, s.ID)
		c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), accountID, s.ID))
		c.Next()
	}
}

// SetCookie writes the session cookie.
func SetCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

// ClearCookie expires the session cookie.
func ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", c.Request.TLS != nil, true)
}

func redirectToLogin(c *gin.Context) {
	ClearCookie(c)
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// CookieSessionID returns the session id of a verifiable cookie, or "" when there is none.
// It is used on routes that are reachable without a session, such as login and logout.
func CookieSessionID(c *gin.Context, tokens TokenParser) string {
	tokenStr, err := c.Cookie(CookieName)
	if err != nil || tokenStr == "" {
		return ""
	}
	claims, err := tokens.ParseToken(tokenStr)
	if err != nil {
		return ""
	}
	return claims.SessionID()
}
