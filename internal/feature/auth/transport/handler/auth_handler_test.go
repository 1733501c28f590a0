package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_trader/internal/feature/auth/domain/entity"
	"stock_trader/internal/feature/auth/usecase"
	jwtmw "stock_trader/internal/platform/jwt"
	"stock_trader/internal/platform/render"
	"stock_trader/internal/shared/apperror"
)

// mockAuthUsecase is a function-field mock of AuthUsecase.
type mockAuthUsecase struct {
	RegisterFunc         func(ctx context.Context, username, password, confirmation string) (*entity.Account, error)
	LoginFunc            func(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	LogoutFunc           func(ctx context.Context, sessionID string) error
	LogoutEverywhereFunc func(ctx context.Context, accountID uint) error
}

func (m *mockAuthUsecase) Register(ctx context.Context, username, password, confirmation string) (*entity.Account, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password, confirmation)
	}
	return &entity.Account{ID: 1, Username: username}, nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, in)
	}
	return nil, apperror.ErrInvalidCredentials
}

func (m *mockAuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthUsecase) LogoutEverywhere(ctx context.Context, accountID uint) error {
	if m.LogoutEverywhereFunc != nil {
		return m.LogoutEverywhereFunc(ctx, accountID)
	}
	return nil
}

const testSecret = "test-secret"

func setupRouter(t *testing.T, uc AuthUsecase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	pages, err := render.Load()
	require.NoError(t, err)

	r := gin.New()
	r.HTMLRender = pages

	h := NewAuthHandler(uc, jwtmw.NewGenerator(testSecret))
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	return r
}

func postForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// lastCookie returns the final Set-Cookie for name, which is the one a browser keeps.
func lastCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			found = ck
		}
	}
	return found
}

func sessionCookie(t *testing.T, sessionID string) *http.Cookie {
	t.Helper()
	token, err := jwtmw.NewGenerator(testSecret).GenerateToken(sessionID, 7, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return &http.Cookie{Name: jwtmw.CookieName, Value: token}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		form         url.Values
		registerFunc func(ctx context.Context, username, password, confirmation string) (*entity.Account, error)
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{
			name:         "success redirects to login",
			form:         url.Values{"username": {"alice"}, "password": {"pw"}, "confirmation": {"pw"}},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login",
		},
		{
			name: "username taken",
			form: url.Values{"username": {"alice"}, "password": {"pw"}, "confirmation": {"pw"}},
			registerFunc: func(context.Context, string, string, string) (*entity.Account, error) {
				return nil, apperror.New(apperror.ErrUsernameTaken, "username alice is already taken")
			},
			wantStatus: http.StatusForbidden,
			wantBody:   "username alice is already taken",
		},
		{
			name: "password mismatch",
			form: url.Values{"username": {"alice"}, "password": {"pw"}, "confirmation": {"other"}},
			registerFunc: func(context.Context, string, string, string) (*entity.Account, error) {
				return nil, apperror.New(apperror.ErrPasswordMismatch, "passwords do not match")
			},
			wantStatus: http.StatusForbidden,
			wantBody:   "passwords do not match",
		},
		{
			name:       "oversized username",
			form:       url.Values{"username": {strings.Repeat("a", 65)}, "password": {"pw"}, "confirmation": {"pw"}},
			wantStatus: http.StatusForbidden,
			wantBody:   "invalid registration form",
		},
		{
			name: "storage failure is hidden",
			form: url.Values{"username": {"alice"}, "password": {"pw"}, "confirmation": {"pw"}},
			registerFunc: func(context.Context, string, string, string) (*entity.Account, error) {
				return nil, errors.New("db down")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := setupRouter(t, &mockAuthUsecase{RegisterFunc: tt.registerFunc})
			w := postForm(r, "/register", tt.form)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	t.Parallel()

	expires := time.Now().Add(time.Hour)
	var got usecase.LoginInput
	uc := &mockAuthUsecase{LoginFunc: func(_ context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
		got = in
		return &usecase.LoginResult{Token: "signed-token", SessionID: "s1", AccountID: 7, ExpiresAt: expires}, nil
	}}
	r := setupRouter(t, uc)

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "pw", got.Password)

	ck := lastCookie(w, jwtmw.CookieName)
	require.NotNil(t, ck)
	assert.Equal(t, "signed-token", ck.Value)
	assert.True(t, ck.HttpOnly)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	uc := &mockAuthUsecase{LoginFunc: func(context.Context, usecase.LoginInput) (*usecase.LoginResult, error) {
		return nil, apperror.New(apperror.ErrInvalidCredentials, "invalid username and/or password")
	}}
	r := setupRouter(t, uc)

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username and/or password")
	ck := lastCookie(w, jwtmw.CookieName)
	assert.True(t, ck == nil || ck.Value == "")
}

func TestAuthHandler_Login_DiscardsExistingSession(t *testing.T) {
	t.Parallel()

	var revoked []string
	uc := &mockAuthUsecase{
		LogoutFunc: func(_ context.Context, id string) error {
			revoked = append(revoked, id)
			return nil
		},
		LoginFunc: func(context.Context, usecase.LoginInput) (*usecase.LoginResult, error) {
			return &usecase.LoginResult{Token: "new-token", SessionID: "new", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	r := setupRouter(t, uc)

	w := postForm(r, "/login", url.Values{"username": {"bob"}, "password": {"pw"}}, sessionCookie(t, "old"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []string{"old"}, revoked)
	assert.Equal(t, "new-token", lastCookie(w, jwtmw.CookieName).Value)
}

func TestAuthHandler_LoginForm_ClearsSession(t *testing.T) {
	t.Parallel()

	var revoked string
	r := setupRouter(t, &mockAuthUsecase{LogoutFunc: func(_ context.Context, id string) error {
		revoked = id
		return nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(sessionCookie(t, "s1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)
	assert.Equal(t, "s1", revoked)
	ck := lastCookie(w, jwtmw.CookieName)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cookie      *http.Cookie
		logoutErr   error
		wantRevoked string
	}{
		{name: "valid session", cookie: sessionCookie(t, "s1"), wantRevoked: "s1"},
		{name: "revoke failure still logs out", cookie: sessionCookie(t, "s2"), logoutErr: errors.New("redis down"), wantRevoked: "s2"},
		{name: "garbage cookie", cookie: &http.Cookie{Name: jwtmw.CookieName, Value: "garbage"}},
		{name: "no cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var revoked string
			r := setupRouter(t, &mockAuthUsecase{LogoutFunc: func(_ context.Context, id string) error {
				revoked = id
				return tt.logoutErr
			}})

			req := httptest.NewRequest(http.MethodGet, "/logout", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/", w.Header().Get("Location"))
			assert.Equal(t, tt.wantRevoked, revoked)
			if tt.cookie != nil {
				ck := lastCookie(w, jwtmw.CookieName)
				require.NotNil(t, ck)
				assert.Empty(t, ck.Value)
			}
		})
	}
}

func TestAuthHandler_LogoutEverywhere(t *testing.T) {
	t.Parallel()

	// stands in for SessionRequired
	signedIn := func(c *gin.Context) {
		c.Set(jwtmw.ContextAccountID, uint(7))
		c.Request = c.Request.WithContext(jwtmw.WithAccount(c.Request.Context(), 7, "sid-1"))
	}

	tests := []struct {
		name         string
		signedIn     bool
		revokeErr    error
		wantStatus   int
		wantLocation string
		wantCalled   bool
	}{
		{name: "revokes and clears the cookie", signedIn: true, wantStatus: http.StatusSeeOther, wantLocation: "/login", wantCalled: true},
		{name: "store failure renders apology", signedIn: true, revokeErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCalled: true},
		{name: "no account in context", signedIn: false, wantStatus: http.StatusFound, wantLocation: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			uc := &mockAuthUsecase{LogoutEverywhereFunc: func(ctx context.Context, accountID uint) error {
				called = true
				assert.Equal(t, uint(7), accountID)
				return tt.revokeErr
			}}

			pages, err := render.Load()
			require.NoError(t, err)
			r := gin.New()
			r.HTMLRender = pages
			h := NewAuthHandler(uc, jwtmw.NewGenerator(testSecret))
			if tt.signedIn {
				r.POST("/logout/all", signedIn, h.LogoutEverywhere)
			} else {
				r.POST("/logout/all", h.LogoutEverywhere)
			}

			w := postForm(r, "/logout/all", url.Values{})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantStatus == http.StatusSeeOther {
				cookies := w.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, jwtmw.CookieName, cookies[0].Name)
				assert.Less(t, cookies[0].MaxAge, 0)
			}
			if tt.revokeErr != nil {
				assert.Contains(t, w.Body.String(), "internal server error")
			}
		})
	}
}
