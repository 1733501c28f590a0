// Package usecase implements registration, login and logout.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"stock_trader/internal/feature/auth/domain/entity"
	"stock_trader/internal/shared/apperror"
)

// dummyHash is compared against when the username does not exist so that
// unknown users and wrong passwords take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountRepository persists accounts.
type AccountRepository interface {
	// Create inserts the account and sets its ID. A duplicate username returns apperror.ErrUsernameTaken.
	Create(ctx context.Context, account *entity.Account) error

	// FindByUsername returns the account or ErrAccountNotFound.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
}

// TokenGenerator signs the cookie token that references a session.
type TokenGenerator interface {
	GenerateToken(sessionID string, accountID uint, expiresAt time.Time) (string, error)
}

// LoginInput carries the form fields and the client metadata recorded on the session.
type LoginInput struct {
	Username  string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	SessionID string
	AccountID uint
	ExpiresAt time.Time
}

// AuthUsecase implements account registration and session management.
type AuthUsecase struct {
	accounts    AccountRepository
	sessions    SessionRepository
	tokens      TokenGenerator
	initialCash decimal.Decimal
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewAuthUsecase creates an AuthUsecase. New accounts start with initialCash.
func NewAuthUsecase(accounts AccountRepository, sessions SessionRepository, tokens TokenGenerator, initialCash decimal.Decimal, sessionTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		accounts:    accounts,
		sessions:    sessions,
		tokens:      tokens,
		initialCash: initialCash,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// Register creates an account with a bcrypt hashed password and the initial cash balance.
func (u *AuthUsecase) Register(ctx context.Context, username, password, confirmation string) (*entity.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "must provide username")
	}

	// a taken name is reported before any password problem
	_, err := u.accounts.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperror.Newf(apperror.ErrUsernameTaken, "username %s is already taken", username)
	case !errors.Is(err, ErrAccountNotFound):
		return nil, fmt.Errorf("find account: %w", err)
	}

	if password == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "must provide password")
	}
	if confirmation == "" || confirmation != password {
		return nil, apperror.New(apperror.ErrPasswordMismatch, "passwords do not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entity.Account{
		Username:     username,
		PasswordHash: string(hashed),
		Cash:         u.initialCash,
	}
	// The unique index still catches a concurrent registration of the same name.
	if err := u.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrUsernameTaken) {
			return nil, apperror.Newf(apperror.ErrUsernameTaken, "username %s is already taken", username)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	slog.Info("account registered", "account_id", account.ID, "username", username)
	return account, nil
}

// Login verifies the credentials, stores a new session and returns the signed cookie token.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "must provide username")
	}
	if in.Password == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "must provide password")
	}

	account, err := u.accounts.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = account.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(in.Password))
	if err != nil || compareErr != nil {
		return nil, apperror.New(apperror.ErrInvalidCredentials, "invalid username and/or password")
	}

	now := u.now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := u.tokens.GenerateToken(session.ID, account.ID, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("login", "account_id", account.ID, "session_id", session.ID)
	return &LoginResult{
		Token:     token,
		SessionID: session.ID,
		AccountID: account.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes the session. An unknown or already purged session is not an error.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes expired sessions from the store.
func (u *AuthUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := u.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}
	return n, nil
}

// LogoutEverywhere revokes every session of the account, the current one included.
func (u *AuthUsecase) LogoutEverywhere(ctx context.Context, accountID uint) error {
	if err := u.sessions.RevokeAllByAccountID(ctx, accountID); err != nil {
		return fmt.Errorf("revoke sessions of account %d: %w", accountID, err)
	}
	slog.Info("all sessions revoked", "account_id", accountID)
	return nil
}
