package adapters

import (
	"time"

	"stock_trader/internal/feature/auth/domain/entity"
)

// SessionModel is one login of an account. The signed session cookie carries
// only ID; everything else is looked up here on each protected request.
// Logging out sets RevokedAt; the row stays until DeleteExpired removes it
// after ExpiresAt.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:36"` // uuid, the cookie's sid claim
	AccountID uint       `gorm:"index;not null"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"` // fits an IPv6 literal
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time `gorm:"index"` // nil while the cookie is still honored
}

// TableName pins the table name shared with the goose migration.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity returns the session the middleware validates.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		ID:        m.ID,
		AccountID: m.AccountID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		RevokedAt: m.RevokedAt,
	}
}

// SessionModelFromEntity builds the row written at login.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		AccountID: s.AccountID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		RevokedAt: s.RevokedAt,
	}
}
