package db

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestBuildDSN_Discrete(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "trader",
		Password: "secret",
		Name:     "finance",
		Host:     "localhost",
		Port:     "5432",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost user=trader password=secret dbname=finance port=5432 sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

func TestBuildDSN_SSLMode(t *testing.T) {
	t.Parallel()

	dsn := BuildDSN(Config{Host: "db", Port: "5432", SSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}

// TestBuildDSN_URLTakesPrecedence verifies that DATABASE_URL overrides the discrete fields.
func TestBuildDSN_URLTakesPrecedence(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Host: "localhost",
		Port: "5432",
		URL:  "postgres://u:p@remote:5432/finance?sslmode=require",
	}

	assert.Equal(t, cfg.URL, BuildDSN(cfg))
}

func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
}

// TestConnectWithRetry_RetriesOnFailure takes a few seconds because of the retry interval.
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attemptCount)
}

func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.GreaterOrEqual(t, attemptCount, 1)
}

func TestMigrate_CreatesTables(t *testing.T) {
	t.Parallel()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb))
	// running twice is a no-op
	require.NoError(t, Migrate(gdb))

	for _, table := range []string{"accounts", "sessions", "holdings", "history"} {
		assert.True(t, gdb.Migrator().HasTable(table), "missing table %s", table)
	}
}
