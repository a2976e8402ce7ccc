package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/workforce-portal/internal/model"
)

// testClock is a settable clock shared by the repositories under test.
type testClock struct{ t time.Time }

func newTestClock(t time.Time) *testClock { return &testClock{t: t.UTC()} }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Set(t time.Time)         { c.t = t.UTC() }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func createUser(t *testing.T, db *sql.DB, email, role string) model.User {
	t.Helper()
	u, err := NewUserRepo(db).Create(context.Background(), NewUser{
		Email:     email,
		Password:  "secret1",
		FirstName: "Test",
		LastName:  email,
		Role:      role,
	}, bcrypt.MinCost)
	require.NoError(t, err, "Failed to create test user")
	return u
}
