package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/migrations"
	"github.com/Roshanshah098/bonewaroshan/pkg/users"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const testSecret = "test-secret"

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *bun.DB, username, password string) *users.User {
	t.Helper()

	user, err := users.NewService(db).CreateUser(context.Background(), users.CreateUserOptions{
		Username: username,
		Password: password,
	})
	require.NoError(t, err)

	return user
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testSecret)
	ctx := context.Background()

	created := createTestUser(t, db, "alice", "correct horse")

	user, err := svc.Authenticate(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.Unauthorized("Invalid username or password")))

	// An unknown username yields the same error as a bad password.
	_, err = svc.Authenticate(ctx, "nobody", "correct horse")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.Unauthorized("Invalid username or password")))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testSecret)

	user := createTestUser(t, db, "alice", "pw123456")

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateToken_Rejections(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, testSecret)

	user := createTestUser(t, db, "alice", "pw123456")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret fails validation.
	other := NewService(db, "other-secret")
	token, err := other.GenerateToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
