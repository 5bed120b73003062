package searches

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

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

func createTestUser(t *testing.T, db *bun.DB, username string) int {
	t.Helper()

	result, err := db.Exec(`INSERT INTO users (username, password_hash) VALUES (?, 'hash')`, username)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)

	return int(id)
}

func TestRecordSearch_TrimsQuery(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "reader")

	search, err := svc.RecordSearch(ctx, userID, "  dune  ")
	require.NoError(t, err)
	assert.NotZero(t, search.ID)
	assert.Equal(t, "dune", search.Query)
	assert.False(t, search.SearchedAt.IsZero())
}

func TestRecordSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "reader")

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := svc.RecordSearch(ctx, userID, query)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errcodes.ValidationError("Search query cannot be empty.")))
	}

	count, err := svc.CountSearches(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListRecentSearches_NewestFirst(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "reader")

	for i := 0; i < 4; i++ {
		_, err := svc.RecordSearch(ctx, userID, fmt.Sprintf("query %d", i))
		require.NoError(t, err)
	}

	recent, err := svc.ListRecentSearches(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "query 3", recent[0].Query)
	assert.Equal(t, "query 0", recent[3].Query)

	limited, err := svc.ListRecentSearches(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "query 3", limited[0].Query)
	assert.Equal(t, "query 2", limited[1].Query)
}

func TestListRecentSearches_ScopedToUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	aliceID := createTestUser(t, db, "alice")
	bobID := createTestUser(t, db, "bob")

	_, err := svc.RecordSearch(ctx, aliceID, "alpine plants")
	require.NoError(t, err)
	_, err = svc.RecordSearch(ctx, bobID, "bread baking")
	require.NoError(t, err)

	recent, err := svc.ListRecentSearches(ctx, aliceID, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "alpine plants", recent[0].Query)
}

func TestClearSearchHistory(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	aliceID := createTestUser(t, db, "alice")
	bobID := createTestUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		_, err := svc.RecordSearch(ctx, aliceID, fmt.Sprintf("alice %d", i))
		require.NoError(t, err)
	}
	_, err := svc.RecordSearch(ctx, bobID, "bob keeps this")
	require.NoError(t, err)

	deleted, err := svc.ClearSearchHistory(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	count, err := svc.CountSearches(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = svc.CountSearches(ctx, bobID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Clearing an already empty history is not an error.
	deleted, err = svc.ClearSearchHistory(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}
