package books

import (
	"context"
	"testing"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func seedSearches(t *testing.T, db *bun.DB, userID int, query string, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		_, err := db.Exec(`INSERT INTO previous_searches (user_id, query) VALUES (?, ?)`, userID, query)
		require.NoError(t, err)
	}
}

func timePtr(tm time.Time) *time.Time { return &tm }

func TestIsTrending(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := timePtr(now.AddDate(0, 0, -30))
	old := timePtr(now.AddDate(0, -12, 0))

	tests := []struct {
		name       string
		rating     int
		published  *time.Time
		popularity int
		want       bool
	}{
		{"low rating never trends", 2, recent, 500, false},
		{"rating just below threshold", 3, recent, 500, false},
		{"high rating and recent", 4, recent, 0, true},
		{"high rating and popular", 5, old, 100, true},
		{"popularity just below threshold", 5, old, 99, false},
		{"no publication date but popular", 4, nil, 100, true},
		{"no publication date and unpopular", 5, nil, 0, false},
		{"published exactly at the window edge", 4, timePtr(now.AddDate(0, 0, -TrendingRecencyDays)), 0, true},
		{"published just outside the window", 4, timePtr(now.AddDate(0, 0, -TrendingRecencyDays-1)), 0, false},
		{"published at midnight of the edge day", 4, timePtr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -TrendingRecencyDays)), 0, true},
		{"published at midnight one day outside", 4, timePtr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -TrendingRecencyDays-1)), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTrending(tt.rating, tt.published, tt.popularity, now))
		})
	}
}

func TestSearchPopularity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "searcher")
	seedSearches(t, db, userID, "I loved Dune", 1)
	seedSearches(t, db, userID, "DUNE sequel release", 1)
	seedSearches(t, db, userID, "cooking for beginners", 1)

	popularity, err := svc.SearchPopularity(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, 2, popularity)

	popularity, err = svc.SearchPopularity(ctx, "Neuromancer")
	require.NoError(t, err)
	assert.Equal(t, 0, popularity)
}

func TestListTrendingBooks_Ordering(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	now := time.Now()
	recent := timePtr(now.AddDate(0, 0, -10))
	userID := createTestUser(t, db, "reader")

	alpha := seedBook(t, svc, &Book{Title: "Alpha", Author: "A", Rating: 5, PublishedDate: recent})
	bravo := seedBook(t, svc, &Book{Title: "Bravo", Author: "B", Rating: 5, PublishedDate: recent})
	charlie := seedBook(t, svc, &Book{Title: "Charlie", Author: "C", Rating: 4, PublishedDate: recent})
	delta := seedBook(t, svc, &Book{Title: "Delta", Author: "D", Rating: 4, PublishedDate: recent})
	// Highly rated but old and unsearched, so never trending.
	seedBook(t, svc, &Book{Title: "Echo", Author: "E", Rating: 5, PublishedDate: timePtr(now.AddDate(-1, 0, 0))})
	// Recent but poorly rated.
	seedBook(t, svc, &Book{Title: "Foxtrot", Author: "F", Rating: 3, PublishedDate: recent})

	// Bravo is more searched than Alpha, so it wins the rating tie.
	seedSearches(t, db, userID, "Bravo", 3)

	trending, total, err := svc.ListTrendingBooks(ctx, pagination.Query{Page: 1, PageSize: 100}, now)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, trending, 4)

	assert.Equal(t, bravo.ID, trending[0].ID)
	assert.Equal(t, 3, trending[0].Popularity)
	assert.Equal(t, alpha.ID, trending[1].ID)
	assert.Equal(t, 0, trending[1].Popularity)
	// Equal rating and popularity fall back to insertion order.
	assert.Equal(t, charlie.ID, trending[2].ID)
	assert.Equal(t, delta.ID, trending[3].ID)
}

func TestListTrendingBooks_PopularityQualifies(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	now := time.Now()
	old := timePtr(now.AddDate(-2, 0, 0))
	userID := createTestUser(t, db, "climber")

	everest := seedBook(t, svc, &Book{Title: "Everest", Author: "A", Rating: 5, PublishedDate: old})
	seedBook(t, svc, &Book{Title: "Annapurna", Author: "B", Rating: 5, PublishedDate: old})

	seedSearches(t, db, userID, "Everest", TrendingPopularityThreshold)
	seedSearches(t, db, userID, "Annapurna", TrendingPopularityThreshold-1)

	trending, total, err := svc.ListTrendingBooks(ctx, pagination.Query{Page: 1, PageSize: 100}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, trending, 1)
	assert.Equal(t, everest.ID, trending[0].ID)
	assert.Equal(t, TrendingPopularityThreshold, trending[0].Popularity)
}

func TestListTrendingBooks_NoPublicationDate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	now := time.Now()
	userID := createTestUser(t, db, "reader")

	undated := seedBook(t, svc, &Book{Title: "Undated", Author: "A", Rating: 5})
	seedBook(t, svc, &Book{Title: "Obscure", Author: "B", Rating: 5})

	// A missing date only trends through popularity.
	seedSearches(t, db, userID, "Undated", TrendingPopularityThreshold)

	trending, total, err := svc.ListTrendingBooks(ctx, pagination.Query{Page: 1, PageSize: 100}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, trending, 1)
	assert.Equal(t, undated.ID, trending[0].ID)
}

// The bulk trending query and the per-book predicate must agree on every book.
func TestListTrendingBooks_MatchesPerBookPredicate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	// A midday clock exposes granularity mismatches between the query and
	// the predicate on books published at midnight of a boundary day.
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	userID := createTestUser(t, db, "reader")

	books := []*Book{
		seedBook(t, svc, &Book{Title: "Golf", Author: "A", Rating: 5, PublishedDate: timePtr(now.AddDate(0, 0, -5))}),
		seedBook(t, svc, &Book{Title: "Hotel", Author: "B", Rating: 4, PublishedDate: timePtr(now.AddDate(-1, 0, 0))}),
		seedBook(t, svc, &Book{Title: "India", Author: "C", Rating: 3, PublishedDate: timePtr(now.AddDate(0, 0, -5))}),
		seedBook(t, svc, &Book{Title: "Juliett", Author: "D", Rating: 4}),
		seedBook(t, svc, &Book{Title: "Kilo", Author: "E", Rating: 5, PublishedDate: timePtr(now.AddDate(0, 0, -300))}),
		seedBook(t, svc, &Book{Title: "Lima", Author: "F", Rating: 4, PublishedDate: timePtr(midnight.AddDate(0, 0, -TrendingRecencyDays))}),
		seedBook(t, svc, &Book{Title: "Mike", Author: "G", Rating: 4, PublishedDate: timePtr(midnight.AddDate(0, 0, -TrendingRecencyDays-1))}),
	}
	seedSearches(t, db, userID, "Hotel", TrendingPopularityThreshold)
	seedSearches(t, db, userID, "Juliett", TrendingPopularityThreshold)
	seedSearches(t, db, userID, "Kilo", TrendingPopularityThreshold-1)

	trending, _, err := svc.ListTrendingBooks(ctx, pagination.Query{Page: 1, PageSize: 100}, now)
	require.NoError(t, err)

	inBulk := map[int]bool{}
	for _, tb := range trending {
		inBulk[tb.ID] = true
	}

	for _, book := range books {
		perBook, err := svc.BookIsTrending(ctx, book, now)
		require.NoError(t, err)
		assert.Equal(t, perBook, inBulk[book.ID], "book %q", book.Title)
	}

	// The edge day itself is still inside the window; the day before is not.
	assert.True(t, inBulk[books[5].ID])
	assert.False(t, inBulk[books[6].ID])
}
