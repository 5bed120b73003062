package books

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
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
	// A single connection keeps the in-memory database alive across the pool.
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

func seedBook(t *testing.T, svc *Service, book *Book) *Book {
	t.Helper()

	err := svc.CreateBook(context.Background(), book)
	require.NoError(t, err)

	return book
}

func strPtr(s string) *string { return &s }

func TestCreateBook_Defaults(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &Book{Title: "The Hobbit", Author: "J.R.R. Tolkien"}
	err := svc.CreateBook(ctx, book)
	require.NoError(t, err)

	assert.NotZero(t, book.ID)
	assert.Equal(t, 0, book.Rating)
	assert.Equal(t, 0, book.Views)
	assert.False(t, book.CreatedAt.IsZero())
}

func TestCreateBook_InvalidChoices(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.CreateBook(ctx, &Book{Title: "A", Author: "B", Genre: strPtr("Romance")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.ValidationError(`"Romance" is not a valid genre`)))

	err = svc.CreateBook(ctx, &Book{Title: "A", Author: "B", Categories: strPtr("Vinyl")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.ValidationError(`"Vinyl" is not a valid category`)))
}

func TestRetrieveBook_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	id := 123
	_, err := svc.RetrieveBook(context.Background(), RetrieveBookOptions{ID: &id})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))
}

func TestListBooks_SearchMatchesTitleAuthorGenre(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedBook(t, svc, &Book{Title: "Harry Potter", Author: "J.K. Rowling", Genre: strPtr("Fantasy")})
	seedBook(t, svc, &Book{Title: "Dune", Author: "Frank Herbert", Genre: strPtr("Science Fiction")})
	seedBook(t, svc, &Book{Title: "A Brief History of Time", Author: "Stephen Hawking", Genre: strPtr("Non-Fiction")})

	// Matches the author, case-insensitively.
	books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Search: strPtr("rowling")})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, "Harry Potter", books[0].Title)

	// Matches the genre as a substring.
	books, total, err = svc.ListBooksWithTotal(ctx, ListBooksOptions{Search: strPtr("fiction")})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, books, 2)

	// Matches the title.
	books, _, err = svc.ListBooksWithTotal(ctx, ListBooksOptions{Search: strPtr("dune")})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	books, total, err = svc.ListBooksWithTotal(ctx, ListBooksOptions{Search: strPtr("zzz")})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, books)
}

func TestListBooks_GenreCommaFilter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedBook(t, svc, &Book{Title: "A", Author: "X", Genre: strPtr("Fantasy")})
	seedBook(t, svc, &Book{Title: "B", Author: "Y", Genre: strPtr("History")})
	seedBook(t, svc, &Book{Title: "C", Author: "Z", Genre: strPtr("Poetry")})

	books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Genre: strPtr("Fantasy, History")})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, books, 2)
	assert.Equal(t, "A", books[0].Title)
	assert.Equal(t, "B", books[1].Title)

	// Genre values match exactly, not as substrings.
	_, total, err = svc.ListBooksWithTotal(ctx, ListBooksOptions{Genre: strPtr("Fan")})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestListBooks_Pagination(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedBook(t, svc, &Book{Title: fmt.Sprintf("Book %d", i), Author: "A"})
	}

	limit := 2
	offset := 2
	books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, books, 2)
	assert.Equal(t, "Book 2", books[0].Title)
	assert.Equal(t, "Book 3", books[1].Title)
}

func TestRateBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := seedBook(t, svc, &Book{Title: "A", Author: "B"})

	updated, err := svc.RateBook(ctx, book.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	// Replacement, not an average.
	updated, err = svc.RateBook(ctx, book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
}

func TestRateBook_OutOfRange(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := seedBook(t, svc, &Book{Title: "A", Author: "B"})

	for _, rating := range []int{0, 6, -1, 100} {
		_, err := svc.RateBook(ctx, book.ID, rating)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errcodes.ValidationError(`"rating" must be between 1 and 5`)))
	}

	// The stored rating is untouched.
	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Rating)
}

func TestRateBook_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RateBook(context.Background(), 999, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))
}

func TestRecordView(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := seedBook(t, svc, &Book{Title: "A", Author: "B"})
	userID := createTestUser(t, db, "viewer")

	view, err := svc.RecordView(ctx, book.ID, &userID)
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, book.ID, view.BookID)
	require.NotNil(t, view.UserID)
	assert.Equal(t, userID, *view.UserID)

	// Anonymous views record no user.
	view, err = svc.RecordView(ctx, book.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, view.UserID)

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	count, err := svc.CountViews(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordView_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.RecordView(ctx, 999, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))

	// The failed transaction left no view event behind.
	count, err := svc.CountViews(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecordView_Concurrent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := seedBook(t, svc, &Book{Title: "A", Author: "B"})

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordView(ctx, book.ID, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, n, got.Views)

	count, err := svc.CountViews(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}
