package books

import (
	"context"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/pagination"
	"github.com/pkg/errors"
)

const (
	// TrendingRatingThreshold is the minimum rating a trending book needs.
	// Ratings are integers 1..5, so effectively only 4 and 5 qualify.
	TrendingRatingThreshold = 4
	// TrendingPopularityThreshold is how many search log entries must
	// mention a book's title for popularity alone to make it trending.
	TrendingPopularityThreshold = 100
	// TrendingRecencyDays is the publication window that makes a book
	// recent regardless of popularity.
	TrendingRecencyDays = 180
)

// popularityExpr counts the search log entries whose query mentions the
// book's title. It is the single popularity signal used by both the bulk
// trending query and per-book popularity lookups, so the two always agree.
const popularityExpr = "(SELECT COUNT(*) FROM previous_searches ps WHERE instr(lower(ps.query), lower(b.title)) > 0)"

// IsTrending reports whether a book with the given rating, publication date,
// and search popularity is trending. It is a pure function of those three
// values: a book trends when it is highly rated and either recently published
// or popular in search. A missing publication date never satisfies the
// recency clause. Recency compares calendar days, the same granularity the
// date() calls in ListTrendingBooks use, so the two never disagree on a
// boundary day.
func IsTrending(rating int, publishedDate *time.Time, popularity int, now time.Time) bool {
	if rating < TrendingRatingThreshold {
		return false
	}

	isRecent := false
	if publishedDate != nil {
		cutoff := dateOf(now).AddDate(0, 0, -TrendingRecencyDays)
		isRecent = !dateOf(*publishedDate).Before(cutoff)
	}

	return isRecent || popularity >= TrendingPopularityThreshold
}

// dateOf truncates a timestamp to midnight UTC.
func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SearchPopularity returns how many search log entries contain the given
// title as a case-insensitive substring.
func (svc *Service) SearchPopularity(ctx context.Context, title string) (int, error) {
	var count int
	err := svc.db.NewSelect().
		TableExpr("previous_searches").
		ColumnExpr("COUNT(*)").
		Where("instr(lower(query), lower(?)) > 0", title).
		Scan(ctx, &count)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

// BookIsTrending evaluates the trending predicate for a single book by
// looking up its search popularity. ListTrendingBooks computes the same
// predicate in bulk; the two must never disagree.
func (svc *Service) BookIsTrending(ctx context.Context, book *Book, now time.Time) (bool, error) {
	popularity, err := svc.SearchPopularity(ctx, book.Title)
	if err != nil {
		return false, err
	}
	return IsTrending(book.Rating, book.PublishedDate, popularity, now), nil
}

// ListTrendingBooks returns all trending books ordered by rating descending,
// then popularity descending, with id as a stable tie-break. The predicate
// and the popularity signal are evaluated server-side in one query; books
// with no matching searches count as popularity 0 rather than being dropped.
func (svc *Service) ListTrendingBooks(ctx context.Context, page pagination.Query, now time.Time) ([]*TrendingBook, int, error) {
	trending := []*TrendingBook{}
	cutoff := now.AddDate(0, 0, -TrendingRecencyDays)

	total, err := svc.db.NewSelect().
		Model(&trending).
		ColumnExpr("b.*").
		ColumnExpr(popularityExpr + " AS popularity").
		Where("b.rating >= ?", TrendingRatingThreshold).
		Where("(b.published_date IS NOT NULL AND date(b.published_date) >= date(?)) OR "+popularityExpr+" >= ?",
			cutoff, TrendingPopularityThreshold).
		OrderExpr("b.rating DESC, popularity DESC, b.id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return trending, total, nil
}
