package searches

import (
	"context"
	"strings"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// RecordSearch appends one search log entry for the user. The query must be
// non-empty after trimming.
func (svc *Service) RecordSearch(ctx context.Context, userID int, query string) (*PreviousSearch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errcodes.ValidationError("Search query cannot be empty.")
	}

	search := &PreviousSearch{
		UserID:     userID,
		Query:      query,
		SearchedAt: time.Now(),
	}

	_, err := svc.db.NewInsert().Model(search).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return search, nil
}

// ListRecentSearches returns the user's most recent searches, newest first.
// Entries with equal timestamps are tie-broken by id so the order is stable.
// A limit of 0 means no limit.
func (svc *Service) ListRecentSearches(ctx context.Context, userID, limit int) ([]*PreviousSearch, error) {
	searches := []*PreviousSearch{}

	q := svc.db.NewSelect().
		Model(&searches).
		Where("ps.user_id = ?", userID).
		Order("ps.searched_at DESC", "ps.id DESC")

	if limit > 0 {
		q = q.Limit(limit)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return searches, nil
}

// CountSearches returns the number of log entries the user owns.
func (svc *Service) CountSearches(ctx context.Context, userID int) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*PreviousSearch)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

// ClearSearchHistory deletes all of the user's log entries and returns how
// many were removed. Other users' entries are untouched.
func (svc *Service) ClearSearchHistory(ctx context.Context, userID int) (int, error) {
	result, err := svc.db.NewDelete().
		Model((*PreviousSearch)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return int(deleted), nil
}
