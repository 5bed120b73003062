package books

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/searches"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int

	// Title, Author, and Search match as case-insensitive substrings.
	Title  *string
	Author *string
	Search *string

	// Genre and Categories accept comma-separated values; a book matches
	// when any value equals its field exactly.
	Genre      *string
	Categories *string

	includeTotal bool
}

type Service struct {
	db            *bun.DB
	searchService *searches.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:            db,
		searchService: searches.NewService(db),
	}
}

func (svc *Service) CreateBook(ctx context.Context, book *Book) error {
	if book.Genre != nil && !isChoice(*book.Genre, GenreChoices) {
		return errcodes.ValidationError(fmt.Sprintf("%q is not a valid genre", *book.Genre))
	}
	if book.Categories != nil && !isChoice(*book.Categories, CategoryChoices) {
		return errcodes.ValidationError(fmt.Sprintf("%q is not a valid category", *book.Categories))
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*Book, error) {
	book := &Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*Book, int, error) {
	books := []*Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Order("b.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.Title != nil {
		q = q.Where("instr(lower(b.title), lower(?)) > 0", *opts.Title)
	}
	if opts.Author != nil {
		q = q.Where("instr(lower(b.author), lower(?)) > 0", *opts.Author)
	}
	if opts.Search != nil {
		search := *opts.Search
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("instr(lower(b.title), lower(?)) > 0", search).
				WhereOr("instr(lower(b.author), lower(?)) > 0", search).
				WhereOr("instr(lower(b.genre), lower(?)) > 0", search)
		})
	}
	if opts.Genre != nil {
		q = whereAnyEquals(q, "b.genre", splitTerms(*opts.Genre))
	}
	if opts.Categories != nil {
		q = whereAnyEquals(q, "b.categories", splitTerms(*opts.Categories))
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// RateBook validates the new rating, replaces the book's rating atomically,
// and returns the updated book. Out-of-range values are a validation error,
// never a server error.
func (svc *Service) RateBook(ctx context.Context, bookID, rating int) (*Book, error) {
	if rating < RatingMin || rating > RatingMax {
		return nil, errcodes.ValidationError(fmt.Sprintf("\"rating\" must be between %d and %d", RatingMin, RatingMax))
	}

	result, err := svc.db.NewUpdate().
		Model((*Book)(nil)).
		Set("rating = ?", rating).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", bookID).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected == 0 {
		return nil, errcodes.NotFound("Book")
	}

	return svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &bookID})
}

// RecordView creates one view event and increments the book's view counter.
// Both effects happen in one transaction, and the increment is issued as
// views = views + 1 at the store so concurrent views never lose updates.
func (svc *Service) RecordView(ctx context.Context, bookID int, userID *int) (*BookView, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	view := &BookView{
		ID:       id.String(),
		BookID:   bookID,
		UserID:   userID,
		ViewedAt: time.Now(),
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*Book)(nil)).
			Set("views = views + 1").
			Where("id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			return errcodes.NotFound("Book")
		}

		_, err = tx.NewInsert().
			Model(view).
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// CountViews returns how many view events exist for a book.
func (svc *Service) CountViews(ctx context.Context, bookID int) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*BookView)(nil)).
		Where("book_id = ?", bookID).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

func isChoice(value string, choices []string) bool {
	for _, choice := range choices {
		if value == choice {
			return true
		}
	}
	return false
}

// whereAnyEquals folds the terms into an OR group of exact matches. No terms
// means no constraint.
func whereAnyEquals(q *bun.SelectQuery, column string, terms []string) *bun.SelectQuery {
	if len(terms) == 0 {
		return q
	}
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, term := range terms {
			q = q.WhereOr(column+" = ?", term)
		}
		return q
	})
}
