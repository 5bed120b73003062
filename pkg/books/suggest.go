package books

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const (
	// SuggestionQueryCount is how many recent searches feed the
	// suggestions endpoint.
	SuggestionQueryCount = 5
	// PreviousSearchBooksLimit caps the previous-search-books result set.
	PreviousSearchBooksLimit = 10
)

type SuggestBooksOptions struct {
	// RecentQueries limits how many of the user's most recent searches are
	// considered. 0 means all of them.
	RecentQueries int
	// MaxResults caps the result set. 0 means uncapped.
	MaxResults int
}

// SuggestBooks derives book suggestions from the user's search history. Each
// recorded query is split on commas into terms; a book matches a term when
// its title contains it (case-insensitive) or its genre or categories equals
// it exactly. The result is the deduplicated union across all terms, ordered
// by title ascending.
//
// The second return value reports whether the user had any history at all,
// so callers can distinguish "no history" from "history matched nothing".
func (svc *Service) SuggestBooks(ctx context.Context, userID int, opts SuggestBooksOptions) ([]*Book, bool, error) {
	recent, err := svc.searchService.ListRecentSearches(ctx, userID, opts.RecentQueries)
	if err != nil {
		return nil, false, err
	}
	if len(recent) == 0 {
		return []*Book{}, false, nil
	}

	terms := []string{}
	for _, search := range recent {
		terms = append(terms, splitTerms(search.Query)...)
	}
	if len(terms) == 0 {
		return []*Book{}, true, nil
	}

	suggestions := []*Book{}

	q := svc.db.NewSelect().
		Model(&suggestions).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, term := range terms {
				q = q.
					WhereOr("instr(lower(b.title), lower(?)) > 0", term).
					WhereOr("b.genre = ?", term).
					WhereOr("b.categories = ?", term)
			}
			return q
		}).
		Order("b.title ASC")

	if opts.MaxResults > 0 {
		q = q.Limit(opts.MaxResults)
	}

	err = q.Scan(ctx)
	if err != nil {
		return nil, true, errors.WithStack(err)
	}

	return suggestions, true, nil
}

// splitTerms splits a recorded query on commas, trims whitespace, and drops
// terms that end up empty so a trailing comma never matches everything.
func splitTerms(query string) []string {
	terms := []string{}
	for _, part := range strings.Split(query, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}
