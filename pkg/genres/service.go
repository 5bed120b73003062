package genres

import (
	"context"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// MinSelection is how many genres a user must pick as interests before
// proceeding.
const MinSelection = 4

type ListGenresOptions struct {
	// Name filters by case-insensitive substring.
	Name *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*Genre, error) {
	genres := []*Genre{}

	q := svc.db.
		NewSelect().
		Model(&genres).
		Order("g.id ASC")

	if opts.Name != nil {
		q = q.Where("instr(lower(g.name), lower(?)) > 0", *opts.Name)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genres, nil
}

// ValidateSelection checks that at least MinSelection distinct genres were
// chosen and that every chosen id exists.
func (svc *Service) ValidateSelection(ctx context.Context, genreIDs []int) error {
	unique := uniqueInts(genreIDs)
	if len(unique) < MinSelection {
		return errcodes.ValidationError("You must select at least four genres.")
	}

	count, err := svc.db.NewSelect().
		Model((*Genre)(nil)).
		Where("id IN (?)", bun.In(unique)).
		Count(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if count != len(unique) {
		return errcodes.ValidationError("One or more selected genres are invalid.")
	}

	return nil
}

func uniqueInts(values []int) []int {
	seen := map[int]bool{}
	unique := []int{}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	return unique
}
