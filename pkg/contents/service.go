package contents

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListContentsOptions struct {
	Limit  *int
	Offset *int
	Kind   *string

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateContent(ctx context.Context, content *Content) error {
	if !isKind(content.Kind) {
		return errcodes.ValidationError(fmt.Sprintf("%q is not a valid content kind", content.Kind))
	}

	now := time.Now()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	content.UpdatedAt = content.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(content).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveContent(ctx context.Context, id int) (*Content, error) {
	content := &Content{}

	err := svc.db.
		NewSelect().
		Model(content).
		Where("ct.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Content")
		}
		return nil, errors.WithStack(err)
	}

	return content, nil
}

func (svc *Service) ListContentsWithTotal(ctx context.Context, opts ListContentsOptions) ([]*Content, int, error) {
	opts.includeTotal = true
	return svc.listContentsWithTotal(ctx, opts)
}

func (svc *Service) listContentsWithTotal(ctx context.Context, opts ListContentsOptions) ([]*Content, int, error) {
	contents := []*Content{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&contents).
		Order("ct.created_at DESC", "ct.id DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.Kind != nil {
		if !isKind(*opts.Kind) {
			return nil, 0, errcodes.ValidationError(fmt.Sprintf("%q is not a valid content kind", *opts.Kind))
		}
		q = q.Where("ct.kind = ?", *opts.Kind)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return contents, total, nil
}

// CreateComment adds a comment to a content item. A reply must point at a
// parent comment on the same content item.
func (svc *Service) CreateComment(ctx context.Context, comment *Comment) error {
	if _, err := svc.RetrieveContent(ctx, comment.ContentID); err != nil {
		return err
	}

	if comment.ParentID != nil {
		parent := &Comment{}
		err := svc.db.NewSelect().
			Model(parent).
			Where("cm.id = ?", *comment.ParentID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Parent comment")
			}
			return errors.WithStack(err)
		}
		if parent.ContentID != comment.ContentID {
			return errcodes.ValidationError("Parent comment belongs to a different content item")
		}
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := svc.db.
		NewInsert().
		Model(comment).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ListComments returns a content item's top-level comments with their
// replies, oldest first.
func (svc *Service) ListComments(ctx context.Context, contentID int) ([]*Comment, error) {
	comments := []*Comment{}

	err := svc.db.
		NewSelect().
		Model(&comments).
		Relation("Replies", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("id ASC")
		}).
		Where("cm.content_id = ?", contentID).
		Where("cm.parent_id IS NULL").
		Order("cm.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return comments, nil
}

func isKind(kind string) bool {
	for _, choice := range KindChoices {
		if kind == choice {
			return true
		}
	}
	return false
}
