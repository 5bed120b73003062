package contents

import (
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/users"
	"github.com/uptrace/bun"
)

const (
	KindPoem        = "poem"
	KindStory       = "story"
	KindQuestion    = "question"
	KindPerception  = "perception"
	KindInformation = "information"
)

// KindChoices is the closed set of content kinds.
var KindChoices = []string{
	KindPoem,
	KindStory,
	KindQuestion,
	KindPerception,
	KindInformation,
}

type Content struct {
	bun.BaseModel `bun:"table:contents,alias:ct"`

	ID            int         `bun:"id,pk,autoincrement" json:"id"`
	Kind          string      `bun:",nullzero" json:"kind"`
	Title         string      `bun:",nullzero" json:"title"`
	Body          *string     `json:"body"`
	ThumbnailPath *string     `json:"thumbnail_path"`
	AuthorID      *int        `json:"author_id"`
	Author        *users.User `bun:"rel:belongs-to" json:"-"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Comment threads through ParentID: top-level comments have a nil parent and
// carry their replies.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cm"`

	ID          int         `bun:"id,pk,autoincrement" json:"id"`
	UserID      int         `bun:",nullzero" json:"user_id"`
	User        *users.User `bun:"rel:belongs-to" json:"-"`
	ContentID   int         `bun:",nullzero" json:"content_id"`
	ParentID    *int        `json:"parent_id"`
	CommentText string      `bun:",nullzero" json:"comment_text"`
	CreatedAt   time.Time   `json:"created_at"`

	Replies []*Comment `bun:"rel:has-many,join:id=parent_id" json:"replies,omitempty"`
}
