package searches

import (
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/users"
	"github.com/uptrace/bun"
)

// PreviousSearch is one append-only search log entry. Rows are never mutated;
// they only go away through ClearSearchHistory or when the user is deleted.
type PreviousSearch struct {
	bun.BaseModel `bun:"table:previous_searches,alias:ps"`

	ID         int         `bun:"id,pk,autoincrement" json:"id"`
	UserID     int         `bun:",nullzero" json:"user_id"`
	User       *users.User `bun:"rel:belongs-to" json:"-"`
	Query      string      `bun:",nullzero" json:"query"`
	SearchedAt time.Time   `json:"searched_at"`
}
