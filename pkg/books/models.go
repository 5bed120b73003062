package books

import (
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/users"
	"github.com/uptrace/bun"
)

// GenreChoices is the closed set of genres a book can carry.
var GenreChoices = []string{
	"Fiction",
	"Non-Fiction",
	"Mystery",
	"Science Fiction",
	"Biography",
	"Fantasy",
	"History",
	"Poetry",
}

// CategoryChoices is the closed set of media types.
var CategoryChoices = []string{
	"Book",
	"Audio",
	"Ebook",
	"Book & Audio",
}

const (
	// RatingMin and RatingMax bound the rating a caller can set. A stored
	// rating of 0 means unrated and is only ever the default.
	RatingMin = 1
	RatingMax = 5
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID            int        `bun:"id,pk,autoincrement" json:"id"`
	Title         string     `bun:",nullzero" json:"title"`
	Author        string     `bun:",nullzero" json:"author"`
	Genre         *string    `json:"genre"`
	Description   *string    `json:"description"`
	PublishedDate *time.Time `json:"published_date"`
	Rating        int        `json:"rating"`
	Views         int        `json:"views"`
	Categories    *string    `json:"categories"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BookView is one recorded view event. Created exactly once per RecordView
// and immutable afterwards; its lifetime is bounded by the book's.
type BookView struct {
	bun.BaseModel `bun:"table:book_views,alias:bv"`

	ID       string      `bun:",pk,nullzero" json:"id"`
	BookID   int         `bun:",nullzero" json:"book_id"`
	Book     *Book       `bun:"rel:belongs-to" json:"-"`
	UserID   *int        `json:"user_id"`
	User     *users.User `bun:"rel:belongs-to" json:"-"`
	ViewedAt time.Time   `json:"viewed_at"`
}

// TrendingBook is a book annotated with its search popularity, as produced by
// the bulk trending query. It reads from the books table, not a table of its
// own.
type TrendingBook struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	Book `bun:",extend"`

	Popularity int `bun:"popularity,scanonly" json:"popularity"`
}
