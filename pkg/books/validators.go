package books

import "github.com/Roshanshah098/bonewaroshan/pkg/pagination"

type ListBooksQuery struct {
	pagination.Query

	Search     *string `query:"search" json:"search,omitempty" validate:"omitempty,max=255"`
	Title      *string `query:"title" json:"title,omitempty" validate:"omitempty,max=255"`
	Author     *string `query:"author" json:"author,omitempty" validate:"omitempty,max=255"`
	Genre      *string `query:"genre" json:"genre,omitempty" validate:"omitempty,max=255"`
	Categories *string `query:"categories" json:"categories,omitempty" validate:"omitempty,max=255"`
}

type CreateBookPayload struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Author        string  `json:"author" validate:"required,max=255"`
	Genre         *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	Description   *string `json:"description,omitempty"`
	PublishedDate *string `json:"published_date,omitempty" validate:"omitempty,date"`
	Categories    *string `json:"categories,omitempty" validate:"omitempty,max=100"`
}

// RateBookPayload carries the new rating. The field is a pointer and checked
// by the handler so a missing rating and an out-of-range one produce
// different errors.
type RateBookPayload struct {
	Rating *int `json:"rating"`
}
