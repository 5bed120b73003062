package genres

type ListGenresQuery struct {
	Name *string `query:"name" json:"name,omitempty" validate:"omitempty,max=50"`
}

type SelectionPayload struct {
	GenreIDs []int `json:"genre_ids" validate:"required"`
}
