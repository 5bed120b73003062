package contents

import "github.com/Roshanshah098/bonewaroshan/pkg/pagination"

type ListContentsQuery struct {
	pagination.Query

	Kind *string `query:"kind" json:"kind,omitempty" validate:"omitempty,max=50"`
}

type CreateContentPayload struct {
	Kind          string  `json:"kind" validate:"required,max=50"`
	Title         string  `json:"title" validate:"required,max=100"`
	Body          *string `json:"body,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty" validate:"omitempty,max=500"`
}

type CreateCommentPayload struct {
	CommentText string `json:"comment_text" validate:"required"`
	ParentID    *int   `json:"parent_id,omitempty" validate:"omitempty,min=1"`
}
