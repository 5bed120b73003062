package users

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:"id,pk,autoincrement" json:"id"`
	Username     string    `bun:",nullzero" json:"username"`
	Email        *string   `json:"email"`
	PasswordHash string    `bun:",nullzero" json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
