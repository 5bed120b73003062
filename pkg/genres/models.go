package genres

import "github.com/uptrace/bun"

// Genre is read-mostly reference data seeded by the initial migration.
type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:",nullzero" json:"name"`
}
