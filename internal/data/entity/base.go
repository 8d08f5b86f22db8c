package entity

import (
	"time"
)

// Base holds the fields every stored record carries. ID is a 24 hex
// character ObjectID string on all backends.
type Base struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
