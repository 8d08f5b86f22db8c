package entity

import (
	"time"
)

// Movie references genres by id. The ids are checked when the movie is
// written but may point at deleted genres later on.
type Movie struct {
	Base
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ReleaseDate time.Time `db:"release_date" json:"releaseDate"`
	GenreIDs    []string  `db:"-" json:"genre"`
}
