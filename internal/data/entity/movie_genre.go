package entity

// MovieGenre is one row of the movie_genres bridge table. Position keeps the
// order the genres were submitted in.
type MovieGenre struct {
	MovieID  string `db:"movie_id"`
	GenreID  string `db:"genre_id"`
	Position int    `db:"position"`
}
