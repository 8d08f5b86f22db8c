package response

import "movie-catalog/internal/data/entity"

// GenreRef is a genre id resolved against the genre store.
type GenreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MovieResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ReleaseDate string     `json:"releaseDate"`
	Genre       []GenreRef `json:"genre"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// MovieToResponse resolves the movie's genre ids through genres, keeping the
// stored order. Ids missing from genres are left out.
func MovieToResponse(movie *entity.Movie, genres map[string]*entity.Genre) MovieResponse {
	refs := make([]GenreRef, 0, len(movie.GenreIDs))
	for _, id := range movie.GenreIDs {
		genre, ok := genres[id]
		if !ok {
			continue
		}
		refs = append(refs, GenreRef{ID: genre.ID, Name: genre.Name})
	}

	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		ReleaseDate: formatTime(movie.ReleaseDate),
		Genre:       refs,
		CreatedAt:   formatTime(movie.CreatedAt),
		UpdatedAt:   formatTime(movie.UpdatedAt),
	}
}
