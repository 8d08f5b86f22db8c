package response

import "movie-catalog/internal/data/entity"

type GenreResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Helper converter
func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{
		ID:        genre.ID,
		Name:      genre.Name,
		CreatedAt: formatTime(genre.CreatedAt),
		UpdatedAt: formatTime(genre.UpdatedAt),
	}
}

func GenresToResponse(genres []*entity.Genre) []GenreResponse {
	result := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		result = append(result, GenreToResponse(g))
	}
	return result
}
