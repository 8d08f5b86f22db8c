package response

import (
	"encoding/json"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
)

func TestMovieToResponseResolvesGenres(t *testing.T) {
	ts := time.Date(2023, time.March, 31, 10, 15, 0, 250_000_000, time.UTC)
	movie := &entity.Movie{
		Base:        entity.Base{ID: "m1", CreatedAt: ts, UpdatedAt: ts},
		Title:       "The Matrix",
		Description: "The true nature of reality.",
		ReleaseDate: time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC),
		GenreIDs:    []string{"g2", "gone", "g1", "g2"},
	}
	genres := map[string]*entity.Genre{
		"g1": {Base: entity.Base{ID: "g1"}, Name: "Action"},
		"g2": {Base: entity.Base{ID: "g2"}, Name: "Science Fiction"},
	}

	resp := MovieToResponse(movie, genres)

	want := []GenreRef{
		{ID: "g2", Name: "Science Fiction"},
		{ID: "g1", Name: "Action"},
		{ID: "g2", Name: "Science Fiction"},
	}
	if len(resp.Genre) != len(want) {
		t.Fatalf("Genre = %v, want %v", resp.Genre, want)
	}
	for i := range want {
		if resp.Genre[i] != want[i] {
			t.Fatalf("Genre[%d] = %v, want %v", i, resp.Genre[i], want[i])
		}
	}

	if resp.ReleaseDate != "1999-03-31T00:00:00.000Z" {
		t.Fatalf("ReleaseDate = %q", resp.ReleaseDate)
	}
	if resp.CreatedAt != "2023-03-31T10:15:00.250Z" {
		t.Fatalf("CreatedAt = %q", resp.CreatedAt)
	}
}

func TestMovieToResponseEmptyGenreIsArray(t *testing.T) {
	resp := MovieToResponse(&entity.Movie{GenreIDs: []string{"gone"}}, nil)

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if genre, ok := decoded["genre"].([]any); !ok || len(genre) != 0 {
		t.Fatalf("genre = %v, want []", decoded["genre"])
	}
}
