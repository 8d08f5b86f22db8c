package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"go.uber.org/zap"
)

const movieFile = "movies.json"

type fileMovieRepository struct {
	file *database.JSONFile[entity.Movie]
	log  *zap.Logger
}

// NewFileMovieRepository keeps movies in movies.json under the store directory.
func NewFileMovieRepository(store *database.FileStore, log *zap.Logger) MovieRepository {
	return &fileMovieRepository{
		file: database.NewJSONFile[entity.Movie](store, movieFile),
		log:  log.With(zap.String("repository", "file_movie")),
	}
}

func (r *fileMovieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	return r.filter(func(*entity.Movie) bool { return true })
}

func (r *fileMovieRepository) FindByGenreID(ctx context.Context, genreID string) ([]*entity.Movie, error) {
	return r.filter(func(m *entity.Movie) bool {
		return slices.Contains(m.GenreIDs, genreID)
	})
}

func (r *fileMovieRepository) FindByID(ctx context.Context, id string) (*entity.Movie, error) {
	movies, err := r.filter(func(m *entity.Movie) bool { return m.ID == id })
	if err != nil || len(movies) == 0 {
		return nil, err
	}
	return movies[0], nil
}

func (r *fileMovieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	err := r.file.Update(func(movies []entity.Movie) ([]entity.Movie, error) {
		for i := range movies {
			if sameRelease(&movies[i], movie) {
				return nil, ErrDuplicate
			}
		}
		return append(movies, *movie), nil
	})
	if errors.Is(err, ErrDuplicate) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie: %w", err)
	}

	return nil
}

func (r *fileMovieRepository) Update(ctx context.Context, movie *entity.Movie) (*entity.Movie, error) {
	var updated *entity.Movie

	err := r.file.Update(func(movies []entity.Movie) ([]entity.Movie, error) {
		idx, taken := -1, false
		for i := range movies {
			switch {
			case movies[i].ID == movie.ID:
				idx = i
			case sameRelease(&movies[i], movie):
				taken = true
			}
		}
		if idx < 0 {
			return movies, nil
		}
		if taken {
			return nil, ErrDuplicate
		}

		stored := &movies[idx]
		stored.Title = movie.Title
		stored.Description = movie.Description
		stored.ReleaseDate = movie.ReleaseDate
		stored.GenreIDs = append([]string(nil), movie.GenreIDs...)
		stored.UpdatedAt = movie.UpdatedAt

		result := *stored
		updated = &result
		return movies, nil
	})
	if errors.Is(err, ErrDuplicate) {
		return nil, err
	}
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID),
		)
		return nil, fmt.Errorf("update movie: %w", err)
	}

	return updated, nil
}

func (r *fileMovieRepository) Delete(ctx context.Context, id string) error {
	err := r.file.Update(func(movies []entity.Movie) ([]entity.Movie, error) {
		kept := movies[:0]
		for _, m := range movies {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		return kept, nil
	})
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return fmt.Errorf("delete movie: %w", err)
	}

	return nil
}

func (r *fileMovieRepository) filter(keep func(*entity.Movie) bool) ([]*entity.Movie, error) {
	movies, err := r.file.Read()
	if err != nil {
		r.log.Error("Failed to read movies", zap.Error(err))
		return nil, fmt.Errorf("read movies: %w", err)
	}

	result := []*entity.Movie{}
	for i := range movies {
		m := &movies[i]
		if m.GenreIDs == nil {
			m.GenreIDs = []string{}
		}
		if keep(m) {
			result = append(result, m)
		}
	}
	return result, nil
}

func sameRelease(a, b *entity.Movie) bool {
	return a.Title == b.Title && a.ReleaseDate.Equal(b.ReleaseDate)
}
