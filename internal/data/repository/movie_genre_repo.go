package repository

import (
	"context"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"go.uber.org/zap"
)

// MovieGenreRepository manages the movie_genres bridge table. Writes take a
// Querier so they can run inside the caller's transaction.
type MovieGenreRepository interface {
	CreateBatch(ctx context.Context, q database.Querier, movieGenres []*entity.MovieGenre) error
	DeleteByMovieID(ctx context.Context, q database.Querier, movieID string) error

	// FindByMovieIDs returns genre ids per movie, in submitted order.
	FindByMovieIDs(ctx context.Context, movieIDs []string) (map[string][]string, error)
}

type movieGenreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieGenreRepository(db database.PgxIface, log *zap.Logger) MovieGenreRepository {
	return &movieGenreRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie_genre")),
	}
}

func (r *movieGenreRepository) CreateBatch(ctx context.Context, q database.Querier, movieGenres []*entity.MovieGenre) error {
	query := `INSERT INTO movie_genres (movie_id, genre_id, position) VALUES ($1, $2, $3)`

	for _, mg := range movieGenres {
		if _, err := q.Exec(ctx, query, mg.MovieID, mg.GenreID, mg.Position); err != nil {
			r.log.Error("Failed to create movie_genre",
				zap.Error(err),
				zap.String("movie_id", mg.MovieID),
				zap.String("genre_id", mg.GenreID),
			)
			return fmt.Errorf("create movie genre: %w", err)
		}
	}

	return nil
}

func (r *movieGenreRepository) DeleteByMovieID(ctx context.Context, q database.Querier, movieID string) error {
	if _, err := q.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, movieID); err != nil {
		r.log.Error("Failed to delete movie_genres",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return fmt.Errorf("delete movie genres: %w", err)
	}

	return nil
}

func (r *movieGenreRepository) FindByMovieIDs(ctx context.Context, movieIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(movieIDs))
	if len(movieIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT movie_id, genre_id
		FROM movie_genres
		WHERE movie_id = ANY($1)
		ORDER BY movie_id, position
	`

	rows, err := r.db.Query(ctx, query, movieIDs)
	if err != nil {
		r.log.Error("Failed to find movie_genres", zap.Error(err))
		return nil, fmt.Errorf("find movie genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movieID, genreID string
		if err := rows.Scan(&movieID, &genreID); err != nil {
			r.log.Error("Failed to scan movie_genre row", zap.Error(err))
			return nil, fmt.Errorf("scan movie genre row: %w", err)
		}
		result[movieID] = append(result[movieID], genreID)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movie genre rows: %w", err)
	}

	return result, nil
}
