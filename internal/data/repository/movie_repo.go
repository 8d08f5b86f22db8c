package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MovieRepository is implemented by every storage backend. GenreIDs come back
// in the order they were stored.
type MovieRepository interface {
	FindAll(ctx context.Context) ([]*entity.Movie, error)
	FindByID(ctx context.Context, id string) (*entity.Movie, error)
	FindByGenreID(ctx context.Context, genreID string) ([]*entity.Movie, error)
	Create(ctx context.Context, movie *entity.Movie) error
	Update(ctx context.Context, movie *entity.Movie) (*entity.Movie, error)
	Delete(ctx context.Context, id string) error
}

type movieRepository struct {
	db         database.PgxIface
	movieGenre MovieGenreRepository
	log        *zap.Logger
}

func NewMovieRepository(db database.PgxIface, movieGenre MovieGenreRepository, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:         db,
		movieGenre: movieGenre,
		log:        log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, description, release_date, created_at, updated_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.ReleaseDate,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	movie.ReleaseDate = movie.ReleaseDate.UTC()
	movie.CreatedAt = movie.CreatedAt.UTC()
	movie.UpdatedAt = movie.UpdatedAt.UTC()
	return &movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *movieRepository) FindByGenreID(ctx context.Context, genreID string) ([]*entity.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE id IN (SELECT movie_id FROM movie_genres WHERE genre_id = $1)
		ORDER BY created_at, id`
	return r.list(ctx, query, genreID)
}

func (r *movieRepository) FindByID(ctx context.Context, id string) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return nil, fmt.Errorf("find movie by id: %w", err)
	}

	if err := r.attachGenres(ctx, []*entity.Movie{movie}); err != nil {
		return nil, err
	}

	return movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO movies (id, title, description, release_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = tx.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.ReleaseDate,
		movie.CreatedAt,
		movie.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie: %w", err)
	}

	if err := r.movieGenre.CreateBatch(ctx, tx, bridgeRows(movie)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit movie", zap.Error(err), zap.String("movie_id", movie.ID))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) (*entity.Movie, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE movies
		SET title = $2, description = $3, release_date = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + movieColumns

	updated, err := scanMovie(tx.QueryRow(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.ReleaseDate,
		movie.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID),
		)
		return nil, fmt.Errorf("update movie: %w", err)
	}

	if err := r.movieGenre.DeleteByMovieID(ctx, tx, movie.ID); err != nil {
		return nil, err
	}
	if err := r.movieGenre.CreateBatch(ctx, tx, bridgeRows(movie)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit movie", zap.Error(err), zap.String("movie_id", movie.ID))
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	updated.GenreIDs = append([]string(nil), movie.GenreIDs...)
	return updated, nil
}

// Delete removes the movie; its bridge rows go with it through ON DELETE CASCADE.
func (r *movieRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return fmt.Errorf("delete movie: %w", err)
	}

	return nil
}

func (r *movieRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Movie, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find movies", zap.Error(err))
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	movies := []*entity.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}
	rows.Close()

	if err := r.attachGenres(ctx, movies); err != nil {
		return nil, err
	}

	return movies, nil
}

func (r *movieRepository) attachGenres(ctx context.Context, movies []*entity.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}

	byMovie, err := r.movieGenre.FindByMovieIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, m := range movies {
		m.GenreIDs = byMovie[m.ID]
		if m.GenreIDs == nil {
			m.GenreIDs = []string{}
		}
	}
	return nil
}

func bridgeRows(movie *entity.Movie) []*entity.MovieGenre {
	rows := make([]*entity.MovieGenre, 0, len(movie.GenreIDs))
	for i, genreID := range movie.GenreIDs {
		rows = append(rows, &entity.MovieGenre{
			MovieID:  movie.ID,
			GenreID:  genreID,
			Position: i,
		})
	}
	return rows
}
