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

// GenreRepository is implemented by every storage backend. Lookups return
// (nil, nil) when nothing matches.
type GenreRepository interface {
	FindAll(ctx context.Context) ([]*entity.Genre, error)
	FindByID(ctx context.Context, id string) (*entity.Genre, error)
	FindByIDs(ctx context.Context, ids []string) ([]*entity.Genre, error)

	// CountByIDs counts stored genres whose id is in ids. Duplicate ids in
	// the input match the same row once.
	CountByIDs(ctx context.Context, ids []string) (int64, error)

	Create(ctx context.Context, genre *entity.Genre) error
	Update(ctx context.Context, genre *entity.Genre) (*entity.Genre, error)
	Delete(ctx context.Context, id string) error
}

type genreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

const genreColumns = `id, name, created_at, updated_at`

func scanGenre(row pgx.Row) (*entity.Genre, error) {
	var genre entity.Genre
	err := row.Scan(
		&genre.ID,
		&genre.Name,
		&genre.CreatedAt,
		&genre.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	genre.CreatedAt = genre.CreatedAt.UTC()
	genre.UpdatedAt = genre.UpdatedAt.UTC()
	return &genre, nil
}

func (r *genreRepository) FindAll(ctx context.Context) ([]*entity.Genre, error) {
	query := `SELECT ` + genreColumns + ` FROM genres ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all genres", zap.Error(err))
		return nil, fmt.Errorf("find genres: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *genreRepository) FindByID(ctx context.Context, id string) (*entity.Genre, error) {
	query := `SELECT ` + genreColumns + ` FROM genres WHERE id = $1`

	genre, err := scanGenre(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by ID",
			zap.Error(err),
			zap.String("genre_id", id),
		)
		return nil, fmt.Errorf("find genre by id: %w", err)
	}

	return genre, nil
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Genre, error) {
	if len(ids) == 0 {
		return []*entity.Genre{}, nil
	}

	query := `SELECT ` + genreColumns + ` FROM genres WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find genres by IDs",
			zap.Error(err),
			zap.Strings("genre_ids", ids),
		)
		return nil, fmt.Errorf("find genres by ids: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *genreRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM genres WHERE id = ANY($1)`, ids).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count genres",
			zap.Error(err),
			zap.Strings("genre_ids", ids),
		)
		return 0, fmt.Errorf("count genres: %w", err)
	}

	return count, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `INSERT INTO genres (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		genre.ID,
		genre.Name,
		genre.CreatedAt,
		genre.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to create genre",
			zap.Error(err),
			zap.String("name", genre.Name),
		)
		return fmt.Errorf("create genre: %w", err)
	}

	return nil
}

func (r *genreRepository) Update(ctx context.Context, genre *entity.Genre) (*entity.Genre, error) {
	query := `
		UPDATE genres
		SET name = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + genreColumns

	updated, err := scanGenre(r.db.QueryRow(ctx, query, genre.ID, genre.Name, genre.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to update genre",
			zap.Error(err),
			zap.String("genre_id", genre.ID),
		)
		return nil, fmt.Errorf("update genre: %w", err)
	}

	return updated, nil
}

func (r *genreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to delete genre",
			zap.Error(err),
			zap.String("genre_id", id),
		)
		return fmt.Errorf("delete genre: %w", err)
	}

	return nil
}

func (r *genreRepository) collect(rows pgx.Rows) ([]*entity.Genre, error) {
	genres := []*entity.Genre{}
	for rows.Next() {
		genre, err := scanGenre(rows)
		if err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate genre rows: %w", err)
	}

	return genres, nil
}
