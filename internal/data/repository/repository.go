package repository

import (
	"context"
	"fmt"

	"movie-catalog/pkg/database"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

type Repository struct {
	Genre GenreRepository
	Movie MovieRepository
}

// NewRepository builds the relational repositories on a pgx pool.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	movieGenre := NewMovieGenreRepository(db, log)
	return &Repository{
		Genre: NewGenreRepository(db, log),
		Movie: NewMovieRepository(db, movieGenre, log),
	}
}

// NewMongoRepository builds the document store repositories and makes sure
// the unique indexes exist.
func NewMongoRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*Repository, error) {
	if err := ensureGenreIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("genre indexes: %w", err)
	}
	if err := ensureMovieIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("movie indexes: %w", err)
	}

	return &Repository{
		Genre: NewMongoGenreRepository(db, log),
		Movie: NewMongoMovieRepository(db, log),
	}, nil
}

// NewFileRepository builds the flat JSON file repositories.
func NewFileRepository(store *database.FileStore, log *zap.Logger) *Repository {
	return &Repository{
		Genre: NewFileGenreRepository(store, log),
		Movie: NewFileMovieRepository(store, log),
	}
}
