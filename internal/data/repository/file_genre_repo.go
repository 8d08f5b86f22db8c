package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"go.uber.org/zap"
)

const genreFile = "genres.json"

type fileGenreRepository struct {
	file *database.JSONFile[entity.Genre]
	log  *zap.Logger
}

// NewFileGenreRepository keeps genres in genres.json under the store directory.
func NewFileGenreRepository(store *database.FileStore, log *zap.Logger) GenreRepository {
	return &fileGenreRepository{
		file: database.NewJSONFile[entity.Genre](store, genreFile),
		log:  log.With(zap.String("repository", "file_genre")),
	}
}

func (r *fileGenreRepository) FindAll(ctx context.Context) ([]*entity.Genre, error) {
	genres, err := r.read()
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Genre, 0, len(genres))
	for i := range genres {
		result = append(result, &genres[i])
	}
	return result, nil
}

func (r *fileGenreRepository) FindByID(ctx context.Context, id string) (*entity.Genre, error) {
	genres, err := r.read()
	if err != nil {
		return nil, err
	}

	for i := range genres {
		if genres[i].ID == id {
			return &genres[i], nil
		}
	}
	return nil, nil
}

func (r *fileGenreRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Genre, error) {
	genres, err := r.read()
	if err != nil {
		return nil, err
	}

	wanted := toSet(ids)
	result := []*entity.Genre{}
	for i := range genres {
		if _, ok := wanted[genres[i].ID]; ok {
			result = append(result, &genres[i])
		}
	}
	return result, nil
}

func (r *fileGenreRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	found, err := r.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	return int64(len(found)), nil
}

func (r *fileGenreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	err := r.file.Update(func(genres []entity.Genre) ([]entity.Genre, error) {
		for _, g := range genres {
			if g.Name == genre.Name {
				return nil, ErrDuplicate
			}
		}
		return append(genres, *genre), nil
	})
	if errors.Is(err, ErrDuplicate) {
		return err
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

func (r *fileGenreRepository) Update(ctx context.Context, genre *entity.Genre) (*entity.Genre, error) {
	var updated *entity.Genre

	err := r.file.Update(func(genres []entity.Genre) ([]entity.Genre, error) {
		idx, taken := -1, false
		for i, g := range genres {
			switch {
			case g.ID == genre.ID:
				idx = i
			case g.Name == genre.Name:
				taken = true
			}
		}
		if idx < 0 {
			return genres, nil
		}
		if taken {
			return nil, ErrDuplicate
		}

		genres[idx].Name = genre.Name
		genres[idx].UpdatedAt = genre.UpdatedAt
		result := genres[idx]
		updated = &result
		return genres, nil
	})
	if errors.Is(err, ErrDuplicate) {
		return nil, err
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

func (r *fileGenreRepository) Delete(ctx context.Context, id string) error {
	err := r.file.Update(func(genres []entity.Genre) ([]entity.Genre, error) {
		kept := genres[:0]
		for _, g := range genres {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		return kept, nil
	})
	if err != nil {
		r.log.Error("Failed to delete genre",
			zap.Error(err),
			zap.String("genre_id", id),
		)
		return fmt.Errorf("delete genre: %w", err)
	}

	return nil
}

func (r *fileGenreRepository) read() ([]entity.Genre, error) {
	genres, err := r.file.Read()
	if err != nil {
		r.log.Error("Failed to read genres", zap.Error(err))
		return nil, fmt.Errorf("read genres: %w", err)
	}
	return genres, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
