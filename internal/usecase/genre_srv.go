package usecase

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/internal/events"
	"movie-catalog/internal/validation"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

type GenreService interface {
	List(ctx context.Context) ([]response.GenreResponse, error)
	// GetByID returns (nil, nil) when the genre does not exist.
	GetByID(ctx context.Context, genreID string) (*response.GenreResponse, error)
	Create(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
	// Update returns (nil, nil) when the genre does not exist.
	Update(ctx context.Context, genreID string, req *request.GenreRequest) (*response.GenreResponse, error)
	Remove(ctx context.Context, genreID string) error

	// CountExisting counts how many of ids are stored genres. Repeated ids
	// are counted once, so callers comparing with len(ids) reject them.
	CountExisting(ctx context.Context, ids []string) (int64, error)
}

type genreService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
}

func NewGenreService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) GenreService {
	return &genreService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) List(ctx context.Context) ([]response.GenreResponse, error) {
	genres, err := s.repo.Genre.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get genres", zap.Error(err))
		return nil, fmt.Errorf("get genres: %w", err)
	}

	s.log.Debug("Genres retrieved", zap.Int("count", len(genres)))
	return response.GenresToResponse(genres), nil
}

func (s *genreService) GetByID(ctx context.Context, genreID string) (*response.GenreResponse, error) {
	if !validation.IsObjectID(genreID) {
		return nil, ErrInvalidID
	}

	genre, err := s.repo.Genre.FindByID(ctx, normalizeID(genreID))
	if err != nil {
		s.log.Error("Failed to get genre by ID",
			zap.Error(err),
			zap.String("genre_id", genreID),
		)
		return nil, fmt.Errorf("get genre by id: %w", err)
	}
	if genre == nil {
		return nil, nil
	}

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) Create(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	ts := now()
	genre := &entity.Genre{
		Base: entity.Base{
			ID:        utils.GenerateObjectID(),
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		Name: req.Name,
	}

	if err := s.repo.Genre.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Info("Genre already exists", zap.String("name", req.Name))
			return nil, fmt.Errorf("genre %q: %w", req.Name, ErrAlreadyExists)
		}
		s.log.Error("Failed to create genre",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.log.Info("Genre created",
		zap.String("genre_id", genre.ID),
		zap.String("name", genre.Name),
	)

	resp := response.GenreToResponse(genre)
	publish(ctx, s.publisher, s.log, events.New(events.GenreCreated, genre.ID, resp))
	return &resp, nil
}

func (s *genreService) Update(ctx context.Context, genreID string, req *request.GenreRequest) (*response.GenreResponse, error) {
	if !validation.IsObjectID(genreID) {
		return nil, ErrInvalidID
	}

	genre := &entity.Genre{
		Base: entity.Base{
			ID:        normalizeID(genreID),
			UpdatedAt: now(),
		},
		Name: req.Name,
	}

	updated, err := s.repo.Genre.Update(ctx, genre)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Info("Genre already exists", zap.String("name", req.Name))
			return nil, fmt.Errorf("genre %q: %w", req.Name, ErrAlreadyExists)
		}
		s.log.Error("Failed to update genre",
			zap.Error(err),
			zap.String("genre_id", genreID),
		)
		return nil, fmt.Errorf("update genre: %w", err)
	}
	if updated == nil {
		return nil, nil
	}

	s.log.Info("Genre updated", zap.String("genre_id", updated.ID))

	resp := response.GenreToResponse(updated)
	publish(ctx, s.publisher, s.log, events.New(events.GenreUpdated, updated.ID, resp))
	return &resp, nil
}

// Remove deletes without checking for referencing movies; their genre ids
// are left dangling.
func (s *genreService) Remove(ctx context.Context, genreID string) error {
	if !validation.IsObjectID(genreID) {
		return ErrInvalidID
	}

	id := normalizeID(genreID)
	if err := s.repo.Genre.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete genre",
			zap.Error(err),
			zap.String("genre_id", genreID),
		)
		return fmt.Errorf("delete genre: %w", err)
	}

	s.log.Info("Genre deleted", zap.String("genre_id", id))
	publish(ctx, s.publisher, s.log, events.New(events.GenreDeleted, id, nil))
	return nil
}

func (s *genreService) CountExisting(ctx context.Context, ids []string) (int64, error) {
	normalized := make([]string, len(ids))
	for i, id := range ids {
		normalized[i] = normalizeID(id)
	}

	count, err := s.repo.Genre.CountByIDs(ctx, normalized)
	if err != nil {
		s.log.Error("Failed to count genres",
			zap.Error(err),
			zap.Strings("genre_ids", ids),
		)
		return 0, fmt.Errorf("count genres: %w", err)
	}

	return count, nil
}
