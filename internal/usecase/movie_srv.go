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

type MovieService interface {
	List(ctx context.Context) ([]response.MovieResponse, error)
	// ListByGenre returns ErrGenreNotFound when the genre does not exist.
	ListByGenre(ctx context.Context, genreID string) ([]response.MovieResponse, error)
	// GetByID returns (nil, nil) when the movie does not exist.
	GetByID(ctx context.Context, movieID string) (*response.MovieResponse, error)
	Create(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	// Update returns (nil, nil) when the movie does not exist. Genres are
	// checked first, so a bad genre list wins over a missing movie.
	Update(ctx context.Context, movieID string, req *request.MovieRequest) (*response.MovieResponse, error)
	Remove(ctx context.Context, movieID string) error
}

type movieService struct {
	repo      *repository.Repository
	genres    GenreService
	publisher events.Publisher
	log       *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	genres GenreService,
	publisher events.Publisher,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:      repo,
		genres:    genres,
		publisher: publisher,
		log:       log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) List(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get movies", zap.Error(err))
		return nil, fmt.Errorf("get movies: %w", err)
	}

	s.log.Debug("Movies retrieved", zap.Int("count", len(movies)))
	return s.toResponses(ctx, movies)
}

func (s *movieService) ListByGenre(ctx context.Context, genreID string) ([]response.MovieResponse, error) {
	if !validation.IsObjectID(genreID) {
		return nil, ErrInvalidID
	}

	id := normalizeID(genreID)
	count, err := s.genres.CountExisting(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrGenreNotFound
	}

	movies, err := s.repo.Movie.FindByGenreID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get movies by genre",
			zap.Error(err),
			zap.String("genre_id", genreID),
		)
		return nil, fmt.Errorf("get movies by genre: %w", err)
	}

	return s.toResponses(ctx, movies)
}

func (s *movieService) GetByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	if !validation.IsObjectID(movieID) {
		return nil, ErrInvalidID
	}

	movie, err := s.repo.Movie.FindByID(ctx, normalizeID(movieID))
	if err != nil {
		s.log.Error("Failed to get movie by ID",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("get movie by id: %w", err)
	}
	if movie == nil {
		return nil, nil
	}

	return s.toResponse(ctx, movie)
}

func (s *movieService) Create(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := s.checkGenres(ctx, req.GenreIDs); err != nil {
		return nil, err
	}

	ts := now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        utils.GenerateObjectID(),
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		GenreIDs:    req.GenreIDs,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Info("Movie already exists", zap.String("title", req.Title))
			return nil, fmt.Errorf("movie %q: %w", req.Title, ErrAlreadyExists)
		}
		s.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", req.Title),
		)
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID),
		zap.String("title", movie.Title),
	)

	resp, err := s.toResponse(ctx, movie)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.log, events.New(events.MovieCreated, movie.ID, resp))
	return resp, nil
}

func (s *movieService) Update(ctx context.Context, movieID string, req *request.MovieRequest) (*response.MovieResponse, error) {
	if !validation.IsObjectID(movieID) {
		return nil, ErrInvalidID
	}
	if err := s.checkGenres(ctx, req.GenreIDs); err != nil {
		return nil, err
	}

	movie := &entity.Movie{
		Base: entity.Base{
			ID:        normalizeID(movieID),
			UpdatedAt: now(),
		},
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		GenreIDs:    req.GenreIDs,
	}

	updated, err := s.repo.Movie.Update(ctx, movie)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Info("Movie already exists", zap.String("title", req.Title))
			return nil, fmt.Errorf("movie %q: %w", req.Title, ErrAlreadyExists)
		}
		s.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("update movie: %w", err)
	}
	if updated == nil {
		return nil, nil
	}

	s.log.Info("Movie updated", zap.String("movie_id", updated.ID))

	resp, err := s.toResponse(ctx, updated)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.log, events.New(events.MovieUpdated, updated.ID, resp))
	return resp, nil
}

func (s *movieService) Remove(ctx context.Context, movieID string) error {
	if !validation.IsObjectID(movieID) {
		return ErrInvalidID
	}

	id := normalizeID(movieID)
	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", movieID),
		)
		return fmt.Errorf("delete movie: %w", err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", id))
	publish(ctx, s.publisher, s.log, events.New(events.MovieDeleted, id, nil))
	return nil
}

// checkGenres rejects the list unless every id names a distinct stored genre.
func (s *movieService) checkGenres(ctx context.Context, ids []string) error {
	count, err := s.genres.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		s.log.Info("Referenced genre not found",
			zap.Strings("genre_ids", ids),
			zap.Int64("found", count),
		)
		return ErrGenreNotFound
	}
	return nil
}

func (s *movieService) toResponse(ctx context.Context, movie *entity.Movie) (*response.MovieResponse, error) {
	resps, err := s.toResponses(ctx, []*entity.Movie{movie})
	if err != nil {
		return nil, err
	}
	return &resps[0], nil
}

// toResponses resolves every referenced genre with one lookup.
func (s *movieService) toResponses(ctx context.Context, movies []*entity.Movie) ([]response.MovieResponse, error) {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, m := range movies {
		for _, id := range m.GenreIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	genres, err := s.repo.Genre.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to resolve genres",
			zap.Error(err),
			zap.Strings("genre_ids", ids),
		)
		return nil, fmt.Errorf("resolve genres: %w", err)
	}

	byID := make(map[string]*entity.Genre, len(genres))
	for _, g := range genres {
		byID[g.ID] = g
	}

	result := make([]response.MovieResponse, 0, len(movies))
	for _, m := range movies {
		result = append(result, response.MovieToResponse(m, byID))
	}
	return result, nil
}
