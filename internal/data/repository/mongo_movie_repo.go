package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/data/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const movieCollection = "movies"

type movieDocument struct {
	ID          bson.ObjectID   `bson:"_id"`
	Title       string          `bson:"title"`
	Description string          `bson:"description"`
	ReleaseDate time.Time       `bson:"releaseDate"`
	Genre       []bson.ObjectID `bson:"genre"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

func (d *movieDocument) toEntity() *entity.Movie {
	genreIDs := make([]string, 0, len(d.Genre))
	for _, oid := range d.Genre {
		genreIDs = append(genreIDs, oid.Hex())
	}

	return &entity.Movie{
		Base: entity.Base{
			ID:        d.ID.Hex(),
			CreatedAt: d.CreatedAt.UTC(),
			UpdatedAt: d.UpdatedAt.UTC(),
		},
		Title:       d.Title,
		Description: d.Description,
		ReleaseDate: d.ReleaseDate.UTC(),
		GenreIDs:    genreIDs,
	}
}

type mongoMovieRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewMongoMovieRepository(db *mongo.Database, log *zap.Logger) MovieRepository {
	return &mongoMovieRepository{
		coll: db.Collection(movieCollection),
		log:  log.With(zap.String("repository", "mongo_movie")),
	}
}

func ensureMovieIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(movieCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}, {Key: "releaseDate", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("movies_title_release_date_key"),
		},
		{
			Keys:    bson.D{{Key: "genre", Value: 1}},
			Options: options.Index().SetName("movies_genre_idx"),
		},
	})
	return err
}

func (r *mongoMovieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoMovieRepository) FindByGenreID(ctx context.Context, genreID string) ([]*entity.Movie, error) {
	oid, err := bson.ObjectIDFromHex(genreID)
	if err != nil {
		return []*entity.Movie{}, nil
	}
	return r.find(ctx, bson.D{{Key: "genre", Value: oid}})
}

func (r *mongoMovieRepository) FindByID(ctx context.Context, id string) (*entity.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc movieDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return nil, fmt.Errorf("find movie by id: %w", err)
	}

	return doc.toEntity(), nil
}

func (r *mongoMovieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	oid, err := bson.ObjectIDFromHex(movie.ID)
	if err != nil {
		return fmt.Errorf("create movie: %w", err)
	}

	_, err = r.coll.InsertOne(ctx, movieDocument{
		ID:          oid,
		Title:       movie.Title,
		Description: movie.Description,
		ReleaseDate: movie.ReleaseDate,
		Genre:       objectIDs(movie.GenreIDs),
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	})
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

	return nil
}

func (r *mongoMovieRepository) Update(ctx context.Context, movie *entity.Movie) (*entity.Movie, error) {
	oid, err := bson.ObjectIDFromHex(movie.ID)
	if err != nil {
		return nil, nil
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: movie.Title},
		{Key: "description", Value: movie.Description},
		{Key: "releaseDate", Value: movie.ReleaseDate},
		{Key: "genre", Value: objectIDs(movie.GenreIDs)},
		{Key: "updatedAt", Value: movie.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc movieDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
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

	return doc.toEntity(), nil
}

func (r *mongoMovieRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return fmt.Errorf("delete movie: %w", err)
	}

	return nil
}

func (r *mongoMovieRepository) find(ctx context.Context, filter bson.D) ([]*entity.Movie, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sortByCreation))
	if err != nil {
		r.log.Error("Failed to find movies", zap.Error(err))
		return nil, fmt.Errorf("find movies: %w", err)
	}

	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.log.Error("Failed to decode movies", zap.Error(err))
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	movies := make([]*entity.Movie, 0, len(docs))
	for i := range docs {
		movies = append(movies, docs[i].toEntity())
	}
	return movies, nil
}
