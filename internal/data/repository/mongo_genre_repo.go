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

const genreCollection = "genres"

type genreDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Name      string        `bson:"name"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *genreDocument) toEntity() *entity.Genre {
	return &entity.Genre{
		Base: entity.Base{
			ID:        d.ID.Hex(),
			CreatedAt: d.CreatedAt.UTC(),
			UpdatedAt: d.UpdatedAt.UTC(),
		},
		Name: d.Name,
	}
}

type mongoGenreRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewMongoGenreRepository(db *mongo.Database, log *zap.Logger) GenreRepository {
	return &mongoGenreRepository{
		coll: db.Collection(genreCollection),
		log:  log.With(zap.String("repository", "mongo_genre")),
	}
}

func ensureGenreIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(genreCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("genres_name_key"),
	})
	return err
}

// objectIDs converts hex ids, skipping the ones that can never match.
func objectIDs(ids []string) []bson.ObjectID {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return oids
}

var sortByCreation = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func (r *mongoGenreRepository) FindAll(ctx context.Context) ([]*entity.Genre, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoGenreRepository) FindByID(ctx context.Context, id string) (*entity.Genre, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc genreDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by ID",
			zap.Error(err),
			zap.String("genre_id", id),
		)
		return nil, fmt.Errorf("find genre by id: %w", err)
	}

	return doc.toEntity(), nil
}

func (r *mongoGenreRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Genre, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*entity.Genre{}, nil
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
}

func (r *mongoGenreRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	count, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		r.log.Error("Failed to count genres",
			zap.Error(err),
			zap.Strings("genre_ids", ids),
		)
		return 0, fmt.Errorf("count genres: %w", err)
	}

	return count, nil
}

func (r *mongoGenreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	oid, err := bson.ObjectIDFromHex(genre.ID)
	if err != nil {
		return fmt.Errorf("create genre: %w", err)
	}

	_, err = r.coll.InsertOne(ctx, genreDocument{
		ID:        oid,
		Name:      genre.Name,
		CreatedAt: genre.CreatedAt,
		UpdatedAt: genre.UpdatedAt,
	})
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

func (r *mongoGenreRepository) Update(ctx context.Context, genre *entity.Genre) (*entity.Genre, error) {
	oid, err := bson.ObjectIDFromHex(genre.ID)
	if err != nil {
		return nil, nil
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: genre.Name},
		{Key: "updatedAt", Value: genre.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc genreDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
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

	return doc.toEntity(), nil
}

func (r *mongoGenreRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		r.log.Error("Failed to delete genre",
			zap.Error(err),
			zap.String("genre_id", id),
		)
		return fmt.Errorf("delete genre: %w", err)
	}

	return nil
}

func (r *mongoGenreRepository) find(ctx context.Context, filter bson.D) ([]*entity.Genre, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sortByCreation))
	if err != nil {
		r.log.Error("Failed to find genres", zap.Error(err))
		return nil, fmt.Errorf("find genres: %w", err)
	}

	var docs []genreDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.log.Error("Failed to decode genres", zap.Error(err))
		return nil, fmt.Errorf("decode genres: %w", err)
	}

	genres := make([]*entity.Genre, 0, len(docs))
	for i := range docs {
		genres = append(genres, docs[i].toEntity())
	}
	return genres, nil
}
