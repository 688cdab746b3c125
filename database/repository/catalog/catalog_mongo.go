package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"clinicbooking/database"
	"clinicbooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoCatalogRepo struct {
	experts  *mongo.Collection
	services *mongo.Collection
}

// NewMongoCatalogRepo constructs a CatalogRepository over the "experts" and "services" collections.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	repo := &mongoCatalogRepo{
		experts:  db.Collection("experts"),
		services: db.Collection("services"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create catalog indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.experts.Indexes().CreateMany(ctx, unique); err != nil {
		return fmt.Errorf("experts: %w", err)
	}
	if _, err := r.services.Indexes().CreateMany(ctx, unique); err != nil {
		return fmt.Errorf("services: %w", err)
	}
	return nil
}

func (r *mongoCatalogRepo) ListExperts(ctx context.Context) ([]models.Expert, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.experts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve experts: %w", err)
	}
	defer cursor.Close(ctx)

	experts := []models.Expert{}
	if err := cursor.All(ctx, &experts); err != nil {
		return nil, fmt.Errorf("failed to decode experts: %w", err)
	}
	return experts, nil
}

func (r *mongoCatalogRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.services.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *mongoCatalogRepo) CountExperts(ctx context.Context) (int64, error) {
	return r.experts.CountDocuments(ctx, bson.M{})
}

func (r *mongoCatalogRepo) CountServices(ctx context.Context) (int64, error) {
	return r.services.CountDocuments(ctx, bson.M{})
}

func (r *mongoCatalogRepo) InsertExperts(ctx context.Context, experts []models.Expert) error {
	if len(experts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(experts))
	for _, e := range experts {
		docs = append(docs, e)
	}
	if _, err := r.experts.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert experts: %w", err)
	}
	return nil
}

func (r *mongoCatalogRepo) InsertServices(ctx context.Context, services []models.Service) error {
	if len(services) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(services))
	for _, s := range services {
		docs = append(docs, s)
	}
	if _, err := r.services.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert services: %w", err)
	}
	return nil
}
