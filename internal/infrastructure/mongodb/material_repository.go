package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/metrics"
)

const materialCollection = "materials"

// MaterialRepository implements domain.MaterialRepository using MongoDB
type MaterialRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(db *mongo.Database, m *metrics.Metrics) *MaterialRepository {
	collection := db.Collection(materialCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "materialId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &MaterialRepository{collection: collection, metrics: m}
}

// Save persists a material (upsert by materialId)
func (r *MaterialRepository) Save(ctx context.Context, material domain.Material) error {
	start := time.Now()
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"materialId": material.ID}
	update := bson.M{"$set": material}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	observe(r.metrics, materialCollection, "save", start, err)
	if err != nil {
		return fmt.Errorf("failed to save material: %w", err)
	}

	return nil
}

// FindByID retrieves a material by its ID
func (r *MaterialRepository) FindByID(ctx context.Context, materialID string) (*domain.Material, error) {
	start := time.Now()
	var material domain.Material
	filter := bson.M{"materialId": materialID}

	err := r.collection.FindOne(ctx, filter).Decode(&material)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observe(r.metrics, materialCollection, "findById", start, nil)
		return nil, nil
	}
	observe(r.metrics, materialCollection, "findById", start, err)
	if err != nil {
		return nil, err
	}

	return &material, nil
}

// FindAll retrieves every material, sorted by name
func (r *MaterialRepository) FindAll(ctx context.Context) ([]domain.Material, error) {
	start := time.Now()
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		observe(r.metrics, materialCollection, "findAll", start, err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var materials []domain.Material
	err = cursor.All(ctx, &materials)
	observe(r.metrics, materialCollection, "findAll", start, err)
	if err != nil {
		return nil, err
	}

	return materials, nil
}
