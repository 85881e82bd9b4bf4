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

const orderCollection = "orders"

// OrderRepository implements domain.OrderRepository using MongoDB
type OrderRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database, m *metrics.Metrics) *OrderRepository {
	collection := db.Collection(orderCollection)

	// Create indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "currentStage", Value: 1},
				{Key: "lastUpdated", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "lastUpdated", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "clientName", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &OrderRepository{collection: collection, metrics: m}
}

// Save persists an order (upsert by orderId)
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) error {
	start := time.Now()
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"orderId": order.ID}
	update := bson.M{"$set": order}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	observe(r.metrics, orderCollection, "save", start, err)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by its ID
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	start := time.Now()
	var order domain.Order
	filter := bson.M{"orderId": orderID}

	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observe(r.metrics, orderCollection, "findById", start, nil)
		return nil, nil
	}
	observe(r.metrics, orderCollection, "findById", start, err)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindAll retrieves every order, most recently updated first
func (r *OrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	start := time.Now()
	opts := options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}})

	orders, err := r.findMany(ctx, bson.M{}, opts)
	observe(r.metrics, orderCollection, "findAll", start, err)
	return orders, err
}

// FindPage retrieves one page of orders, most recently updated first
func (r *OrderRepository) FindPage(ctx context.Context, pagination domain.Pagination) ([]domain.Order, error) {
	start := time.Now()
	opts := options.Find().
		SetSort(bson.D{{Key: "lastUpdated", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	orders, err := r.findMany(ctx, bson.M{}, opts)
	observe(r.metrics, orderCollection, "findPage", start, err)
	return orders, err
}

// FindByStage retrieves orders whose current stage matches
func (r *OrderRepository) FindByStage(ctx context.Context, stage domain.Stage, pagination domain.Pagination) ([]domain.Order, error) {
	start := time.Now()
	filter := bson.M{"currentStage": stage}
	opts := options.Find().
		SetSort(bson.D{{Key: "lastUpdated", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	orders, err := r.findMany(ctx, filter, opts)
	observe(r.metrics, orderCollection, "findByStage", start, err)
	return orders, err
}

// FindRecent retrieves the n most recently updated orders
func (r *OrderRepository) FindRecent(ctx context.Context, n int) ([]domain.Order, error) {
	start := time.Now()
	opts := options.Find().
		SetSort(bson.D{{Key: "lastUpdated", Value: -1}}).
		SetLimit(int64(n))

	orders, err := r.findMany(ctx, bson.M{}, opts)
	observe(r.metrics, orderCollection, "findRecent", start, err)
	return orders, err
}

// Count returns the total number of orders matching the filter
func (r *OrderRepository) Count(ctx context.Context, filter domain.OrderFilter) (int64, error) {
	start := time.Now()
	count, err := r.collection.CountDocuments(ctx, r.buildFilter(filter))
	observe(r.metrics, orderCollection, "count", start, err)
	return count, err
}

// findMany is a helper for finding multiple orders
func (r *OrderRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Order, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// buildFilter builds a MongoDB filter from an OrderFilter
func (r *OrderRepository) buildFilter(filter domain.OrderFilter) bson.M {
	mongoFilter := bson.M{}

	if filter.Stage != nil {
		mongoFilter["currentStage"] = *filter.Stage
	}

	if filter.ClientName != nil {
		mongoFilter["clientName"] = *filter.ClientName
	}

	if filter.ActiveOnly {
		mongoFilter["currentStage"] = bson.M{"$ne": domain.StageDispatched}
	}

	return mongoFilter
}
