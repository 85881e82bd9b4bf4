package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/metrics"
)

const userCollection = "users"

// UserRepository implements domain.UserRepository using MongoDB. The users
// collection is maintained by the identity system; this repository only reads.
type UserRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database, m *metrics.Metrics) *UserRepository {
	collection := db.Collection(userCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &UserRepository{collection: collection, metrics: m}
}

// FindAll retrieves every team member, sorted by name
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		observe(r.metrics, userCollection, "findAll", start, err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []domain.User
	err = cursor.All(ctx, &users)
	observe(r.metrics, userCollection, "findAll", start, err)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// FindByID retrieves a team member by ID
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	start := time.Now()
	var user domain.User
	filter := bson.M{"userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observe(r.metrics, userCollection, "findById", start, nil)
		return nil, nil
	}
	observe(r.metrics, userCollection, "findById", start, err)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
