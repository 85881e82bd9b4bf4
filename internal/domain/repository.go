package domain

import (
	"context"
	"io"
	"time"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Save persists an order (upsert)
	Save(ctx context.Context, order Order) error

	// FindByID retrieves an order by its ID; nil when not found
	FindByID(ctx context.Context, orderID string) (*Order, error)

	// FindAll retrieves every order, most recently updated first
	FindAll(ctx context.Context) ([]Order, error)

	// FindPage retrieves one page of orders, most recently updated first
	FindPage(ctx context.Context, pagination Pagination) ([]Order, error)

	// FindByStage retrieves orders whose current stage matches
	FindByStage(ctx context.Context, stage Stage, pagination Pagination) ([]Order, error)

	// FindRecent retrieves the n most recently updated orders
	FindRecent(ctx context.Context, n int) ([]Order, error)

	// Count returns the total number of orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)
}

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	// Save persists a material (upsert)
	Save(ctx context.Context, material Material) error

	// FindByID retrieves a material by its ID; nil when not found
	FindByID(ctx context.Context, materialID string) (*Material, error)

	// FindAll retrieves every material, sorted by name
	FindAll(ctx context.Context) ([]Material, error)
}

// User is a read-only view of a team member. Authentication lives outside
// the service; this exists so the team listing can be served.
type User struct {
	ID        string    `bson:"userId" json:"userId"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	AvatarURL string    `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// UserRepository defines the read-only interface for team members
type UserRepository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, userID string) (*User, error)
}

// StoredFile is the result of fetching a stored artifact's content
type StoredFile struct {
	Name        string
	ContentType string
	Content     io.ReadCloser
}

// FileStore defines the interface for artifact storage. Store returns the
// URL under which the stored bytes can later be fetched.
type FileStore interface {
	Store(ctx context.Context, content io.Reader, name, contentType string) (fileID string, url string, err error)
	Fetch(ctx context.Context, fileID string) (*StoredFile, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes a domain event
	Publish(ctx context.Context, topic string, event DomainEvent) error
}

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}

// OrderFilter represents filter options for querying orders
type OrderFilter struct {
	Stage      *Stage
	ClientName *string
	ActiveOnly bool
}
