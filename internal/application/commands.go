package application

import (
	"io"

	"github.com/printtrack/tracking-service/internal/domain"
)

// CreateOrderCommand carries the data needed to register a new production order
type CreateOrderCommand struct {
	ClientName string
	CreatedBy  string
}

// SetStageStatusCommand carries a stage status change request
type SetStageStatusCommand struct {
	OrderID string
	Stage   string
	Status  string
	Actor   string
}

// SaveStageNotesCommand carries a stage notes update
type SaveStageNotesCommand struct {
	OrderID string
	Stage   string
	Notes   string
	Actor   string
}

// AttachStageFileCommand carries a file upload against a stage
type AttachStageFileCommand struct {
	OrderID     string
	Stage       string
	FileName    string
	ContentType string
	Content     io.Reader
	Actor       string
}

// CreateMaterialCommand carries the data needed to register a material
type CreateMaterialCommand struct {
	Name         string
	Quantity     float64
	Unit         string
	MinThreshold float64
	Actor        string
}

// AdjustStockCommand carries a signed stock adjustment
type AdjustStockCommand struct {
	MaterialID string
	Delta      float64
	Actor      string
}

// GetOrderQuery retrieves a single order
type GetOrderQuery struct {
	OrderID string
}

// ListOrdersQuery lists orders with optional stage filter and pagination
type ListOrdersQuery struct {
	Stage    string
	Page     int64
	PageSize int64
}

// ToDomainFilter converts the query to a domain filter
func (q ListOrdersQuery) ToDomainFilter() domain.OrderFilter {
	filter := domain.OrderFilter{}
	if q.Stage != "" {
		stage := domain.Stage(q.Stage)
		filter.Stage = &stage
	}
	return filter
}

// ToDomainPagination converts the query to domain pagination, applying defaults
func (q ListOrdersQuery) ToDomainPagination() domain.Pagination {
	pagination := domain.DefaultPagination()
	if q.Page > 0 {
		pagination.Page = q.Page
	}
	if q.PageSize > 0 && q.PageSize <= 100 {
		pagination.PageSize = q.PageSize
	}
	return pagination
}
