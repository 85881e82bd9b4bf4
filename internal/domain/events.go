package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseDomainEvent contains common event fields
type BaseDomainEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AggregateId string    `json:"aggregateId"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseDomainEvent) EventType() string     { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseDomainEvent) AggregateID() string   { return e.AggregateId }

// OrderCreatedEvent is raised when a new production order is registered
type OrderCreatedEvent struct {
	BaseDomainEvent
	OrderID    string `json:"orderId"`
	ClientName string `json:"clientName"`
	CreatedBy  string `json:"createdBy"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: newBaseEvent("tracking.order.created", order.ID),
		OrderID:         order.ID,
		ClientName:      order.ClientName,
		CreatedBy:       order.CreatedBy,
	}
}

// StageStatusChangedEvent is raised when a stage's status is updated.
// Advanced is true when the change completed the current stage and moved
// the order forward.
type StageStatusChangedEvent struct {
	BaseDomainEvent
	OrderID      string      `json:"orderId"`
	Stage        Stage       `json:"stage"`
	Status       StageStatus `json:"status"`
	Advanced     bool        `json:"advanced"`
	CurrentStage Stage       `json:"currentStage"`
}

// NewStageStatusChangedEvent creates a new StageStatusChangedEvent
func NewStageStatusChangedEvent(order Order, stage Stage, status StageStatus, advanced bool) *StageStatusChangedEvent {
	return &StageStatusChangedEvent{
		BaseDomainEvent: newBaseEvent("tracking.order.stage-status-changed", order.ID),
		OrderID:         order.ID,
		Stage:           stage,
		Status:          status,
		Advanced:        advanced,
		CurrentStage:    order.CurrentStage,
	}
}

// StageFileAttachedEvent is raised when a file is uploaded against a stage
type StageFileAttachedEvent struct {
	BaseDomainEvent
	OrderID  string `json:"orderId"`
	Stage    Stage  `json:"stage"`
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
}

// NewStageFileAttachedEvent creates a new StageFileAttachedEvent
func NewStageFileAttachedEvent(order Order, stage Stage, file FileRef) *StageFileAttachedEvent {
	return &StageFileAttachedEvent{
		BaseDomainEvent: newBaseEvent("tracking.order.stage-file-attached", order.ID),
		OrderID:         order.ID,
		Stage:           stage,
		FileID:          file.ID,
		FileName:        file.Name,
	}
}

// StockAdjustedEvent is raised when a material's stock level changes
type StockAdjustedEvent struct {
	BaseDomainEvent
	MaterialID string  `json:"materialId"`
	Name       string  `json:"name"`
	Delta      float64 `json:"delta"`
	Quantity   float64 `json:"quantity"`
	AdjustedBy string  `json:"adjustedBy"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(material Material, delta float64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: newBaseEvent("tracking.material.stock-adjusted", material.ID),
		MaterialID:      material.ID,
		Name:            material.Name,
		Delta:           delta,
		Quantity:        material.Quantity,
		AdjustedBy:      material.UpdatedBy,
	}
}

// LowStockEvent is raised when an adjustment drops a material below its
// minimum threshold
type LowStockEvent struct {
	BaseDomainEvent
	MaterialID   string  `json:"materialId"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	MinThreshold float64 `json:"minThreshold"`
	Unit         string  `json:"unit"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(material Material) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: newBaseEvent("tracking.material.low-stock", material.ID),
		MaterialID:      material.ID,
		Name:            material.Name,
		Quantity:        material.Quantity,
		MinThreshold:    material.MinThreshold,
		Unit:            material.Unit,
	}
}

func newBaseEvent(eventType, aggregateID string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		AggregateId: aggregateID,
		Timestamp:   time.Now().UTC(),
	}
}
