package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/api"
	"github.com/printtrack/tracking-service/pkg/errors"
	"github.com/printtrack/tracking-service/pkg/logging"
	"github.com/printtrack/tracking-service/pkg/middleware"
)

// Kafka topics for outbound domain events
const (
	TopicOrderEvents    = "tracking.order-events"
	TopicMaterialEvents = "tracking.material-events"
)

// OrderApplicationService handles order-related use cases
type OrderApplicationService struct {
	orderRepo       domain.OrderRepository
	fileStore       domain.FileStore
	publisher       domain.EventPublisher
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewOrderApplicationService creates a new OrderApplicationService
func NewOrderApplicationService(
	orderRepo domain.OrderRepository,
	fileStore domain.FileStore,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo:       orderRepo,
		fileStore:       fileStore,
		publisher:       publisher,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// CreateOrder registers a new production order at the first stage
func (s *OrderApplicationService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderDTO, error) {
	orderID := "ORD-" + uuid.New().String()[:8]

	order, err := domain.NewOrder(orderID, cmd.ClientName, cmd.CreatedBy, newRecordID, time.Now().UTC())
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save order", "orderId", orderID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.businessMetrics.RecordOrderCreated()
	s.publishEvent(ctx, TopicOrderEvents, domain.NewOrderCreatedEvent(order))

	s.logger.Event(ctx, "order.created", map[string]any{
		"orderId":    orderID,
		"clientName": cmd.ClientName,
		"createdBy":  cmd.CreatedBy,
	})

	return ToOrderDTO(order), nil
}

// GetOrder retrieves an order by ID
func (s *OrderApplicationService) GetOrder(ctx context.Context, query GetOrderQuery) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(*order), nil
}

// ListOrders lists one page of orders, optionally narrowed to a stage
func (s *OrderApplicationService) ListOrders(ctx context.Context, query ListOrdersQuery) (*api.PageResponse[OrderSummaryDTO], error) {
	filter := query.ToDomainFilter()
	if filter.Stage != nil && !filter.Stage.IsValid() {
		return nil, errors.ErrValidation(fmt.Sprintf("unknown stage %q", query.Stage))
	}

	pagination := query.ToDomainPagination()

	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count orders")
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []domain.Order
	if filter.Stage != nil {
		orders, err = s.orderRepo.FindByStage(ctx, *filter.Stage, pagination)
	} else {
		orders, err = s.orderRepo.FindPage(ctx, pagination)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	result := api.NewPageResponse(ToOrderSummaryDTOs(orders), pagination.Page, pagination.PageSize, total)
	return &result, nil
}

// RecentOrders returns the most recently updated orders, newest first
func (s *OrderApplicationService) RecentOrders(ctx context.Context, limit int) ([]OrderSummaryDTO, error) {
	if limit < 1 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	orders, err := s.orderRepo.FindRecent(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list recent orders")
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return ToOrderSummaryDTOs(orders), nil
}

// SetStageStatus updates one stage's status, advancing the order when the
// current stage is completed
func (s *OrderApplicationService) SetStageStatus(ctx context.Context, cmd SetStageStatusCommand) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	stage := domain.Stage(cmd.Stage)
	status := domain.StageStatus(cmd.Status)

	updated, err := order.SetStageStatus(stage, status, time.Now().UTC())
	if err != nil {
		return nil, mapDomainError(err)
	}
	advanced := updated.CurrentStage != order.CurrentStage

	if err := s.orderRepo.Save(ctx, updated); err != nil {
		s.logger.WithError(err).Error("Failed to save order", "orderId", cmd.OrderID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.businessMetrics.RecordStageTransition(cmd.Stage, cmd.Status)
	if advanced {
		s.businessMetrics.RecordStageAdvanced(string(updated.CurrentStage))
	}
	s.publishEvent(ctx, TopicOrderEvents, domain.NewStageStatusChangedEvent(updated, stage, status, advanced))

	s.logger.Event(ctx, "order.stage_status_changed", map[string]any{
		"orderId":      cmd.OrderID,
		"stage":        cmd.Stage,
		"status":       cmd.Status,
		"advanced":     advanced,
		"currentStage": string(updated.CurrentStage),
		"actor":        cmd.Actor,
	})

	return ToOrderDTO(updated), nil
}

// SaveStageNotes replaces one stage's notes
func (s *OrderApplicationService) SaveStageNotes(ctx context.Context, cmd SaveStageNotesCommand) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	updated, err := order.SaveStageNotes(domain.Stage(cmd.Stage), cmd.Notes, time.Now().UTC())
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.orderRepo.Save(ctx, updated); err != nil {
		s.logger.WithError(err).Error("Failed to save order", "orderId", cmd.OrderID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Event(ctx, "order.stage_notes_saved", map[string]any{
		"orderId": cmd.OrderID,
		"stage":   cmd.Stage,
		"actor":   cmd.Actor,
	})

	return ToOrderDTO(updated), nil
}

// AttachStageFile stores an uploaded file and links it to a stage
func (s *OrderApplicationService) AttachStageFile(ctx context.Context, cmd AttachStageFileCommand) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	stage := domain.Stage(cmd.Stage)
	if !stage.IsValid() {
		return nil, mapDomainError(domain.ErrInvalidStage)
	}

	fileID, url, err := s.fileStore.Store(ctx, cmd.Content, cmd.FileName, cmd.ContentType)
	if err != nil {
		s.logger.WithError(err).Error("Failed to store file", "orderId", cmd.OrderID, "fileName", cmd.FileName)
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	now := time.Now().UTC()
	file := domain.FileRef{
		ID:          fileID,
		Name:        cmd.FileName,
		URL:         url,
		ContentType: cmd.ContentType,
		UploadedAt:  now,
		UploadedBy:  cmd.Actor,
	}

	updated, err := order.AttachStageFile(stage, file, now)
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.orderRepo.Save(ctx, updated); err != nil {
		s.logger.WithError(err).Error("Failed to save order", "orderId", cmd.OrderID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.businessMetrics.RecordFileUploaded(cmd.Stage)
	s.publishEvent(ctx, TopicOrderEvents, domain.NewStageFileAttachedEvent(updated, stage, file))

	s.logger.Event(ctx, "order.stage_file_attached", map[string]any{
		"orderId":  cmd.OrderID,
		"stage":    cmd.Stage,
		"fileId":   fileID,
		"fileName": cmd.FileName,
		"actor":    cmd.Actor,
	})

	return ToOrderDTO(updated), nil
}

// FetchFile retrieves a stored file's content by its ID
func (s *OrderApplicationService) FetchFile(ctx context.Context, fileID string) (*domain.StoredFile, error) {
	file, err := s.fileStore.Fetch(ctx, fileID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch file", "fileId", fileID)
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	if file == nil {
		return nil, errors.ErrNotFoundWithID("file", fileID)
	}
	return file, nil
}

func (s *OrderApplicationService) loadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get order", "orderId", orderID)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", orderID)
	}
	return order, nil
}

// publishEvent publishes a domain event at most once; publish failures are
// logged and never fail the request, the saved state is the source of truth
func (s *OrderApplicationService) publishEvent(ctx context.Context, topic string, event domain.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish event", "topic", topic, "eventType", event.EventType())
	}
}

func newRecordID() string {
	return uuid.New().String()
}

// mapDomainError converts domain rule violations into transport-level errors
func mapDomainError(err error) error {
	switch {
	case stderrors.Is(err, domain.ErrTransitionNotAllowed):
		return errors.ErrConflict(err.Error()).Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidStage),
		stderrors.Is(err, domain.ErrInvalidStatus),
		stderrors.Is(err, domain.ErrInsufficientStock),
		stderrors.Is(err, domain.ErrClientNameRequired),
		stderrors.Is(err, domain.ErrMaterialNameRequired),
		stderrors.Is(err, domain.ErrNegativeQuantity):
		return errors.ErrValidation(err.Error()).Wrap(err)
	default:
		return err
	}
}
