package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/errors"
	"github.com/printtrack/tracking-service/pkg/logging"
	"github.com/printtrack/tracking-service/pkg/middleware"
)

// MaterialApplicationService handles materials inventory use cases
type MaterialApplicationService struct {
	materialRepo    domain.MaterialRepository
	publisher       domain.EventPublisher
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewMaterialApplicationService creates a new MaterialApplicationService
func NewMaterialApplicationService(
	materialRepo domain.MaterialRepository,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *MaterialApplicationService {
	return &MaterialApplicationService{
		materialRepo:    materialRepo,
		publisher:       publisher,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// CreateMaterial registers a material with an initial stock level
func (s *MaterialApplicationService) CreateMaterial(ctx context.Context, cmd CreateMaterialCommand) (*MaterialDTO, error) {
	materialID := "MAT-" + uuid.New().String()[:8]

	material, err := domain.NewMaterial(materialID, cmd.Name, cmd.Quantity, cmd.Unit, cmd.MinThreshold, cmd.Actor, time.Now().UTC())
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		s.logger.WithError(err).Error("Failed to save material", "materialId", materialID)
		return nil, fmt.Errorf("failed to save material: %w", err)
	}

	s.logger.Event(ctx, "material.created", map[string]any{
		"materialId": materialID,
		"name":       cmd.Name,
		"actor":      cmd.Actor,
	})

	return ToMaterialDTO(material), nil
}

// GetMaterial retrieves a material by ID
func (s *MaterialApplicationService) GetMaterial(ctx context.Context, materialID string) (*MaterialDTO, error) {
	material, err := s.loadMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	return ToMaterialDTO(*material), nil
}

// Material list filters
const (
	MaterialFilterLowStock = "low_stock"
	MaterialFilterInStock  = "in_stock"
)

// ListMaterials lists materials, optionally narrowed to low-stock or
// adequately stocked ones
func (s *MaterialApplicationService) ListMaterials(ctx context.Context, filter string) ([]MaterialDTO, error) {
	if filter != "" && filter != MaterialFilterLowStock && filter != MaterialFilterInStock {
		return nil, errors.ErrValidation(fmt.Sprintf("unknown filter %q", filter))
	}

	materials, err := s.materialRepo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list materials")
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	if filter != "" {
		wantLow := filter == MaterialFilterLowStock
		filtered := make([]domain.Material, 0, len(materials))
		for _, m := range materials {
			if m.IsLowStock() == wantLow {
				filtered = append(filtered, m)
			}
		}
		materials = filtered
	}

	return ToMaterialDTOs(materials), nil
}

// AdjustStock applies a signed stock delta to a material
func (s *MaterialApplicationService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*MaterialDTO, error) {
	material, err := s.loadMaterial(ctx, cmd.MaterialID)
	if err != nil {
		return nil, err
	}

	adjusted, err := material.AdjustStock(cmd.Delta, cmd.Actor, time.Now().UTC())
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.materialRepo.Save(ctx, adjusted); err != nil {
		s.logger.WithError(err).Error("Failed to save material", "materialId", cmd.MaterialID)
		return nil, fmt.Errorf("failed to save material: %w", err)
	}

	direction := "restock"
	if cmd.Delta < 0 {
		direction = "consumption"
	}
	s.businessMetrics.RecordStockAdjustment(direction)

	s.publishMaterialEvent(ctx, domain.NewStockAdjustedEvent(adjusted, cmd.Delta))
	if adjusted.IsLowStock() && !material.IsLowStock() {
		s.publishMaterialEvent(ctx, domain.NewLowStockEvent(adjusted))
	}

	s.logger.Event(ctx, "material.stock_adjusted", map[string]any{
		"materialId": cmd.MaterialID,
		"delta":      cmd.Delta,
		"quantity":   adjusted.Quantity,
		"lowStock":   adjusted.IsLowStock(),
		"actor":      cmd.Actor,
	})

	return ToMaterialDTO(adjusted), nil
}

func (s *MaterialApplicationService) loadMaterial(ctx context.Context, materialID string) (*domain.Material, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get material", "materialId", materialID)
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if material == nil {
		return nil, errors.ErrNotFoundWithID("material", materialID)
	}
	return material, nil
}

func (s *MaterialApplicationService) publishMaterialEvent(ctx context.Context, event domain.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, TopicMaterialEvents, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish event", "topic", TopicMaterialEvents, "eventType", event.EventType())
	}
}
