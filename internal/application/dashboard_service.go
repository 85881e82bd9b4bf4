package application

import (
	"context"
	"fmt"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/logging"
	"github.com/printtrack/tracking-service/pkg/middleware"
)

// recentOrdersLimit is how many orders the dashboard's recent panel shows
const recentOrdersLimit = 5

// DashboardApplicationService computes the dashboard summary from the
// current order and material collections
type DashboardApplicationService struct {
	orderRepo       domain.OrderRepository
	materialRepo    domain.MaterialRepository
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewDashboardApplicationService creates a new DashboardApplicationService
func NewDashboardApplicationService(
	orderRepo domain.OrderRepository,
	materialRepo domain.MaterialRepository,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *DashboardApplicationService {
	return &DashboardApplicationService{
		orderRepo:       orderRepo,
		materialRepo:    materialRepo,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// Summary recomputes the dashboard aggregates from current collections
func (s *DashboardApplicationService) Summary(ctx context.Context) (*DashboardSummaryDTO, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load orders for dashboard")
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	materials, err := s.materialRepo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load materials for dashboard")
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}

	lowStock := domain.LowStockMaterials(materials)
	s.businessMetrics.SetLowStockMaterials(len(lowStock))

	return &DashboardSummaryDTO{
		ActiveOrders:      len(domain.ActiveOrders(orders)),
		PendingPOOrders:   len(domain.PendingPOOrders(orders)),
		OrdersInQC:        len(domain.OrdersInQC(orders)),
		LowStockMaterials: ToMaterialDTOs(lowStock),
		RecentOrders:      ToOrderSummaryDTOs(domain.RecentOrders(orders, recentOrdersLimit)),
	}, nil
}
