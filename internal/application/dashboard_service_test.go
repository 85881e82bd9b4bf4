package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printtrack/tracking-service/internal/domain"
)

func seedOrder(t *testing.T, repo *fakeOrderRepository, id string, stage domain.Stage, lastUpdated time.Time) {
	t.Helper()
	err := repo.Save(context.Background(), domain.Order{
		ID:           id,
		ClientName:   "Acme Print Co",
		CurrentStage: stage,
		Created:      lastUpdated,
		LastUpdated:  lastUpdated,
	})
	require.NoError(t, err)
}

func TestDashboardSummary(t *testing.T) {
	orderRepo := newFakeOrderRepository()
	materialRepo := newFakeMaterialRepository()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	seedOrder(t, orderRepo, "ORD-1", domain.StageOrderReceived, base)
	seedOrder(t, orderRepo, "ORD-2", domain.StageQualityCheck, base.Add(2*time.Hour))
	seedOrder(t, orderRepo, "ORD-3", domain.StageDispatched, base.Add(time.Hour))

	require.NoError(t, materialRepo.Save(context.Background(), domain.Material{
		ID: "MAT-1", Name: "Matte Paper", Quantity: 8, MinThreshold: 10,
	}))
	require.NoError(t, materialRepo.Save(context.Background(), domain.Material{
		ID: "MAT-2", Name: "CMYK Ink", Quantity: 50, MinThreshold: 10,
	}))

	svc := NewDashboardApplicationService(orderRepo, materialRepo, testLogger(), testBusinessMetrics())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ActiveOrders)
	assert.Equal(t, 1, summary.PendingPOOrders)
	assert.Equal(t, 1, summary.OrdersInQC)

	require.Len(t, summary.LowStockMaterials, 1)
	assert.Equal(t, "MAT-1", summary.LowStockMaterials[0].MaterialID)

	require.Len(t, summary.RecentOrders, 3)
	assert.Equal(t, "ORD-2", summary.RecentOrders[0].OrderID)
	assert.Equal(t, "ORD-3", summary.RecentOrders[1].OrderID)
	assert.Equal(t, "ORD-1", summary.RecentOrders[2].OrderID)
}

func TestDashboardSummaryEmpty(t *testing.T) {
	svc := NewDashboardApplicationService(newFakeOrderRepository(), newFakeMaterialRepository(), testLogger(), testBusinessMetrics())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.ActiveOrders)
	assert.Empty(t, summary.LowStockMaterials)
	assert.Empty(t, summary.RecentOrders)
}

func TestListUsers(t *testing.T) {
	repo := &fakeUserRepository{users: []domain.User{
		{ID: "usr-1", Name: "Priya Nair", Email: "priya@printtrack.example", Role: "planner"},
		{ID: "usr-2", Name: "Dan Ober", Email: "dan@printtrack.example", Role: "qc"},
	}}
	svc := NewUserApplicationService(repo, testLogger())

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Priya Nair", users[0].Name)

	user, err := svc.GetUser(context.Background(), "usr-2")
	require.NoError(t, err)
	assert.Equal(t, "qc", user.Role)
}
