package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printtrack/tracking-service/pkg/errors"
)

func newMaterialService(repo *fakeMaterialRepository, publisher *capturingPublisher) *MaterialApplicationService {
	return NewMaterialApplicationService(repo, publisher, testLogger(), testBusinessMetrics())
}

func createMaterial(t *testing.T, svc *MaterialApplicationService, quantity, minThreshold float64) *MaterialDTO {
	t.Helper()
	dto, err := svc.CreateMaterial(context.Background(), CreateMaterialCommand{
		Name:         "270gsm Matte Paper",
		Quantity:     quantity,
		Unit:         "sheets",
		MinThreshold: minThreshold,
		Actor:        "usr-inventory",
	})
	require.NoError(t, err)
	return dto
}

func TestCreateMaterial(t *testing.T) {
	repo := newFakeMaterialRepository()
	svc := newMaterialService(repo, &capturingPublisher{})

	dto := createMaterial(t, svc, 500, 100)

	assert.Equal(t, "270gsm Matte Paper", dto.Name)
	assert.Equal(t, 500.0, dto.Quantity)
	assert.False(t, dto.LowStock)

	saved, err := repo.FindByID(context.Background(), dto.MaterialID)
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestCreateMaterialValidation(t *testing.T) {
	svc := newMaterialService(newFakeMaterialRepository(), &capturingPublisher{})

	_, err := svc.CreateMaterial(context.Background(), CreateMaterialCommand{Quantity: 10})

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
}

func TestAdjustStockRestock(t *testing.T) {
	repo := newFakeMaterialRepository()
	publisher := &capturingPublisher{}
	svc := newMaterialService(repo, publisher)
	dto := createMaterial(t, svc, 8, 10)

	adjusted, err := svc.AdjustStock(context.Background(), AdjustStockCommand{
		MaterialID: dto.MaterialID,
		Delta:      5,
		Actor:      "usr-ops",
	})
	require.NoError(t, err)

	assert.Equal(t, 13.0, adjusted.Quantity)
	assert.False(t, adjusted.LowStock)

	events := publisher.events()
	require.Len(t, events, 1)
	assert.Equal(t, TopicMaterialEvents, events[0].topic)
	assert.Equal(t, "tracking.material.stock-adjusted", events[0].event.EventType())
}

func TestAdjustStockInsufficient(t *testing.T) {
	repo := newFakeMaterialRepository()
	svc := newMaterialService(repo, &capturingPublisher{})
	dto := createMaterial(t, svc, 8, 10)

	_, err := svc.AdjustStock(context.Background(), AdjustStockCommand{
		MaterialID: dto.MaterialID,
		Delta:      -20,
		Actor:      "usr-ops",
	})

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)

	// rejected adjustment must not be persisted
	saved, findErr := repo.FindByID(context.Background(), dto.MaterialID)
	require.NoError(t, findErr)
	assert.Equal(t, 8.0, saved.Quantity)
}

func TestAdjustStockEmitsLowStockEvent(t *testing.T) {
	repo := newFakeMaterialRepository()
	publisher := &capturingPublisher{}
	svc := newMaterialService(repo, publisher)
	dto := createMaterial(t, svc, 20, 10)

	_, err := svc.AdjustStock(context.Background(), AdjustStockCommand{
		MaterialID: dto.MaterialID,
		Delta:      -15,
		Actor:      "usr-ops",
	})
	require.NoError(t, err)

	events := publisher.events()
	require.Len(t, events, 2)
	assert.Equal(t, "tracking.material.stock-adjusted", events[0].event.EventType())
	assert.Equal(t, "tracking.material.low-stock", events[1].event.EventType())

	// a second consumption while already low does not re-announce
	publisher.published = nil
	_, err = svc.AdjustStock(context.Background(), AdjustStockCommand{
		MaterialID: dto.MaterialID,
		Delta:      -1,
		Actor:      "usr-ops",
	})
	require.NoError(t, err)

	events = publisher.events()
	require.Len(t, events, 1)
	assert.Equal(t, "tracking.material.stock-adjusted", events[0].event.EventType())
}

func TestAdjustStockNotFound(t *testing.T) {
	svc := newMaterialService(newFakeMaterialRepository(), &capturingPublisher{})

	_, err := svc.AdjustStock(context.Background(), AdjustStockCommand{MaterialID: "MAT-missing", Delta: 5})

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}

func TestListMaterials(t *testing.T) {
	repo := newFakeMaterialRepository()
	svc := newMaterialService(repo, &capturingPublisher{})
	createMaterial(t, svc, 8, 10)

	materials, err := svc.ListMaterials(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.True(t, materials[0].LowStock)
}

func TestListMaterialsFilter(t *testing.T) {
	repo := newFakeMaterialRepository()
	svc := newMaterialService(repo, &capturingPublisher{})
	createMaterial(t, svc, 8, 10)
	createMaterial(t, svc, 50, 10)

	low, err := svc.ListMaterials(context.Background(), MaterialFilterLowStock)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.True(t, low[0].LowStock)

	inStock, err := svc.ListMaterials(context.Background(), MaterialFilterInStock)
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	assert.False(t, inStock[0].LowStock)

	_, err = svc.ListMaterials(context.Background(), "backordered")
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
}
