package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterial(t *testing.T, quantity, minThreshold float64) Material {
	t.Helper()
	material, err := NewMaterial("MAT-001", "270gsm Matte Paper", quantity, "sheets", minThreshold, "usr-inventory", testClock)
	require.NoError(t, err)
	return material
}

func TestNewMaterial(t *testing.T) {
	material := newTestMaterial(t, 500, 100)

	assert.Equal(t, "MAT-001", material.ID)
	assert.Equal(t, "270gsm Matte Paper", material.Name)
	assert.Equal(t, 500.0, material.Quantity)
	assert.Equal(t, "sheets", material.Unit)
	assert.Equal(t, 100.0, material.MinThreshold)
	assert.Equal(t, "usr-inventory", material.UpdatedBy)
	assert.Equal(t, testClock, material.CreatedAt)
	assert.Equal(t, testClock, material.UpdatedAt)
}

func TestNewMaterialValidation(t *testing.T) {
	_, err := NewMaterial("MAT-002", "", 10, "kg", 5, "usr-inventory", testClock)
	assert.ErrorIs(t, err, ErrMaterialNameRequired)

	_, err = NewMaterial("MAT-002", "CMYK Ink", -1, "litres", 5, "usr-inventory", testClock)
	assert.ErrorIs(t, err, ErrNegativeQuantity)

	_, err = NewMaterial("MAT-002", "CMYK Ink", 10, "litres", -5, "usr-inventory", testClock)
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

func TestAdjustStock(t *testing.T) {
	material := newTestMaterial(t, 8, 10)
	later := testClock.Add(time.Hour)

	restocked, err := material.AdjustStock(5, "usr-ops", later)
	require.NoError(t, err)
	assert.Equal(t, 13.0, restocked.Quantity)
	assert.Equal(t, "usr-ops", restocked.UpdatedBy)
	assert.Equal(t, later, restocked.UpdatedAt)

	// receiver is untouched
	assert.Equal(t, 8.0, material.Quantity)
	assert.Equal(t, "usr-inventory", material.UpdatedBy)
}

func TestAdjustStockInsufficient(t *testing.T) {
	material := newTestMaterial(t, 8, 10)

	_, err := material.AdjustStock(-20, "usr-ops", testClock)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 8.0, material.Quantity)
}

func TestAdjustStockToZero(t *testing.T) {
	material := newTestMaterial(t, 8, 10)

	drained, err := material.AdjustStock(-8, "usr-ops", testClock)
	require.NoError(t, err)
	assert.Equal(t, 0.0, drained.Quantity)
}

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name         string
		quantity     float64
		minThreshold float64
		low          bool
	}{
		{"below threshold", 8, 10, true},
		{"at threshold", 10, 10, false},
		{"above threshold", 12, 10, false},
		{"zero threshold", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			material := newTestMaterial(t, tt.quantity, tt.minThreshold)
			assert.Equal(t, tt.low, material.IsLowStock())
		})
	}
}
