package domain

import "time"

// Material is a stocked production input. Like Order, material values are
// immutable; AdjustStock returns a new value or an error, never a partial
// mutation.
type Material struct {
	ID           string    `bson:"materialId" json:"materialId"`
	Name         string    `bson:"name" json:"name"`
	Quantity     float64   `bson:"quantity" json:"quantity"`
	Unit         string    `bson:"unit" json:"unit"`
	MinThreshold float64   `bson:"minThreshold" json:"minThreshold"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy    string    `bson:"updatedBy" json:"updatedBy"`
}

// NewMaterial creates a material with an initial stock level
func NewMaterial(materialID, name string, quantity float64, unit string, minThreshold float64, actor string, now time.Time) (Material, error) {
	if name == "" {
		return Material{}, ErrMaterialNameRequired
	}
	if quantity < 0 || minThreshold < 0 {
		return Material{}, ErrNegativeQuantity
	}

	return Material{
		ID:           materialID,
		Name:         name,
		Quantity:     quantity,
		Unit:         unit,
		MinThreshold: minThreshold,
		CreatedAt:    now,
		UpdatedAt:    now,
		UpdatedBy:    actor,
	}, nil
}

// AdjustStock applies a signed stock delta: positive for restock, negative
// for consumption. The adjustment is atomic; a delta that would drive the
// quantity negative is rejected and the receiver is left unchanged.
func (m Material) AdjustStock(delta float64, actor string, now time.Time) (Material, error) {
	if m.Quantity+delta < 0 {
		return Material{}, ErrInsufficientStock
	}

	adjusted := m
	adjusted.Quantity += delta
	adjusted.UpdatedAt = now
	adjusted.UpdatedBy = actor

	return adjusted, nil
}

// IsLowStock reports whether the quantity has fallen below the configured
// minimum threshold. A quantity exactly at the threshold is not low.
func (m Material) IsLowStock() bool {
	return m.Quantity < m.MinThreshold
}
