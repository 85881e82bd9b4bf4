package domain

import "sort"

// Dashboard aggregates. All of these are pure queries over in-memory
// snapshots, recomputed on demand; none of them mutates its input.

// ActiveOrders returns the orders that have not been dispatched yet
func ActiveOrders(orders []Order) []Order {
	return filterOrders(orders, func(o Order) bool {
		return o.CurrentStage != StageDispatched
	})
}

// PendingPOOrders returns the orders still awaiting a purchase order upload
func PendingPOOrders(orders []Order) []Order {
	return filterOrders(orders, func(o Order) bool {
		return o.CurrentStage == StageOrderReceived
	})
}

// OrdersInQC returns the orders currently in the quality check stage
func OrdersInQC(orders []Order) []Order {
	return filterOrders(orders, func(o Order) bool {
		return o.CurrentStage == StageQualityCheck
	})
}

// LowStockMaterials returns the materials whose quantity has fallen below
// their minimum threshold
func LowStockMaterials(materials []Material) []Material {
	result := make([]Material, 0, len(materials))
	for _, m := range materials {
		if m.IsLowStock() {
			result = append(result, m)
		}
	}
	return result
}

// RecentOrders returns the n most recently updated orders, newest first.
// Orders with equal timestamps keep their input order.
func RecentOrders(orders []Order, n int) []Order {
	if n < 0 {
		n = 0
	}

	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUpdated.After(sorted[j].LastUpdated)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func filterOrders(orders []Order, keep func(Order) bool) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			result = append(result, o)
		}
	}
	return result
}
