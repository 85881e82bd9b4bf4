package application

import (
	"time"

	"github.com/printtrack/tracking-service/internal/domain"
)

// FileRefDTO is the API representation of an attached file
type FileRefDTO struct {
	FileID      string    `json:"fileId"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt"`
	UploadedBy  string    `json:"uploadedBy"`
}

// StageRecordDTO is the API representation of one stage's work record
type StageRecordDTO struct {
	Stage             string       `json:"stage"`
	Label             string       `json:"label"`
	Position          int          `json:"position"`
	Status            string       `json:"status"`
	Notes             string       `json:"notes"`
	Files             []FileRefDTO `json:"files"`
	CompletedAt       *time.Time   `json:"completedAt,omitempty"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	Enterable         bool         `json:"enterable"`
	PORequiredWarning bool         `json:"poRequiredWarning"`
}

// OrderDTO is the API representation of a production order
type OrderDTO struct {
	OrderID      string                    `json:"orderId"`
	ClientName   string                    `json:"clientName"`
	CurrentStage string                    `json:"currentStage"`
	StageLabel   string                    `json:"stageLabel"`
	Stages       map[string]StageRecordDTO `json:"stages"`
	Created      time.Time                 `json:"created"`
	LastUpdated  time.Time                 `json:"lastUpdated"`
	CreatedBy    string                    `json:"createdBy"`
}

// OrderSummaryDTO is a compact order view for listings and the dashboard
type OrderSummaryDTO struct {
	OrderID      string    `json:"orderId"`
	ClientName   string    `json:"clientName"`
	CurrentStage string    `json:"currentStage"`
	StageLabel   string    `json:"stageLabel"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// MaterialDTO is the API representation of a stocked material
type MaterialDTO struct {
	MaterialID   string    `json:"materialId"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	MinThreshold float64   `json:"minThreshold"`
	LowStock     bool      `json:"lowStock"`
	UpdatedAt    time.Time `json:"updatedAt"`
	UpdatedBy    string    `json:"updatedBy"`
}

// UserDTO is the API representation of a team member
type UserDTO struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// DashboardSummaryDTO aggregates the dashboard counters and panels
type DashboardSummaryDTO struct {
	ActiveOrders      int               `json:"activeOrders"`
	PendingPOOrders   int               `json:"pendingPoOrders"`
	OrdersInQC        int               `json:"ordersInQc"`
	LowStockMaterials []MaterialDTO     `json:"lowStockMaterials"`
	RecentOrders      []OrderSummaryDTO `json:"recentOrders"`
}

// ToOrderDTO maps a domain order to its API representation
func ToOrderDTO(order domain.Order) *OrderDTO {
	stages := make(map[string]StageRecordDTO, domain.StageCount)
	for i, stage := range domain.StageSequence {
		record := order.Stages[i]
		stages[string(stage)] = StageRecordDTO{
			Stage:             string(stage),
			Label:             stage.Label(),
			Position:          stage.Position(),
			Status:            string(record.Status),
			Notes:             record.Notes,
			Files:             toFileRefDTOs(record.Files),
			CompletedAt:       record.CompletedAt,
			UpdatedAt:         record.UpdatedAt,
			Enterable:         order.CanEnter(stage),
			PORequiredWarning: order.PORequiredWarning(stage),
		}
	}

	return &OrderDTO{
		OrderID:      order.ID,
		ClientName:   order.ClientName,
		CurrentStage: string(order.CurrentStage),
		StageLabel:   order.CurrentStage.Label(),
		Stages:       stages,
		Created:      order.Created,
		LastUpdated:  order.LastUpdated,
		CreatedBy:    order.CreatedBy,
	}
}

// ToOrderSummaryDTO maps a domain order to its compact listing view
func ToOrderSummaryDTO(order domain.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		OrderID:      order.ID,
		ClientName:   order.ClientName,
		CurrentStage: string(order.CurrentStage),
		StageLabel:   order.CurrentStage.Label(),
		LastUpdated:  order.LastUpdated,
	}
}

// ToOrderSummaryDTOs maps a slice of domain orders to listing views
func ToOrderSummaryDTOs(orders []domain.Order) []OrderSummaryDTO {
	result := make([]OrderSummaryDTO, 0, len(orders))
	for _, order := range orders {
		result = append(result, ToOrderSummaryDTO(order))
	}
	return result
}

// ToMaterialDTO maps a domain material to its API representation
func ToMaterialDTO(material domain.Material) *MaterialDTO {
	return &MaterialDTO{
		MaterialID:   material.ID,
		Name:         material.Name,
		Quantity:     material.Quantity,
		Unit:         material.Unit,
		MinThreshold: material.MinThreshold,
		LowStock:     material.IsLowStock(),
		UpdatedAt:    material.UpdatedAt,
		UpdatedBy:    material.UpdatedBy,
	}
}

// ToMaterialDTOs maps a slice of domain materials
func ToMaterialDTOs(materials []domain.Material) []MaterialDTO {
	result := make([]MaterialDTO, 0, len(materials))
	for _, material := range materials {
		result = append(result, *ToMaterialDTO(material))
	}
	return result
}

// ToUserDTO maps a team member to its API representation
func ToUserDTO(user domain.User) UserDTO {
	return UserDTO{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
	}
}

// ToUserDTOs maps a slice of team members
func ToUserDTOs(users []domain.User) []UserDTO {
	result := make([]UserDTO, 0, len(users))
	for _, user := range users {
		result = append(result, ToUserDTO(user))
	}
	return result
}

func toFileRefDTOs(files []domain.FileRef) []FileRefDTO {
	result := make([]FileRefDTO, 0, len(files))
	for _, f := range files {
		result = append(result, FileRefDTO{
			FileID:      f.ID,
			Name:        f.Name,
			URL:         f.URL,
			ContentType: f.ContentType,
			UploadedAt:  f.UploadedAt,
			UploadedBy:  f.UploadedBy,
		})
	}
	return result
}
