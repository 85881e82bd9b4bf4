package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/logging"
	"github.com/printtrack/tracking-service/pkg/metrics"
	"github.com/printtrack/tracking-service/pkg/middleware"
)

func testLogger() *logging.Logger {
	return logging.New(&logging.Config{
		Level:       logging.LevelError,
		ServiceName: "tracking-service-test",
		Output:      io.Discard,
	})
}

func testBusinessMetrics() *middleware.BusinessMetrics {
	return middleware.NewBusinessMetrics(metrics.New(metrics.DefaultConfig("tracking-service-test")))
}

type fakeOrderRepository struct {
	mu      sync.Mutex
	orders  map[string]domain.Order
	saveErr error
	findErr error
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[string]domain.Order)}
}

func (r *fakeOrderRepository) Save(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepository) FindByID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	order, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (r *fakeOrderRepository) FindAll(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.sortedByLastUpdated(), nil
}

func (r *fakeOrderRepository) FindPage(_ context.Context, pagination domain.Pagination) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := r.sortedByLastUpdated()
	start := pagination.Skip()
	if start >= int64(len(sorted)) {
		return nil, nil
	}
	end := start + pagination.Limit()
	if end > int64(len(sorted)) {
		end = int64(len(sorted))
	}
	return sorted[start:end], nil
}

func (r *fakeOrderRepository) FindByStage(_ context.Context, stage domain.Stage, _ domain.Pagination) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Order
	for _, order := range r.sortedByLastUpdated() {
		if order.CurrentStage == stage {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *fakeOrderRepository) FindRecent(_ context.Context, n int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := r.sortedByLastUpdated()
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n], nil
}

func (r *fakeOrderRepository) Count(_ context.Context, filter domain.OrderFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, order := range r.orders {
		if filter.Stage != nil && order.CurrentStage != *filter.Stage {
			continue
		}
		if filter.ActiveOnly && !order.IsActive() {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeOrderRepository) sortedByLastUpdated() []domain.Order {
	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastUpdated.After(result[j].LastUpdated)
	})
	return result
}

type fakeMaterialRepository struct {
	mu        sync.Mutex
	materials map[string]domain.Material
	saveErr   error
}

func newFakeMaterialRepository() *fakeMaterialRepository {
	return &fakeMaterialRepository{materials: make(map[string]domain.Material)}
}

func (r *fakeMaterialRepository) Save(_ context.Context, material domain.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.materials[material.ID] = material
	return nil
}

func (r *fakeMaterialRepository) FindByID(_ context.Context, materialID string) (*domain.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	material, ok := r.materials[materialID]
	if !ok {
		return nil, nil
	}
	return &material, nil
}

func (r *fakeMaterialRepository) FindAll(_ context.Context) ([]domain.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Material, 0, len(r.materials))
	for _, material := range r.materials {
		result = append(result, material)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

type fakeUserRepository struct {
	users []domain.User
}

func (r *fakeUserRepository) FindAll(_ context.Context) ([]domain.User, error) {
	return r.users, nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, userID string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == userID {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

type storedBlob struct {
	name        string
	contentType string
	content     []byte
}

type fakeFileStore struct {
	mu       sync.Mutex
	blobs    map[string]storedBlob
	storeErr error
	nextID   int
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{blobs: make(map[string]storedBlob)}
}

func (s *fakeFileStore) Store(_ context.Context, content io.Reader, name, contentType string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return "", "", s.storeErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", "", err
	}
	s.nextID++
	fileID := fmt.Sprintf("file-%d", s.nextID)
	s.blobs[fileID] = storedBlob{name: name, contentType: contentType, content: data}
	return fileID, "/api/v1/files/" + fileID, nil
}

func (s *fakeFileStore) Fetch(_ context.Context, fileID string) (*domain.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.blobs[fileID]
	if !ok {
		return nil, nil
	}
	return &domain.StoredFile{
		Name:        blob.name,
		ContentType: blob.contentType,
		Content:     io.NopCloser(bytes.NewReader(blob.content)),
	}, nil
}

type publishedEvent struct {
	topic string
	event domain.DomainEvent
}

type capturingPublisher struct {
	mu         sync.Mutex
	published  []publishedEvent
	publishErr error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event domain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.published = append(p.published, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *capturingPublisher) events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.published...)
}
