package recommendation

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/RezenkovD/TravelAiApi/internal/types"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, req *types.TravelRequest) (*types.TravelRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelRequest), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*types.TravelRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelRequest), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]types.TravelRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TravelRequest), args.Error(1)
}

// MockPlaceModelClient is a mock implementation of generativeAI.PlaceModelClient
type MockPlaceModelClient struct {
	mock.Mock
}

func (m *MockPlaceModelClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockPlaceModelClient) Name() string { return "OpenAI" }

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, text string, numPlaces int, exclude *string) (*types.TravelRequest, error) {
	args := m.Called(ctx, text, numPlaces, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelRequest), args.Error(1)
}

func (m *MockService) Refine(ctx context.Context, id int64, excludeAddendum string) (*types.TravelRequest, error) {
	args := m.Called(ctx, id, excludeAddendum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelRequest), args.Error(1)
}

func (m *MockService) ListHistory(ctx context.Context) ([]types.TravelRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TravelRequest), args.Error(1)
}

// memoryRepository is an insert-only Repository used where a test needs the
// stored rows to be observable across several service calls.
type memoryRepository struct {
	mu   sync.Mutex
	rows []types.TravelRequest
}

func (r *memoryRepository) Save(_ context.Context, req *types.TravelRequest) (*types.TravelRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *req
	stored.ID = int64(len(r.rows) + 1)
	if req.Exclude != nil {
		v := *req.Exclude
		stored.Exclude = &v
	}
	r.rows = append(r.rows, stored)
	out := stored
	return &out, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*types.TravelRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, types.ErrNotFound
}

func (r *memoryRepository) ListAll(context.Context) ([]types.TravelRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.TravelRequest(nil), r.rows...), nil
}

func strPtr(s string) *string { return &s }
