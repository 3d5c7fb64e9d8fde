package usecase

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock

	// Writer is handed to InTx callbacks so import tests can script the
	// transactional duplicate checks and inserts.
	Writer *MockLeadWriter
}

func (m *MockLeadRepository) List(ctx context.Context, f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error) {
	args := m.Called(ctx, f, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadPage), args.Error(1)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) (int64, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id int64, upd entity.LeadUpdate) (*entity.Lead, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) Recent(ctx context.Context, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) InTx(ctx context.Context, fn func(entity.LeadWriter) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m.Writer)
}

// MockLeadWriter
type MockLeadWriter struct {
	mock.Mock
}

func (m *MockLeadWriter) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadWriter) Create(ctx context.Context, lead *entity.Lead) (int64, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(int64), args.Error(1)
}

// MockStatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Overview(ctx context.Context, timezone string) (*entity.Overview, error) {
	args := m.Called(ctx, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Overview), args.Error(1)
}

func (m *MockStatsRepository) StatusCounts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStatsRepository) SourcePerformance(ctx context.Context) ([]*entity.SourcePerformance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SourcePerformance), args.Error(1)
}

func (m *MockStatsRepository) DailyTrend(ctx context.Context, days int) ([]*entity.TrendPoint, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TrendPoint), args.Error(1)
}

// MockSourceRepository
type MockSourceRepository struct {
	mock.Mock
}

func (m *MockSourceRepository) List(ctx context.Context, activeOnly bool) ([]*entity.LeadSource, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadSource), args.Error(1)
}

func (m *MockSourceRepository) GetByID(ctx context.Context, id int64) (*entity.LeadSource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadSource), args.Error(1)
}

func (m *MockSourceRepository) Create(ctx context.Context, s *entity.LeadSource) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSourceRepository) Update(ctx context.Context, id int64, upd entity.LeadSourceUpdate) (*entity.LeadSource, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadSource), args.Error(1)
}

func (m *MockSourceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, actorID *int64, action, details string) {
	m.Called(ctx, actorID, action, details)
}

// MockLeadNotifier
type MockLeadNotifier struct {
	mock.Mock
}

func (m *MockLeadNotifier) NotifyNewLead(lead *entity.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

// memCache is an in-memory StatsCache for the cache-path tests. It stores
// JSON the same way the Redis implementation does.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}
