package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

// MockRecordSource is a mock implementation of ports.RecordSource
type MockRecordSource struct {
	mock.Mock
}

func NewMockRecordSource() *MockRecordSource {
	return &MockRecordSource{}
}

func (m *MockRecordSource) Fetch(ctx context.Context, variant string) ([]domain.RawRecord, error) {
	args := m.Called(ctx, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawRecord), args.Error(1)
}

func (m *MockRecordSource) Name() string {
	return "mock"
}

// MockAggregateCache is a mock implementation of ports.AggregateCache
type MockAggregateCache struct {
	mock.Mock
}

func NewMockAggregateCache() *MockAggregateCache {
	return &MockAggregateCache{}
}

func (m *MockAggregateCache) Get(ctx context.Context, key string) (*domain.Summary, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Summary), args.Bool(1), args.Error(2)
}

func (m *MockAggregateCache) Set(ctx context.Context, key string, summary *domain.Summary, ttl time.Duration) error {
	args := m.Called(ctx, key, summary, ttl)
	return args.Error(0)
}

// MockLanguageModel is a mock implementation of ports.LanguageModel
type MockLanguageModel struct {
	mock.Mock
}

func NewMockLanguageModel() *MockLanguageModel {
	return &MockLanguageModel{}
}

func (m *MockLanguageModel) Complete(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

var _ ports.DashboardService = (*MockDashboardService)(nil)

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) Variants() []domain.Variant {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Variant)
}

func (m *MockDashboardService) Variant(name string) (domain.Variant, error) {
	args := m.Called(name)
	return args.Get(0).(domain.Variant), args.Error(1)
}

func (m *MockDashboardService) Reload(ctx context.Context, variant string) (*domain.Snapshot, error) {
	args := m.Called(ctx, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockDashboardService) ReloadAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDashboardService) Snapshot(variant string) (*domain.Snapshot, error) {
	args := m.Called(variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockDashboardService) Summary(ctx context.Context, params ports.SummaryParams) (*domain.Summary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}

func (m *MockDashboardService) Records(ctx context.Context, params ports.ListRecordsParams) (*domain.RecordPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordPage), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, params ports.QueryParams) (*domain.ExportTable, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportTable), args.Error(1)
}

func (m *MockDashboardService) FilterOptions(ctx context.Context, variant string) (*domain.FilterOptions, error) {
	args := m.Called(ctx, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterOptions), args.Error(1)
}

// MockAssistantService is a mock implementation of ports.AssistantService
type MockAssistantService struct {
	mock.Mock
}

func NewMockAssistantService() *MockAssistantService {
	return &MockAssistantService{}
}

func (m *MockAssistantService) Ask(ctx context.Context, params ports.AskParams) (*domain.Answer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Answer), args.Error(1)
}
