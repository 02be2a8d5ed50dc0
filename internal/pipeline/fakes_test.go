package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/pkg/geocode"
)

// --- Geocoder Mock ---

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*geocode.Result, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Result), args.Error(1)
}

// --- Fetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, c model.Coordinate) ([]model.Feature, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Feature), args.Error(1)
}

// --- Recorder Mock ---

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Append(ctx context.Context, rec model.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockRecorder) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRecorder) Close() error {
	return m.Called().Error(0)
}
