package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	ecbrates "github.com/malusev998/ecb-rates"
)

type (
	MockFetcher struct {
		mock.Mock
	}

	MockExporter struct {
		mock.Mock
	}

	MockStorage struct {
		mock.Mock
		name string
	}
)

func (m *MockStorage) Store(ctx context.Context, rates []ecbrates.Rate) ([]ecbrates.RateWithID, error) {
	args := m.Called(ctx, rates)

	return1 := args.Get(0)

	if return1 == nil {
		return nil, args.Error(1)
	}
	return return1.([]ecbrates.RateWithID), args.Error(1)
}

func (m *MockStorage) GetStorageProviderName() string {
	if m.name == "" {
		return "MockStorage"
	}

	return m.name
}

func (m *MockStorage) Migrate() error {
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) Drop() error {
	return nil
}

func (m *MockFetcher) Fetch(ctx context.Context, currencies []string, start, end time.Time) (*ecbrates.RateTable, error) {
	args := m.Called(ctx, currencies, start, end)
	return1 := args.Get(0)

	if return1 == nil {
		return nil, args.Error(1)
	}

	return return1.(*ecbrates.RateTable), args.Error(1)
}

func (m *MockExporter) Export(table *ecbrates.RateTable) (string, error) {
	args := m.Called(table)

	return args.String(0), args.Error(1)
}
