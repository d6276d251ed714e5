package ecbrates

import (
	"context"
	"time"
)

type (
	Fetcher interface {
		Fetch(ctx context.Context, currencies []string, start, end time.Time) (*RateTable, error)
	}

	Exporter interface {
		Export(table *RateTable) (string, error)
	}

	Calendar interface {
		IsHoliday(date time.Time) bool
	}

	Storage interface {
		Store(ctx context.Context, rates []Rate) ([]RateWithID, error)
		GetStorageProviderName() string
		Migrate() error
		Drop() error
		Close() error
	}
)
