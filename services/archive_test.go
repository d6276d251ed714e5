package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ecbrates "github.com/malusev998/ecb-rates"
)

func fakeRates(n int) []ecbrates.Rate {
	rates := make([]ecbrates.Rate, 0, n)

	for i := 0; i < n; i++ {
		rates = append(rates, ecbrates.Rate{
			From:      faker.Currency(),
			To:        faker.Currency(),
			Provider:  ecbrates.ECBProvider,
			Value:     decimal.NewFromFloat(float64(i+1) / 3),
			Date:      time.Date(2023, 1, 2+i, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Now(),
		})
	}

	return rates
}

func TestArchiveService_Save(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()
	rates := fakeRates(3)

	withIDs := make([]ecbrates.RateWithID, 0, len(rates))
	for i, r := range rates {
		withIDs = append(withIDs, ecbrates.RateWithID{Rate: r, ID: uint64(i)})
	}

	t.Run("SaveCorrectly", func(t *testing.T) {
		first := &MockStorage{name: "first"}
		second := &MockStorage{name: "second"}
		service := ArchiveService{Storage: []ecbrates.Storage{first, second}}

		first.On("Store", ctx, rates).Return(withIDs, nil)
		second.On("Store", ctx, rates).Return(withIDs, nil)

		saved, err := service.Save(ctx, rates)

		asserts.NoError(err)
		asserts.Contains(saved, "first")
		asserts.Contains(saved, "second")

		for _, r := range saved["first"] {
			_, ok := r.ID.(uint64)
			asserts.True(ok)
		}

		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})

	t.Run("StorageReturnsError", func(t *testing.T) {
		first := &MockStorage{name: "first"}
		second := &MockStorage{name: "second"}
		service := ArchiveService{Storage: []ecbrates.Storage{first, second}}

		first.On("Store", ctx, rates).Return(nil, errors.New("error while inserting into storage"))
		second.On("Store", ctx, rates).Return(nil, errors.New("error while inserting into storage"))

		saved, err := service.Save(ctx, rates)

		asserts.Nil(saved)
		asserts.EqualError(err, "error while inserting into storage")
	})

	t.Run("NoStorage", func(t *testing.T) {
		saved, err := ArchiveService{}.Save(ctx, rates)

		asserts.NoError(err)
		asserts.Empty(saved)
	})
}

func TestRatesFromTable(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	now := time.Now()

	table := newTable(t, map[string][]decimal.NullDecimal{
		"GBP": values("0.88245", ""),
		"USD": values("1.0683", "1.0545"),
	}, "GBP", "USD")
	pairs := []ecbrates.Pair{{From: "GBP", To: "USD"}}

	asserts.NoError(ComputeRatios(table, pairs))

	rates := RatesFromTable(table, pairs, ecbrates.ECBProvider, now)

	asserts.Len(rates, 1)
	asserts.Equal("GBP", rates[0].From)
	asserts.Equal("USD", rates[0].To)
	asserts.Equal(ecbrates.ECBProvider, rates[0].Provider)
	asserts.Equal(table.Dates[0], rates[0].Date)
	asserts.Equal(now, rates[0].CreatedAt)

	asserts.Empty(RatesFromTable(table, []ecbrates.Pair{{From: "USD", To: "GBP"}}, ecbrates.ECBProvider, now))
}
