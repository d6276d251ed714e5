package services

import (
	"context"
	"sync"
	"time"

	ecbrates "github.com/malusev998/ecb-rates"
)

// ArchiveService writes computed ratios to every configured storage.
type ArchiveService struct {
	Storage []ecbrates.Storage
}

func saveToStorage(
	ctx context.Context,
	wg *sync.WaitGroup,
	rates []ecbrates.Rate,
	data map[string][]ecbrates.RateWithID,
	storage ecbrates.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()
	r, err := storage.Store(ctx, rates)

	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	data[storage.GetStorageProviderName()] = r
	mutex.Unlock()
}

func (a ArchiveService) Save(ctx context.Context, rates []ecbrates.Rate) (map[string][]ecbrates.RateWithID, error) {
	var wg sync.WaitGroup
	mutex := &sync.Mutex{}

	errorChannel := make(chan error, len(a.Storage))
	data := make(map[string][]ecbrates.RateWithID, len(a.Storage))

	wg.Add(len(a.Storage))
	for _, storage := range a.Storage {
		go saveToStorage(ctx, &wg, rates, data, storage, errorChannel, mutex)
	}

	wg.Wait()
	close(errorChannel)

	if err, more := <-errorChannel; more {
		return nil, err
	}

	return data, nil
}

// RatesFromTable flattens the ratio columns of table into archive records.
// Days without a value are skipped.
func RatesFromTable(table *ecbrates.RateTable, pairs []ecbrates.Pair, provider ecbrates.Provider, now time.Time) []ecbrates.Rate {
	rates := make([]ecbrates.Rate, 0, len(pairs)*table.Len())

	for _, pair := range pairs {
		column, ok := table.Column(pair.ColumnName())
		if !ok {
			continue
		}

		for i, value := range column.Values {
			if !value.Valid {
				continue
			}

			rates = append(rates, ecbrates.Rate{
				From:      pair.From,
				To:        pair.To,
				Provider:  provider,
				Value:     value.Decimal,
				Date:      table.Dates[i],
				CreatedAt: now,
			})
		}
	}

	return rates
}
