package fetchers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	ecbrates "github.com/malusev998/ecb-rates"
)

var ErrFetcherNotFound = errors.New("fetcher is not found")

type (
	BaseConfig struct {
		URL     string
		Timeout time.Duration
		Logger  *slog.Logger
	}

	ECBConfig struct {
		BaseConfig
		ReferenceCurrency string
		ExrType           string
		ExrSuffix         string
	}
)

func NewRateFetcher(provider ecbrates.Provider, config interface{}) (ecbrates.Fetcher, error) {
	switch provider {
	case ecbrates.ECBProvider:
		c, ok := config.(ECBConfig)

		if !ok {
			return nil, ErrFetcherNotFound
		}

		timeout := c.Timeout

		if timeout <= 0 {
			timeout = 30 * time.Second
		}

		return ECBFetcher{
			URL:               c.URL,
			FlowRef:           ECBFlowRef,
			ReferenceCurrency: c.ReferenceCurrency,
			ExrType:           c.ExrType,
			ExrSuffix:         c.ExrSuffix,
			Client:            &http.Client{Timeout: timeout},
			Logger:            c.Logger,
		}, nil
	}

	return nil, ErrFetcherNotFound
}
