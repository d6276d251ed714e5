package fetchers

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ECBURL              = "https://data-api.ecb.europa.eu/service"
	ECBFlowRef          = "EXR"
	ReferenceCurrency   = "EUR"
	DailyFrequency      = "D"
	sdmxJSONMediaType   = "application/vnd.sdmx.data+json;version=1.0.0-wd"
	sdmxJSONFormat      = "jsondata"
	currencyDimension   = "CURRENCY"
	timePeriodDimension = "TIME_PERIOD"
)

var (
	ErrRemoteService   = errors.New("remote statistical data service failed")
	ErrEmptyResult     = errors.New("no observations returned for the requested window")
	ErrAmbiguousSeries = errors.New("more than one series returned for a currency")
	ErrClient          = errors.New("client error")
	ErrServer          = errors.New("server error")
	ErrUnknown         = errors.New("unknown error")
)

func handleHTTPStatusCodeError(res *http.Response) error {
	switch {
	case res.StatusCode == http.StatusOK:
		return nil
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: service answered %d", ErrEmptyResult, res.StatusCode)
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		return fmt.Errorf("%w: %w: status %d", ErrRemoteService, ErrClient, res.StatusCode)
	case res.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w: status %d", ErrRemoteService, ErrServer, res.StatusCode)
	}

	return fmt.Errorf("%w: %w: status %d", ErrRemoteService, ErrUnknown, res.StatusCode)
}

// uniqueCurrencies keeps the first occurrence of every code.
func uniqueCurrencies(currencies []string) []string {
	seen := make(map[string]struct{}, len(currencies))
	unique := make([]string, 0, len(currencies))

	for _, c := range currencies {
		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}
		unique = append(unique, c)
	}

	return unique
}
