package fetchers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecbrates "github.com/malusev998/ecb-rates"
	"github.com/malusev998/ecb-rates/fetchers"
)

const sdmxPayload = `{
  "header": {"id": "test", "test": false},
  "dataSets": [{
    "action": "Replace",
    "series": {
      "0:0:0:0:0": {"attributes": [0, null], "observations": {"0": [1.0683, 0, 0, null, null], "1": [1.0545, 0, 0, null, null], "2": [1.0599, 0, 0, null, null]}},
      "0:1:0:0:0": {"attributes": [0, null], "observations": {"0": [0.88245, 0, 0, null, null], "1": [0.8843, 0, 0, null, null], "2": [null, 0, 0, null, null]}}
    }
  }],
  "structure": {
    "dimensions": {
      "series": [
        {"id": "FREQ", "values": [{"id": "D", "name": "Daily"}]},
        {"id": "CURRENCY", "values": [{"id": "USD", "name": "US dollar"}, {"id": "GBP", "name": "UK pound sterling"}]},
        {"id": "CURRENCY_DENOM", "values": [{"id": "EUR", "name": "Euro"}]},
        {"id": "EXR_TYPE", "values": [{"id": "SP00", "name": "Foreign exchange reference rate"}]},
        {"id": "EXR_SUFFIX", "values": [{"id": "A", "name": "Average"}]}
      ],
      "observation": [
        {"id": "TIME_PERIOD", "values": [{"id": "2023-01-02"}, {"id": "2023-01-03"}, {"id": "2023-01-04"}]}
      ]
    }
  }
}`

const ambiguousPayload = `{
  "dataSets": [{"series": {
    "0:0:0:0:0": {"observations": {"0": [1.0683]}},
    "0:0:0:1:0": {"observations": {"0": [1.0701]}}
  }}],
  "structure": {"dimensions": {
    "series": [
      {"id": "FREQ", "values": [{"id": "D"}]},
      {"id": "CURRENCY", "values": [{"id": "USD"}]},
      {"id": "CURRENCY_DENOM", "values": [{"id": "EUR"}]},
      {"id": "EXR_TYPE", "values": [{"id": "SP00"}, {"id": "EN00"}]},
      {"id": "EXR_SUFFIX", "values": [{"id": "A"}]}
    ],
    "observation": [{"id": "TIME_PERIOD", "values": [{"id": "2023-01-02"}]}]
  }}
}`

type (
	httpHandler struct {
		t *testing.T
	}
	statusHandler struct {
		status int
		body   string
	}
)

func (h httpHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	asserts := assert.New(h.t)

	asserts.Equal("/data/EXR/D.GBP+USD.EUR..", request.URL.Path)
	asserts.Equal("2023-01-02", request.URL.Query().Get("startPeriod"))
	asserts.Equal("2023-01-04", request.URL.Query().Get("endPeriod"))
	asserts.Equal("jsondata", request.URL.Query().Get("format"))
	asserts.Contains(request.Header.Get("Accept"), "sdmx.data+json")

	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(sdmxPayload))
}

func (h statusHandler) ServeHTTP(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(h.status)
	_, _ = writer.Write([]byte(h.body))
}

func day(d int) time.Time {
	return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestECBFetcher_Fetch(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(httpHandler{t: t})
	defer server.Close()

	asserts := require.New(t)
	fetcher := fetchers.ECBFetcher{URL: server.URL}

	table, err := fetcher.Fetch(context.Background(), []string{"EUR", "GBP", "USD", "GBP"}, day(2), day(4))

	asserts.NoError(err)
	asserts.Equal([]time.Time{day(2), day(3), day(4)}, table.Dates)
	asserts.Equal([]string{"EUR", "GBP", "USD"}, table.ColumnNames())

	eur, _ := table.Column("EUR")
	for _, v := range eur.Values {
		asserts.True(v.Valid)
		asserts.True(v.Decimal.Equal(decimal.NewFromInt(1)))
	}

	usd, _ := table.Column("USD")
	asserts.Equal("1.0683", usd.Values[0].Decimal.String())
	asserts.Equal("1.0599", usd.Values[2].Decimal.String())

	gbp, _ := table.Column("GBP")
	asserts.Equal("0.88245", gbp.Values[0].Decimal.String())
	asserts.False(gbp.Values[2].Valid)
}

func TestECBFetcher_Errors(t *testing.T) {
	t.Parallel()

	values := []struct {
		name       string
		handler    http.Handler
		currencies []string
		expected   []error
	}{
		{"NotFound", statusHandler{http.StatusNotFound, "No results found."}, []string{"USD"}, []error{fetchers.ErrEmptyResult}},
		{"ServerError", statusHandler{http.StatusInternalServerError, ""}, []string{"USD"}, []error{fetchers.ErrRemoteService, fetchers.ErrServer}},
		{"BadRequest", statusHandler{http.StatusBadRequest, ""}, []string{"USD"}, []error{fetchers.ErrRemoteService, fetchers.ErrClient}},
		{"Redirect", statusHandler{http.StatusNotModified, ""}, []string{"USD"}, []error{fetchers.ErrRemoteService, fetchers.ErrUnknown}},
		{"InvalidJSON", statusHandler{http.StatusOK, "<xml/>"}, []string{"USD"}, []error{fetchers.ErrRemoteService}},
		{"NoDataSets", statusHandler{http.StatusOK, `{"dataSets": []}`}, []string{"USD"}, []error{fetchers.ErrEmptyResult}},
		{"MissingCurrency", statusHandler{http.StatusOK, sdmxPayload}, []string{"USD", "JPY"}, []error{fetchers.ErrEmptyResult}},
		{"Ambiguous", statusHandler{http.StatusOK, ambiguousPayload}, []string{"USD"}, []error{fetchers.ErrAmbiguousSeries}},
	}

	for _, value := range values {
		value := value
		t.Run(value.name, func(t *testing.T) {
			t.Parallel()
			asserts := require.New(t)
			server := httptest.NewServer(value.handler)
			defer server.Close()

			fetcher := fetchers.ECBFetcher{URL: server.URL, Client: server.Client()}
			table, err := fetcher.Fetch(context.Background(), value.currencies, day(2), day(4))

			asserts.Nil(table)

			for _, expected := range value.expected {
				asserts.Truef(errors.Is(err, expected), "expected %v, got %v", expected, err)
			}
		})
	}
}

func TestECBFetcher_OnlyReferenceCurrency(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	fetcher := fetchers.ECBFetcher{URL: "http://127.0.0.1:0"}
	table, err := fetcher.Fetch(context.Background(), []string{"EUR"}, day(2), day(2))

	asserts.Nil(table)
	asserts.True(errors.Is(err, fetchers.ErrEmptyResult))
}

func TestECBFetcher_Unreachable(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	server := httptest.NewServer(statusHandler{http.StatusOK, sdmxPayload})
	url := server.URL
	server.Close()

	fetcher := fetchers.ECBFetcher{URL: url, Client: &http.Client{Timeout: time.Second}}
	_, err := fetcher.Fetch(context.Background(), []string{"USD"}, day(2), day(2))

	asserts.True(errors.Is(err, fetchers.ErrRemoteService))
}

func TestECBFetcher_Key(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	asserts.Equal("D.USD+GBP.EUR..", fetchers.ECBFetcher{}.Key([]string{"USD", "GBP"}))
	asserts.Equal("D.USD.EUR.SP00.A", fetchers.ECBFetcher{ExrType: "SP00", ExrSuffix: "A"}.Key([]string{"USD"}))
	asserts.Equal("D.EUR.USD..", fetchers.ECBFetcher{ReferenceCurrency: "USD"}.Key([]string{"EUR"}))
}

func TestNewRateFetcher(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	fetcher, err := fetchers.NewRateFetcher(ecbrates.ECBProvider, fetchers.ECBConfig{
		BaseConfig: fetchers.BaseConfig{URL: "http://localhost", Timeout: time.Second},
		ExrType:    "SP00",
	})

	asserts.NoError(err)
	asserts.IsType(fetchers.ECBFetcher{}, fetcher)
	asserts.Equal("SP00", fetcher.(fetchers.ECBFetcher).ExrType)

	_, err = fetchers.NewRateFetcher(ecbrates.Provider("Yahoo"), fetchers.ECBConfig{})
	asserts.True(errors.Is(err, fetchers.ErrFetcherNotFound))

	_, err = fetchers.NewRateFetcher(ecbrates.ECBProvider, "not a config")
	asserts.True(errors.Is(err, fetchers.ErrFetcherNotFound))
}
