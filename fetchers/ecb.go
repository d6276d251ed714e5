package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	ecbrates "github.com/malusev998/ecb-rates"
)

var _ ecbrates.Fetcher = ECBFetcher{}

type (
	// ECBFetcher reads daily reference rates from the ECB SDMX REST service.
	// Rates are quoted as units of the currency per one unit of ReferenceCurrency.
	ECBFetcher struct {
		URL               string
		FlowRef           string
		ReferenceCurrency string
		ExrType           string
		ExrSuffix         string
		Client            *http.Client
		Logger            *slog.Logger
	}

	sdmxValue struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	sdmxDimension struct {
		ID     string      `json:"id"`
		Values []sdmxValue `json:"values"`
	}

	sdmxSeries struct {
		Observations map[string][]*json.Number `json:"observations"`
	}

	sdmxResponse struct {
		DataSets []struct {
			Series map[string]sdmxSeries `json:"series"`
		} `json:"dataSets"`
		Structure struct {
			Dimensions struct {
				Series      []sdmxDimension `json:"series"`
				Observation []sdmxDimension `json:"observation"`
			} `json:"dimensions"`
		} `json:"structure"`
	}

	observations map[string]map[time.Time]decimal.Decimal
)

func (e ECBFetcher) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}

	return e.Logger
}

func (e ECBFetcher) reference() string {
	if e.ReferenceCurrency == "" {
		return ReferenceCurrency
	}

	return e.ReferenceCurrency
}

// Key builds the series key FREQ.CURRENCY.CURRENCY_DENOM.EXR_TYPE.EXR_SUFFIX;
// empty dimensions are wildcards.
func (e ECBFetcher) Key(currencies []string) string {
	return strings.Join([]string{
		DailyFrequency,
		strings.Join(currencies, "+"),
		e.reference(),
		e.ExrType,
		e.ExrSuffix,
	}, ".")
}

func (e ECBFetcher) newRequest(ctx context.Context, currencies []string, start, end time.Time) (*http.Request, error) {
	url := e.URL

	if url == "" {
		url = ECBURL
	}

	flowRef := e.FlowRef

	if flowRef == "" {
		flowRef = ECBFlowRef
	}

	endpoint := fmt.Sprintf("%s/data/%s/%s", strings.TrimRight(url, "/"), flowRef, e.Key(currencies))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", sdmxJSONMediaType)

	q := req.URL.Query()
	q.Add("startPeriod", start.Format(ecbrates.DateLayout))
	q.Add("endPeriod", end.Format(ecbrates.DateLayout))
	q.Add("format", sdmxJSONFormat)

	req.URL.RawQuery = q.Encode()

	return req, nil
}

func (e ECBFetcher) Fetch(ctx context.Context, currencies []string, start, end time.Time) (*ecbrates.RateTable, error) {
	requested := uniqueCurrencies(currencies)
	remote := make([]string, 0, len(requested))

	for _, c := range requested {
		if c != e.reference() {
			remote = append(remote, c)
		}
	}

	if len(remote) == 0 {
		return nil, fmt.Errorf("%w: only the reference currency %s was requested", ErrEmptyResult, e.reference())
	}

	if ctx == nil {
		ctx = context.Background()
	}

	req, err := e.newRequest(ctx, remote, start, end)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteService, err)
	}

	client := e.Client

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	e.logger().Debug("requesting exchange rates", slog.String("url", req.URL.String()))

	res, err := client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteService, err)
	}

	defer res.Body.Close()

	if err := handleHTTPStatusCodeError(res); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(res.Body)

	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrRemoteService, err)
	}

	var data sdmxResponse

	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", ErrRemoteService, err)
	}

	obs, err := data.observations()

	if err != nil {
		return nil, err
	}

	table, err := e.buildTable(requested, obs)

	if err != nil {
		return nil, err
	}

	e.logger().Info("exchange rates fetched",
		slog.Int("dates", table.Len()),
		slog.Any("currencies", requested),
	)

	return table, nil
}

func (e ECBFetcher) buildTable(requested []string, obs observations) (*ecbrates.RateTable, error) {
	dateSet := make(map[time.Time]struct{})

	for _, byDate := range obs {
		for d := range byDate {
			dateSet[d] = struct{}{}
		}
	}

	if len(dateSet) == 0 {
		return nil, ErrEmptyResult
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := ecbrates.NewRateTable(dates)

	for _, c := range requested {
		values := make([]decimal.NullDecimal, len(dates))

		if c == e.reference() {
			for i := range values {
				values[i] = decimal.NewNullDecimal(decimal.NewFromInt(1))
			}
		} else {
			byDate, ok := obs[c]

			if !ok {
				return nil, fmt.Errorf("%w: currency %s", ErrEmptyResult, c)
			}

			for i, d := range dates {
				if value, ok := byDate[d]; ok {
					values[i] = decimal.NewNullDecimal(value)
				}
			}
		}

		if err := table.AddColumn(c, values); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func dimensionIndex(dimensions []sdmxDimension, id string) int {
	for i, d := range dimensions {
		if d.ID == id {
			return i
		}
	}

	return -1
}

func (r sdmxResponse) observations() (observations, error) {
	if len(r.DataSets) == 0 {
		return nil, ErrEmptyResult
	}

	seriesDimensions := r.Structure.Dimensions.Series
	currencyIdx := dimensionIndex(seriesDimensions, currencyDimension)

	if currencyIdx < 0 {
		return nil, fmt.Errorf("%w: response has no %s dimension", ErrRemoteService, currencyDimension)
	}

	observationDimensions := r.Structure.Dimensions.Observation
	timeIdx := dimensionIndex(observationDimensions, timePeriodDimension)

	if timeIdx < 0 {
		return nil, fmt.Errorf("%w: response has no %s dimension", ErrRemoteService, timePeriodDimension)
	}

	periods := observationDimensions[timeIdx].Values
	result := make(observations)

	for key, series := range r.DataSets[0].Series {
		positions := strings.Split(key, ":")

		if len(positions) <= currencyIdx {
			return nil, fmt.Errorf("%w: malformed series key %q", ErrRemoteService, key)
		}

		pos, err := strconv.Atoi(positions[currencyIdx])

		if err != nil || pos < 0 || pos >= len(seriesDimensions[currencyIdx].Values) {
			return nil, fmt.Errorf("%w: malformed series key %q", ErrRemoteService, key)
		}

		currency := seriesDimensions[currencyIdx].Values[pos].ID

		if _, exists := result[currency]; exists {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousSeries, currency)
		}

		byDate := make(map[time.Time]decimal.Decimal, len(series.Observations))

		for obsKey, values := range series.Observations {
			if len(values) == 0 || values[0] == nil {
				continue
			}

			obsPositions := strings.Split(obsKey, ":")

			if len(obsPositions) <= timeIdx {
				return nil, fmt.Errorf("%w: malformed observation key %q", ErrRemoteService, obsKey)
			}

			periodIdx, err := strconv.Atoi(obsPositions[timeIdx])

			if err != nil || periodIdx < 0 || periodIdx >= len(periods) {
				return nil, fmt.Errorf("%w: malformed observation key %q", ErrRemoteService, obsKey)
			}

			date, err := time.Parse(ecbrates.DateLayout, periods[periodIdx].ID)

			if err != nil {
				return nil, fmt.Errorf("%w: unexpected time period %q", ErrRemoteService, periods[periodIdx].ID)
			}

			value, err := decimal.NewFromString(values[0].String())

			if err != nil {
				return nil, fmt.Errorf("%w: unexpected observation value %q", ErrRemoteService, values[0].String())
			}

			byDate[date] = value
		}

		result[currency] = byDate
	}

	return result, nil
}
