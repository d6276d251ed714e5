package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	ecbrates "github.com/malusev998/ecb-rates"
	"github.com/malusev998/ecb-rates/validation"
)

type (
	Validator interface {
		Validate(from, to []string, fromDate, toDate string) (validation.DateRange, error)
	}

	Resolver interface {
		NearestWorkday(date time.Time) (time.Time, error)
	}

	Request struct {
		From     []string
		To       []string
		FromDate string
		ToDate   string
	}

	Result struct {
		Filename string
		Table    *ecbrates.RateTable
		Archived map[string][]ecbrates.RateWithID
	}

	// Pipeline validates the request, moves the start date with the resolver,
	// fetches rates, adds the ratio columns and exports the table. Archive is optional.
	Pipeline struct {
		Validator Validator
		Resolver  Resolver
		Fetcher   ecbrates.Fetcher
		Exporter  ecbrates.Exporter
		Archive   *ArchiveService
		Provider  ecbrates.Provider
		Logger    *slog.Logger
		Now       func() time.Time
	}
)

// DefaultRequest converts EUR to USD for today.
func DefaultRequest(now time.Time) Request {
	today := now.Format(ecbrates.DateLayout)

	return Request{
		From:     []string{"EUR"},
		To:       []string{"USD"},
		FromDate: today,
		ToDate:   today,
	}
}

func (r Request) withDefaults(now time.Time) Request {
	defaults := DefaultRequest(now)

	if len(r.From) == 0 {
		r.From = defaults.From
	}

	if len(r.To) == 0 {
		r.To = defaults.To
	}

	if r.FromDate == "" {
		r.FromDate = defaults.FromDate
	}

	if r.ToDate == "" {
		r.ToDate = defaults.ToDate
	}

	return r
}

func (p Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}

	return p.Now()
}

func (p Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}

	return p.Logger
}

func (p Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	req = req.withDefaults(p.now())

	dates, err := p.Validator.Validate(req.From, req.To, req.FromDate, req.ToDate)
	if err != nil {
		return Result{}, err
	}

	start, err := p.Resolver.NearestWorkday(dates.From)
	if err != nil {
		return Result{}, err
	}

	table, err := p.Fetcher.Fetch(ctx, slices.Concat(req.From, req.To), start, dates.To)
	if err != nil {
		return Result{}, err
	}

	pairs := ecbrates.Pairs(req.From, req.To)

	if err := ComputeRatios(table, pairs); err != nil {
		return Result{}, err
	}

	filename, err := p.Exporter.Export(table)
	if err != nil {
		return Result{}, err
	}

	result := Result{Filename: filename, Table: table}

	if p.Archive != nil && len(p.Archive.Storage) > 0 {
		provider := p.Provider
		if provider == ecbrates.EmptyProvider {
			provider = ecbrates.ECBProvider
		}

		archived, err := p.Archive.Save(ctx, RatesFromTable(table, pairs, provider, p.now()))
		if err != nil {
			if removeErr := os.Remove(filename); removeErr != nil {
				p.logger().Warn("cannot remove exported file", slog.String("file", filename), slog.Any("error", removeErr))
			}

			return Result{}, fmt.Errorf("archiving rates: %w", err)
		}

		result.Archived = archived
	}

	p.logger().Info("conversion rates exported",
		slog.String("file", filename),
		slog.Int("dates", table.Len()),
		slog.Int("pairs", len(pairs)),
		slog.String("start", start.Format(ecbrates.DateLayout)),
		slog.String("end", dates.To.Format(ecbrates.DateLayout)),
	)

	return result, nil
}
