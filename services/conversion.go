package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	ecbrates "github.com/malusev998/ecb-rates"
)

const ratioPrecision = 16

var (
	ErrDivisionByZero = errors.New("rate is zero, ratio is undefined")
	ErrMissingColumn  = errors.New("rate column is missing from table")
)

// ComputeRatios adds an "EXR: from/to" column for every pair, in pair order.
// The table is left untouched when an error is returned.
func ComputeRatios(table *ecbrates.RateTable, pairs []ecbrates.Pair) error {
	columns := make([]ecbrates.Column, 0, len(pairs))

	for _, pair := range pairs {
		from, ok := table.Column(pair.From)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, pair.From)
		}

		to, ok := table.Column(pair.To)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, pair.To)
		}

		values := make([]decimal.NullDecimal, table.Len())

		for i := range values {
			if !from.Values[i].Valid || !to.Values[i].Valid {
				continue
			}

			ratio, err := convert(from.Values[i].Decimal, to.Values[i].Decimal)
			if err != nil {
				return fmt.Errorf("%w: %s on %s", err, pair.To, table.Dates[i].Format(ecbrates.DateLayout))
			}

			values[i] = decimal.NewNullDecimal(ratio)
		}

		columns = append(columns, ecbrates.Column{Name: pair.ColumnName(), Values: values})
	}

	for _, c := range columns {
		if err := table.AddColumn(c.Name, c.Values); err != nil {
			return err
		}
	}

	return nil
}

func convert(value, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsZero() {
		return decimal.Decimal{}, ErrDivisionByZero
	}

	return value.DivRound(rate, ratioPrecision), nil
}
