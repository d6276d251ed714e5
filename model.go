package ecbrates

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type (
	Pair struct {
		From string
		To   string
	}

	Column struct {
		Name   string
		Values []decimal.NullDecimal
	}

	// RateTable is indexed by Dates; every column holds exactly one value per date.
	RateTable struct {
		Dates   []time.Time
		Columns []Column
	}

	Rate struct {
		From      string
		To        string
		Provider  Provider
		Value     decimal.Decimal
		Date      time.Time
		CreatedAt time.Time
	}

	RateWithID struct {
		Rate
		ID interface{}
	}
)

// Pairs returns the cartesian product of from and to, from outer, to inner.
// Pairs of a currency with itself and repeated pairs are left out.
func Pairs(from, to []string) []Pair {
	pairs := make([]Pair, 0, len(from)*len(to))
	seen := make(map[Pair]struct{}, len(from)*len(to))

	for _, f := range from {
		for _, t := range to {
			pair := Pair{From: f, To: t}

			if _, ok := seen[pair]; ok || f == t {
				continue
			}

			seen[pair] = struct{}{}
			pairs = append(pairs, pair)
		}
	}

	return pairs
}

func (p Pair) ColumnName() string {
	return fmt.Sprintf("EXR: %s/%s", p.From, p.To)
}

func (p Pair) String() string {
	return p.From + "_" + p.To
}

func (r Rate) Pair() Pair {
	return Pair{From: r.From, To: r.To}
}

func NewRateTable(dates []time.Time) *RateTable {
	return &RateTable{Dates: dates}
}

func (t *RateTable) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}

func (t *RateTable) AddColumn(name string, values []decimal.NullDecimal) error {
	if len(values) != len(t.Dates) {
		return fmt.Errorf("column %s has %d values, table has %d dates", name, len(values), len(t.Dates))
	}

	if _, exists := t.Column(name); exists {
		return fmt.Errorf("column %s already exists", name)
	}

	t.Columns = append(t.Columns, Column{Name: name, Values: values})

	return nil
}

func (t *RateTable) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		names = append(names, c.Name)
	}

	return names
}

func (t *RateTable) Len() int {
	return len(t.Dates)
}
