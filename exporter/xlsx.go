package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	ecbrates "github.com/malusev998/ecb-rates"
)

const (
	DefaultSheet    = "rates"
	Extension       = ".xlsx"
	TimePeriodLabel = "TIME_PERIOD"
	suffixLength    = 8
)

var ErrWrite = errors.New("cannot write output file")

var _ ecbrates.Exporter = XLSXExporter{}

type XLSXExporter struct {
	Dir   string
	Sheet string
	Now   func() time.Time
	NewID func() string
}

// Filename is the current date followed by the first eight hex characters of
// a random UUID.
func (x XLSXExporter) Filename() string {
	now := time.Now
	if x.Now != nil {
		now = x.Now
	}

	newID := uuid.NewString
	if x.NewID != nil {
		newID = x.NewID
	}

	id := newID()
	if len(id) > suffixLength {
		id = id[:suffixLength]
	}

	return now().Format(ecbrates.DateLayout) + id + Extension
}

func (x XLSXExporter) Export(table *ecbrates.RateTable) (string, error) {
	dir := x.Dir
	if dir == "" {
		dir = "."
	}

	sheet := x.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	path := filepath.Join(dir, x.Filename())

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s already exists", ErrWrite, path)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if err := writeTable(f, sheet, table); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if err := f.SaveAs(path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return path, nil
}

func writeTable(f *excelize.File, sheet string, table *ecbrates.RateTable) error {
	header := make([]interface{}, 0, len(table.Columns)+1)
	header = append(header, TimePeriodLabel)

	for _, name := range table.ColumnNames() {
		header = append(header, name)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, d := range table.Dates {
		row := make([]interface{}, 0, len(table.Columns)+1)
		row = append(row, d.Format(ecbrates.DateLayout))

		for _, c := range table.Columns {
			if !c.Values[i].Valid {
				row = append(row, nil)
				continue
			}

			value, _ := c.Values[i].Decimal.Float64()
			row = append(row, value)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}
