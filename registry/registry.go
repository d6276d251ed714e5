// Package registry loads the reference table of ISO 4217 currency codes used to
// validate user input. The code is read from the third column of every row.
package registry

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const codeColumn = 2

var (
	ErrRegistryIO        = errors.New("currency registry cannot be read")
	ErrMalformedRegistry = errors.New("currency registry is malformed")
)

//go:embed currency_codes.csv
var embeddedCodes []byte

var (
	defaultOnce  sync.Once
	defaultCodes Codes
	defaultErr   error
)

type Codes map[string]bool

func (c Codes) Contains(code string) bool {
	return c[code]
}

// Load reads the registry at path and returns a new map on every call.
// An empty path loads the embedded table.
func Load(path string) (Codes, error) {
	if path == "" {
		return parse(bytes.NewReader(embeddedCodes))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryIO, err)
	}

	defer f.Close()

	return parse(f)
}

// Default returns the embedded table, parsed once per process.
// Callers must not modify the returned map.
func Default() (Codes, error) {
	defaultOnce.Do(func() {
		defaultCodes, defaultErr = Load("")
	})

	return defaultCodes, defaultErr
}

func parse(r io.Reader) (Codes, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	codes := make(Codes)

	for line := 1; ; line++ {
		record, err := reader.Read()

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRegistry, err)
		}

		if len(record) <= codeColumn {
			return nil, fmt.Errorf("%w: line %d has %d columns", ErrMalformedRegistry, line, len(record))
		}

		if code := record[codeColumn]; isCode(code) {
			codes[code] = true
		}
	}

	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no currency codes found", ErrMalformedRegistry)
	}

	return codes, nil
}

// isCode skips the header and entities without a currency.
func isCode(s string) bool {
	if len(s) != 3 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}

	return true
}
