package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/ecb-rates/registry"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "currency_codes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("Embedded", func(t *testing.T) {
		asserts := require.New(t)
		codes, err := registry.Load("")

		asserts.NoError(err)

		for _, code := range []string{"EUR", "USD", "GBP", "JPY", "CHF", "RSD"} {
			asserts.Truef(codes.Contains(code), "%s is missing", code)
		}

		asserts.False(codes.Contains("AlphabeticCode"))
		asserts.False(codes.Contains(""))
		asserts.False(codes.Contains("XYZ"))
	})

	t.Run("FreshMapPerCall", func(t *testing.T) {
		asserts := require.New(t)
		first, err := registry.Load("")
		asserts.NoError(err)

		delete(first, "EUR")

		second, err := registry.Load("")
		asserts.NoError(err)
		asserts.True(second.Contains("EUR"))
	})

	t.Run("FromFile", func(t *testing.T) {
		asserts := require.New(t)
		path := writeFile(t, "Entity,Currency,AlphabeticCode\nSERBIA,Serbian Dinar,RSD\nANTARCTICA,No universal currency,\n")

		codes, err := registry.Load(path)

		asserts.NoError(err)
		asserts.Len(codes, 1)
		asserts.True(codes.Contains("RSD"))
	})

	t.Run("MissingFile", func(t *testing.T) {
		codes, err := registry.Load(filepath.Join(t.TempDir(), "nope.csv"))

		require.Nil(t, codes)
		require.True(t, errors.Is(err, registry.ErrRegistryIO))
	})

	t.Run("TooFewColumns", func(t *testing.T) {
		codes, err := registry.Load(writeFile(t, "SERBIA,RSD\n"))

		require.Nil(t, codes)
		require.True(t, errors.Is(err, registry.ErrMalformedRegistry))
	})

	t.Run("BrokenQuoting", func(t *testing.T) {
		_, err := registry.Load(writeFile(t, "SERBIA,\"Serbian Dinar,RSD\n"))

		require.True(t, errors.Is(err, registry.ErrMalformedRegistry))
	})

	t.Run("NoCodes", func(t *testing.T) {
		_, err := registry.Load(writeFile(t, "Entity,Currency,AlphabeticCode\n"))

		require.True(t, errors.Is(err, registry.ErrMalformedRegistry))
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	first, err := registry.Default()
	asserts.NoError(err)

	second, err := registry.Default()
	asserts.NoError(err)

	asserts.True(first.Contains("USD"))
	asserts.Equal(len(first), len(second))
}
