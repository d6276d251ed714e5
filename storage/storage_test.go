package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/ecb-rates/storage"
)

func TestConvertToProvidersFromStringSlice(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	providers, err := storage.ConvertToProvidersFromStringSlice([]string{"MySQL", "mongo", "sqlite"})
	asserts.Nil(err)
	asserts.Equal([]storage.Provider{storage.MySQL, storage.MongoDB, storage.SQLite}, providers)

	providers, err = storage.ConvertToProvidersFromStringSlice([]string{"mysql", "redis"})
	asserts.EqualError(err, "value redis is not valid Provider")
	asserts.Nil(providers)
}

func TestNewStorage_UnknownConfig(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	st, err := storage.NewStorage(storage.MySQL, storage.MongoDBConfig{})
	asserts.ErrorIs(err, storage.ErrStorageNotFound)
	asserts.Nil(st)

	st, err = storage.NewStorage(storage.Provider("redis"), nil)
	asserts.ErrorIs(err, storage.ErrStorageNotFound)
	asserts.Nil(st)
}
