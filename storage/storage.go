package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	ecbrates "github.com/malusev998/ecb-rates"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx     context.Context
		Migrate bool
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
		IDGenerator      IDGenerator
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
	SQLiteConfig struct {
		BaseConfig
		Path        string
		TableName   string
		IDGenerator IDGenerator
	}

	IDGenerator interface {
		Generate() []byte
	}

	uuidGenerator struct{}
)

const (
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
	SQLite  Provider = "sqlite"
)

var (
	ErrStorageNotFound           = errors.New("storage is not found")
	ErrNotEnoughBytesInGenerator = errors.New("id generator returned less than 16 bytes")
)

func (uuidGenerator) Generate() []byte {
	id := uuid.New()
	return id[:]
}

func newID(generator IDGenerator) (uuid.UUID, error) {
	if generator == nil {
		generator = uuidGenerator{}
	}

	b := generator.Generate()

	if len(b) < len(uuid.UUID{}) {
		return uuid.Nil, ErrNotEnoughBytesInGenerator
	}

	return uuid.FromBytes(b[:len(uuid.UUID{})])
}

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "mysql":
		return MySQL, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	case "sqlite":
		return SQLite, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(provider Provider, config interface{}) (ecbrates.Storage, error) {
	switch provider {
	case MySQL:
		if c, ok := config.(MySQLConfig); ok {
			return NewMySQLStorage(c)
		}
	case MongoDB:
		if c, ok := config.(MongoDBConfig); ok {
			return NewMongoStorage(c)
		}
	case SQLite:
		if c, ok := config.(SQLiteConfig); ok {
			return NewSQLiteStorage(c)
		}
	}

	return nil, ErrStorageNotFound
}

func currencyKey(rate ecbrates.Rate) string {
	return rate.Pair().String()
}
