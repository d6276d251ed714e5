package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ecbrates "github.com/malusev998/ecb-rates"
	"github.com/malusev998/ecb-rates/calendar"
	"github.com/malusev998/ecb-rates/exporter"
	"github.com/malusev998/ecb-rates/fetchers"
	"github.com/malusev998/ecb-rates/registry"
	"github.com/malusev998/ecb-rates/services"
	"github.com/malusev998/ecb-rates/storage"
	"github.com/malusev998/ecb-rates/validation"
)

type StorageConfig map[storage.Provider]interface{}

func storageConfig(ctx context.Context, config *Config) StorageConfig {
	storageBaseConfig := storage.BaseConfig{
		Ctx:     ctx,
		Migrate: config.Migrate,
	}

	mysqlConfig := config.Databases.MySQL
	mongodbConfig := config.Databases.MongoDB

	return StorageConfig{
		storage.MySQL: storage.MySQLConfig{
			BaseConfig:       storageBaseConfig,
			ConnectionString: storage.MySQLDSN(mysqlConfig.User, mysqlConfig.Password, mysqlConfig.Addr, mysqlConfig.DB),
			TableName:        mysqlConfig.Table,
		},
		storage.MongoDB: storage.MongoDBConfig{
			BaseConfig:       storageBaseConfig,
			ConnectionString: mongodbConfig.URI,
			Database:         mongodbConfig.DB,
			Collection:       mongodbConfig.Collection,
		},
		storage.SQLite: storage.SQLiteConfig{
			BaseConfig: storageBaseConfig,
			Path:       config.Databases.SQLite.Path,
			TableName:  mysqlConfig.Table,
		},
	}
}

func createStorages(ctx context.Context, config *Config) ([]ecbrates.Storage, error) {
	providers, err := storage.ConvertToProvidersFromStringSlice(config.Storage)
	if err != nil {
		return nil, err
	}

	configs := storageConfig(ctx, config)
	storages := make([]ecbrates.Storage, 0, len(providers))

	for _, s := range providers {
		c, ok := configs[s]
		if !ok {
			closeStorages(storages, nil)
			return nil, fmt.Errorf("storage %s does not exist", s)
		}

		st, err := storage.NewStorage(s, c)

		if err != nil {
			closeStorages(storages, nil)
			return nil, fmt.Errorf("error while connecting to %s: %w", s, err)
		}

		storages = append(storages, st)
	}

	return storages, nil
}

func closeStorages(storages []ecbrates.Storage, logger *slog.Logger) {
	for _, st := range storages {
		if err := st.Close(); err != nil && logger != nil {
			logger.Warn("closing storage", "storage", st.GetStorageProviderName(), "error", err)
		}
	}
}

func createResolver(config *Config, logger *slog.Logger) (calendar.Resolver, error) {
	strategy, err := calendar.ConvertToStrategyFromString(config.Calendar.Strategy)
	if err != nil {
		return calendar.Resolver{}, err
	}

	extra := make([]time.Time, 0, len(config.Calendar.ExtraHolidays))

	for _, value := range config.Calendar.ExtraHolidays {
		holiday, err := time.Parse(ecbrates.DateLayout, value)
		if err != nil {
			return calendar.Resolver{}, fmt.Errorf("invalid holiday %q in calendar.extra_holidays: %w", value, err)
		}

		extra = append(extra, holiday)
	}

	return calendar.Resolver{
		Calendar: calendar.NewTARGET(extra...),
		Strategy: strategy,
		Lookback: config.Calendar.Lookback,
		Logger:   logger,
	}, nil
}

// createPipeline wires every component from config. The returned storages are
// owned by the caller.
func createPipeline(ctx context.Context, config *Config, logger *slog.Logger) (services.Pipeline, []ecbrates.Storage, error) {
	codes, err := registry.Load(config.Registry.Path)
	if err != nil {
		return services.Pipeline{}, nil, err
	}

	resolver, err := createResolver(config, logger)
	if err != nil {
		return services.Pipeline{}, nil, err
	}

	provider, err := ecbrates.ConvertToProviderFromString(config.Fetcher.Provider)
	if err != nil {
		return services.Pipeline{}, nil, err
	}

	fetcher, err := fetchers.NewRateFetcher(provider, fetchers.ECBConfig{
		BaseConfig: fetchers.BaseConfig{
			URL:     config.Fetcher.URL,
			Timeout: config.Fetcher.Timeout,
			Logger:  logger,
		},
		ReferenceCurrency: config.Fetcher.ReferenceCurrency,
		ExrType:           config.Fetcher.ExrType,
		ExrSuffix:         config.Fetcher.ExrSuffix,
	})
	if err != nil {
		return services.Pipeline{}, nil, err
	}

	storages, err := createStorages(ctx, config)
	if err != nil {
		return services.Pipeline{}, nil, err
	}

	return services.Pipeline{
		Validator: validation.New(codes),
		Resolver:  resolver,
		Fetcher:   fetcher,
		Exporter:  exporter.XLSXExporter{Dir: config.Export.Dir},
		Archive:   &services.ArchiveService{Storage: storages},
		Provider:  provider,
		Logger:    logger,
	}, storages, nil
}
