package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ecbrates "github.com/malusev998/ecb-rates"
)

type (
	rateRecord struct {
		ID        string `gorm:"primaryKey;size:36"`
		Currency  string `gorm:"size:7;not null;index:idx_currency_rate_date"`
		Provider  string `gorm:"size:50;not null"`
		Rate      string `gorm:"type:text;not null"`
		RateDate  string `gorm:"size:10;not null;index:idx_currency_rate_date"`
		CreatedAt time.Time
	}

	sqliteStorage struct {
		ctx         context.Context
		db          *gorm.DB
		tableName   string
		idGenerator IDGenerator
	}
)

func NewSQLiteStorage(c SQLiteConfig) (ecbrates.Storage, error) {
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(c.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		return nil, err
	}

	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	s := sqliteStorage{
		ctx:         ctx,
		db:          db,
		tableName:   c.TableName,
		idGenerator: c.IDGenerator,
	}

	if c.Migrate {
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s sqliteStorage) table(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.tableName)
}

func (s sqliteStorage) Store(ctx context.Context, rates []ecbrates.Rate) ([]ecbrates.RateWithID, error) {
	if len(rates) == 0 {
		return []ecbrates.RateWithID{}, nil
	}

	if ctx == nil {
		ctx = s.ctx
	}

	records := make([]rateRecord, 0, len(rates))
	ids := make([]ecbrates.RateWithID, 0, len(rates))

	for _, rate := range rates {
		id, err := newID(s.idGenerator)

		if err != nil {
			return nil, err
		}

		if rate.CreatedAt.IsZero() {
			rate.CreatedAt = time.Now()
		}

		records = append(records, rateRecord{
			ID:        id.String(),
			Currency:  currencyKey(rate),
			Provider:  string(rate.Provider),
			Rate:      rate.Value.String(),
			RateDate:  rate.Date.Format(ecbrates.DateLayout),
			CreatedAt: rate.CreatedAt,
		})

		ids = append(ids, ecbrates.RateWithID{Rate: rate, ID: id})
	}

	if err := s.table(ctx).Create(&records).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (s sqliteStorage) GetStorageProviderName() string {
	return string(SQLite)
}

func (s sqliteStorage) Migrate() error {
	return s.table(s.ctx).AutoMigrate(&rateRecord{})
}

func (s sqliteStorage) Drop() error {
	return s.db.WithContext(s.ctx).Migrator().DropTable(s.tableName)
}

func (s sqliteStorage) Close() error {
	db, err := s.db.DB()

	if err != nil {
		return err
	}

	return db.Close()
}
