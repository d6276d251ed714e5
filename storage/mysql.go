package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	ecbrates "github.com/malusev998/ecb-rates"
)

const MySQLTimeFormat = "2006-01-02 15:04:05"

type sqlStorage struct {
	ctx         context.Context
	db          *sql.DB
	tableName   string
	idGenerator IDGenerator
}

func MySQLDSN(user, password, addr, database string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = user
	mysqlDriverConfig.Passwd = password
	mysqlDriverConfig.Addr = addr
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = database
	mysqlDriverConfig.ParseTime = true

	return mysqlDriverConfig.FormatDSN()
}

func NewMySQLStorage(c MySQLConfig) (ecbrates.Storage, error) {
	db, err := sql.Open("mysql", c.ConnectionString)

	if err != nil {
		return nil, err
	}

	return NewSQLStorage(c.Ctx, db, c.IDGenerator, c.TableName, c.Migrate)
}

// NewSQLStorage wraps an open database handle. The table is created when migrate is set.
func NewSQLStorage(ctx context.Context, db *sql.DB, generator IDGenerator, tableName string, migrate bool) (ecbrates.Storage, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if generator == nil {
		generator = uuidGenerator{}
	}

	s := sqlStorage{
		ctx:         ctx,
		db:          db,
		tableName:   tableName,
		idGenerator: generator,
	}

	if migrate {
		if err := s.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s sqlStorage) Store(ctx context.Context, rates []ecbrates.Rate) ([]ecbrates.RateWithID, error) {
	if len(rates) == 0 {
		return []ecbrates.RateWithID{}, nil
	}

	if ctx == nil {
		ctx = s.ctx
	}

	ids := make([]ecbrates.RateWithID, 0, len(rates))
	keys := make([]string, 0, len(rates))

	for _, rate := range rates {
		id, err := newID(s.idGenerator)

		if err != nil {
			return nil, err
		}

		if rate.CreatedAt.IsZero() {
			rate.CreatedAt = time.Now()
		}

		ids = append(ids, ecbrates.RateWithID{Rate: rate, ID: id})
		keys = append(keys, id.String())
	}

	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s(id, currency, provider, rate, rate_date, created_at) VALUES (?,?,?,?,?,?);", s.tableName))

	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	defer stmt.Close()

	for i, r := range ids {
		_, err := stmt.ExecContext(
			ctx,
			keys[i],
			currencyKey(r.Rate),
			string(r.Provider),
			r.Value.String(),
			r.Date.Format(ecbrates.DateLayout),
			r.CreatedAt.Format(MySQLTimeFormat),
		)

		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (s sqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}

func (s sqlStorage) Migrate() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s(
	id CHAR(36) NOT NULL PRIMARY KEY,
	currency CHAR(7) NOT NULL,
	provider VARCHAR(50) NOT NULL,
	rate DECIMAL(32, 16) NOT NULL,
	rate_date DATE NOT NULL,
	created_at DATETIME NOT NULL,
	INDEX currency_rate_date (currency, rate_date)
);`, s.tableName))

	return err
}

func (s sqlStorage) Drop() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.tableName))

	return err
}

func (s sqlStorage) Close() error {
	return s.db.Close()
}
