package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	// modernc регистрируется как "sqlite", sqlx по умолчанию знает только "sqlite3"
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const createPartPricesTable = `
CREATE TABLE IF NOT EXISTS part_prices (
	brand         TEXT NOT NULL,
	model         TEXT NOT NULL,
	part          TEXT NOT NULL,
	declared_area TEXT NOT NULL DEFAULT '',
	material      TEXT NOT NULL DEFAULT '',
	price         BIGINT NOT NULL DEFAULT 0,
	link          TEXT NOT NULL DEFAULT '',
	updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (brand, model, part)
)`

const upsertPartPrice = `
INSERT INTO part_prices (brand, model, part, declared_area, material, price, link, updated_at)
VALUES (:brand, :model, :part, :declared_area, :material, :price, :link, CURRENT_TIMESTAMP)
ON CONFLICT (brand, model, part) DO UPDATE SET
	declared_area = excluded.declared_area,
	material      = excluded.material,
	price         = excluded.price,
	link          = excluded.link,
	updated_at    = excluded.updated_at`

// SQLPriceStore прайс в таблице part_prices (SQLite или PostgreSQL)
type SQLPriceStore struct {
	db *sqlx.DB
}

// NewSQLPriceStore открывает базу и создаёт таблицу, если её нет
func NewSQLPriceStore(ctx context.Context, driver, dsn string) (*SQLPriceStore, error) {
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// один писатель, и in-memory база живёт в единственном соединении
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	store := &SQLPriceStore{db: db}
	if err := store.init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (s *SQLPriceStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createPartPricesTable); err != nil {
		return fmt.Errorf("create part_prices table: %w", err)
	}
	return nil
}

// Close закрывает соединение с базой
func (s *SQLPriceStore) Close() error {
	return s.db.Close()
}

// Load читает весь прайс
func (s *SQLPriceStore) Load(ctx context.Context) ([]entity.PartPriceRecord, error) {
	var records []entity.PartPriceRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT brand, model, part, declared_area, material, price, link
		FROM part_prices
		ORDER BY brand, model, part
	`)
	if err != nil {
		return nil, fmt.Errorf("select part_prices: %w", err)
	}
	return records, nil
}

// Upsert добавляет записи или обновляет существующие по ключу (марка, модель, деталь)
func (s *SQLPriceStore) Upsert(ctx context.Context, records []entity.PartPriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertPartPrice)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range records {
		key := r.Key()
		if key.Brand == "" || key.Model == "" || key.Part == "" {
			log.Warn().Str("key", key.String()).Msg("skipping price record with empty key")
			continue
		}
		r.Brand, r.Model, r.Part = key.Brand, key.Model, key.Part
		if _, err := stmt.ExecContext(ctx, r); err != nil {
			return fmt.Errorf("upsert %s: %w", key, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Debug().Int("records", written).Msg("part prices upserted")
	return nil
}

var (
	_ port.PriceSource = (*SQLPriceStore)(nil)
	_ port.PriceSink   = (*SQLPriceStore)(nil)
)
