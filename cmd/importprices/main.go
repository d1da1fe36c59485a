// Команда importprices переносит прайс из Excel в базу цен.
//
//	importprices -xlsx huh_result.xlsx -driver sqlite -dsn prices.db
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"damage-estimator/internal/infrastructure/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})

	xlsxPath := flag.String("xlsx", "huh_result.xlsx", "path to the price workbook")
	driver := flag.String("driver", storage.DriverSQLite, "price DB driver: sqlite or postgres")
	dsn := flag.String("dsn", "prices.db", "price DB DSN")
	flag.Parse()

	ctx := context.Background()

	records, err := storage.NewXLSXPriceSource(*xlsxPath).Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("path", *xlsxPath).Msg("failed to read workbook")
	}

	store, err := storage.NewSQLPriceStore(ctx, *driver, *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open price store")
	}
	defer store.Close()

	if err := store.Upsert(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("failed to import prices")
	}

	log.Info().Int("records", len(records)).Str("dsn", *dsn).Msg("prices imported")
}
