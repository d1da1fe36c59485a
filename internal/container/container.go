package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"damage-estimator/config"
	app "damage-estimator/internal/application"
	"damage-estimator/internal/domain/costing"
	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
	"damage-estimator/internal/infrastructure/pricing"
	"damage-estimator/internal/infrastructure/storage"
	"damage-estimator/internal/infrastructure/vision"
)

type Container struct {
	UserService     *app.UserService
	EstimateService *app.EstimateService

	Store     *storage.SQLPriceStore
	Catalog   *storage.PriceCatalog
	Detector  *vision.HTTPDetector
	Refresher *pricing.Refresher // nil, если SCRAPER_URL не задан

	closers []func() error
}

// New собирает инфраструктуру и сервисы приложения по конфигурации.
// Redis, парсер цен и OpenCV необязательны: без них сервис работает в урезанном режиме.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	model, err := costing.NewModel(cfg.Estimator.MinDamageArea, cfg.Estimator.MaxDamageArea)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLPriceStore(ctx, cfg.Prices.DBDriver, cfg.Prices.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("price store: %w", err)
	}
	c.closers = append(c.closers, store.Close)
	c.Store = store

	var imported []entity.PartPriceRecord
	if cfg.Prices.XLSXPath != "" {
		imported, err = importPrices(ctx, storage.NewXLSXPriceSource(cfg.Prices.XLSXPath), store)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("import %s: %w", cfg.Prices.XLSXPath, err), c.Close())
		}
	}

	c.Catalog = storage.NewPriceCatalog(store)
	fillCatalog(ctx, c.Catalog, imported)

	c.Detector = vision.NewHTTPDetector(vision.DetectorOpts{
		BaseURL:      cfg.Detector.URL,
		Confidence:   cfg.Detector.Confidence,
		PixelsPerCM2: cfg.Detector.PixelsPerCM2,
		Timeout:      cfg.Detector.Timeout,
	})

	deps := app.EstimateDeps{
		Prices:   c.Catalog,
		Detector: c.Detector,
	}

	if cfg.Redis.Addr != "" {
		cache, err := storage.NewRedisDetectionCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Warn().Err(err).Msg("redis is unavailable, detection cache disabled")
		} else {
			c.closers = append(c.closers, cache.Close)
			deps.Detector = vision.NewCachedDetector(c.Detector, cache)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("detection cache enabled")
		}
	}

	if vision.GoCVEnabled {
		deps.Highlighter = vision.NewGoCVHighlighter()
		deps.Quality = vision.NewQualityGate()
	}

	if cfg.Prices.ScraperURL != "" {
		scraper := pricing.NewScraperClient(pricing.ScraperOpts{BaseURL: cfg.Prices.ScraperURL})
		c.Refresher = pricing.NewRefresher(scraper, store, c.Catalog, pricing.DefaultQueueSize)
		deps.Refresher = c.Refresher
	}

	c.UserService = app.NewUserService(storage.NewMemoryUserRepository())
	c.EstimateService = app.NewEstimateService(model, cfg.Estimator.MatchThreshold, deps)

	return c, nil
}

// importPrices переносит записи из источника в хранилище и возвращает их
func importPrices(ctx context.Context, source port.PriceSource, sink port.PriceSink) ([]entity.PartPriceRecord, error) {
	records, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := sink.Upsert(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// fillCatalog загружает каталог из базы. Если база не читается,
// каталог заполняется записями, импортированными из Excel.
func fillCatalog(ctx context.Context, catalog *storage.PriceCatalog, imported []entity.PartPriceRecord) {
	if err := catalog.Reload(ctx); err != nil {
		log.Warn().Err(err).Int("imported", len(imported)).Msg("failed to load prices from db")
		if len(imported) > 0 {
			catalog.Replace(imported)
		}
	}

	if catalog.Len() == 0 {
		log.Warn().Msg("price catalog is empty, replacement prices will be estimated")
	}
}

// Close освобождает соединения с базой и Redis
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	return errors.Join(errs...)
}
