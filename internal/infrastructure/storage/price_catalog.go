package storage

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

// priceSnapshot неизменяемый срез прайса
type priceSnapshot struct {
	records map[entity.PriceKey]entity.PartPriceRecord
	brands  []string
	models  map[string][]string
	parts   map[[2]string][]string
}

func newPriceSnapshot(records []entity.PartPriceRecord) *priceSnapshot {
	s := &priceSnapshot{
		records: make(map[entity.PriceKey]entity.PartPriceRecord, len(records)),
		models:  make(map[string][]string),
		parts:   make(map[[2]string][]string),
	}

	for _, r := range records {
		key := r.Key()
		if key.Brand == "" || key.Model == "" || key.Part == "" {
			continue
		}
		if _, dup := s.records[key]; dup {
			// как и в таблице, берётся первая строка с таким ключом
			continue
		}
		r.Brand, r.Model, r.Part = key.Brand, key.Model, key.Part
		s.records[key] = r

		if _, ok := s.models[key.Brand]; !ok {
			s.brands = append(s.brands, key.Brand)
		}
		car := [2]string{key.Brand, key.Model}
		if _, ok := s.parts[car]; !ok {
			s.models[key.Brand] = append(s.models[key.Brand], key.Model)
		}
		s.parts[car] = append(s.parts[car], key.Part)
	}

	sort.Strings(s.brands)
	for _, models := range s.models {
		sort.Strings(models)
	}
	for _, parts := range s.parts {
		sort.Strings(parts)
	}
	return s
}

// PriceCatalog каталог цен в памяти. Reload подменяет снимок целиком,
// поэтому каждое чтение видит либо старый, либо новый прайс, но не их смесь.
type PriceCatalog struct {
	source   port.PriceSource
	snapshot atomic.Pointer[priceSnapshot]
}

// NewPriceCatalog создаёт пустой каталог поверх источника
func NewPriceCatalog(source port.PriceSource) *PriceCatalog {
	c := &PriceCatalog{source: source}
	c.snapshot.Store(newPriceSnapshot(nil))
	return c
}

// Reload перечитывает источник. При ошибке остаётся прежний снимок.
func (c *PriceCatalog) Reload(ctx context.Context) error {
	if c.source == nil {
		return fmt.Errorf("price source is not configured")
	}

	records, err := c.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	snap := newPriceSnapshot(records)
	c.snapshot.Store(snap)

	log.Info().Int("records", len(snap.records)).Int("brands", len(snap.brands)).Msg("price catalog reloaded")
	return nil
}

// Replace подменяет прайс готовым набором записей
func (c *PriceCatalog) Replace(records []entity.PartPriceRecord) {
	c.snapshot.Store(newPriceSnapshot(records))
}

// Len количество записей в текущем снимке
func (c *PriceCatalog) Len() int {
	return len(c.snapshot.Load().records)
}

// GetPrice ищет запись по марке, модели и детали
func (c *PriceCatalog) GetPrice(ctx context.Context, key entity.PriceKey) (entity.PartPriceRecord, bool, error) {
	r, ok := c.snapshot.Load().records[entity.NewPriceKey(key.Brand, key.Model, key.Part)]
	return r, ok, nil
}

// Brands возвращает отсортированный список марок
func (c *PriceCatalog) Brands(ctx context.Context) ([]string, error) {
	return clone(c.snapshot.Load().brands), nil
}

// Models возвращает модели марки
func (c *PriceCatalog) Models(ctx context.Context, brand string) ([]string, error) {
	return clone(c.snapshot.Load().models[brand]), nil
}

// Parts возвращает все детали модели
func (c *PriceCatalog) Parts(ctx context.Context, brand, model string) ([]string, error) {
	return clone(c.snapshot.Load().parts[[2]string{brand, model}]), nil
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

var _ port.PriceCatalog = (*PriceCatalog)(nil)
