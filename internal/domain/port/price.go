package port

import (
	"context"

	"damage-estimator/internal/domain/entity"
)

// PriceLookup поиск цены детали. Отсутствие записи не ошибка: возвращается false.
type PriceLookup interface {
	GetPrice(ctx context.Context, key entity.PriceKey) (entity.PartPriceRecord, bool, error)
}

// PriceCatalog справочник марок, моделей и деталей прайса
type PriceCatalog interface {
	PriceLookup
	Brands(ctx context.Context) ([]string, error)
	Models(ctx context.Context, brand string) ([]string, error)
	Parts(ctx context.Context, brand, model string) ([]string, error)
}

// PriceSource источник всех записей прайса для перезагрузки каталога
type PriceSource interface {
	Load(ctx context.Context) ([]entity.PartPriceRecord, error)
}

// PriceSink хранилище, куда записываются обновлённые цены
type PriceSink interface {
	Upsert(ctx context.Context, records []entity.PartPriceRecord) error
}

// PriceRefresher принимает сигнал о деталях без цены.
// Реализация не должна блокировать вызывающего.
type PriceRefresher interface {
	RequestRefresh(brand, model string, parts []string)
}
