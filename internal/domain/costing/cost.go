package costing

import (
	"errors"
	"fmt"
	"math"

	"damage-estimator/internal/domain/entity"
)

const (
	// DefaultMinArea нижняя граница площади повреждения, см²
	DefaultMinArea = 50
	// DefaultMaxArea верхняя граница площади повреждения, см²
	DefaultMaxArea = 200
)

// ErrInvalidAreaBounds некорректные границы площади
var ErrInvalidAreaBounds = errors.New("invalid damage area bounds")

// Model модель расчёта стоимости ремонта и замены
type Model struct {
	MinArea float64
	MaxArea float64
}

// NewModel создаёт модель с границами площади повреждения
func NewModel(minArea, maxArea float64) (Model, error) {
	if math.IsNaN(minArea) || math.IsNaN(maxArea) || minArea < 0 || minArea > maxArea {
		return Model{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidAreaBounds, minArea, maxArea)
	}
	return Model{MinArea: minArea, MaxArea: maxArea}, nil
}

// DefaultModel модель с границами 50–200 см²
func DefaultModel() Model {
	return Model{MinArea: DefaultMinArea, MaxArea: DefaultMaxArea}
}

// ClampArea ограничивает площадь настроенным диапазоном
func (m Model) ClampArea(area float64) float64 {
	return math.Max(m.MinArea, math.Min(area, m.MaxArea))
}

// RepairCost считает стоимость ремонта, округлённую вверх до сотни, и категорию материала.
func (m Model) RepairCost(area float64, material string, severity entity.Severity, damageType entity.DamageType) (int64, entity.MaterialCategory) {
	category := ClassifyMaterial(material)

	rate := baseRate(category, severity, damageType)
	baseCost := m.ClampArea(area) * rate * complexity(category)

	return RoundUpHundred(baseCost * damageMultiplier(damageType, severity)), category
}

// CapRepair не даёт ремонту тяжёлых повреждений магниевого сплава и композита
// стоить дороже известной цены замены.
func CapRepair(cost int64, category entity.MaterialCategory, severity entity.Severity, replacement int64) int64 {
	if severity != entity.SeverityHeavy {
		return cost
	}
	if category != entity.MaterialMagnesiumAlloy && category != entity.MaterialComposite {
		return cost
	}
	return min(cost, replacement)
}

// RoundUpHundred округляет вверх до ближайших 100 рублей; отрицательные значения дают 0.
func RoundUpHundred(v float64) int64 {
	if !(v > 0) {
		return 0
	}
	return int64(math.Ceil(v/100)) * 100
}
