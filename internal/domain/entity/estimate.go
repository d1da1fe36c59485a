package entity

import "time"

const (
	// UnknownPart название детали, если повреждение не удалось сопоставить
	UnknownPart = "unknown"
	// UndefinedPart деталь найдена, но детектор не знает, что это
	UndefinedPart = "Не определено"
)

// IsKnownPart сообщает, можно ли искать деталь в прайсе
func IsKnownPart(name string) bool {
	return name != "" && name != UnknownPart && name != UndefinedPart
}

// MaterialCategory каноническая категория материала
type MaterialCategory string

const (
	MaterialSteel          MaterialCategory = "steel"
	MaterialAluminum       MaterialCategory = "aluminum"
	MaterialMagnesiumAlloy MaterialCategory = "magnesium_alloy"
	MaterialComposite      MaterialCategory = "composite"
	MaterialPlastic        MaterialCategory = "plastic"
)

// Title возвращает русское название материала
func (m MaterialCategory) Title() string {
	switch m {
	case MaterialAluminum:
		return "алюминий"
	case MaterialMagnesiumAlloy:
		return "магниевый сплав"
	case MaterialComposite:
		return "композит"
	case MaterialPlastic:
		return "пластик"
	default:
		return "сталь"
	}
}

// Recommendation итоговое решение: ремонт или замена
type Recommendation string

const (
	RecommendRepair  Recommendation = "repair"
	RecommendReplace Recommendation = "replace"
)

// Title возвращает русское название решения
func (r Recommendation) Title() string {
	if r == RecommendRepair {
		return "ремонт"
	}
	return "замена"
}

// Match сопоставление повреждения с деталью
type Match struct {
	Damage      DetectedDamage `json:"damage"`
	DamageIndex int            `json:"damage_index"`
	Part        string         `json:"part_name"`
	PartIndex   int            `json:"part_index"` // -1, если деталь не найдена
	IoU         float64        `json:"iou"`
}

// Matched сообщает, найдена ли деталь для повреждения
func (m Match) Matched() bool {
	return m.PartIndex >= 0
}

// CostedDamage сопоставление, дополненное расчётом стоимости
type CostedDamage struct {
	Match
	Material         string           `json:"material,omitempty"`      // материал из прайса
	DeclaredArea     string           `json:"declared_area,omitempty"` // площадь детали из прайса
	DetectedMaterial MaterialCategory `json:"detected_material"`
	PricedArea       float64          `json:"damage_area_cm2"` // площадь после ограничения, по ней считался ремонт
	RepairCost       int64            `json:"repair_cost"`
	ReplacementCost  int64            `json:"replacement_cost"`
	Recommendation   Recommendation   `json:"recommendation"`
	Savings          int64            `json:"savings"`
	Estimated        bool             `json:"estimated"` // цена замены рассчитана приблизительно
	Link             string           `json:"link,omitempty"`
}

// Totals итог по всем повреждениям
type Totals struct {
	RepairCost      int64          `json:"total_repair_cost"`
	ReplacementCost int64          `json:"total_replacement_cost"`
	Recommendation  Recommendation `json:"overall_recommendation"`
	Savings         int64          `json:"overall_savings"`
}

// Estimate результат оценки по одному изображению
type Estimate struct {
	ID            string         `json:"id"`
	Brand         string         `json:"brand"`
	Model         string         `json:"model"`
	Damages       []CostedDamage `json:"damages"`
	Totals        Totals         `json:"totals"`
	MissingPrices []string       `json:"missing_prices,omitempty"` // детали без цены в прайсе
	CreatedAt     time.Time      `json:"created_at"`
}

// HasDamages флаг наличия повреждений
func (e *Estimate) HasDamages() bool {
	return len(e.Damages) > 0
}
