package costing

import "damage-estimator/internal/domain/entity"

// Price рассчитывает стоимость одного сопоставленного повреждения.
// record может быть nil: тогда материал берётся по типу детали,
// а цена замены оценивается приблизительно.
func (m Model) Price(match entity.Match, record *entity.PartPriceRecord) entity.CostedDamage {
	damage := match.Damage
	known := record != nil && record.HasPrice()

	material := DefaultMaterialForPart(match.Part)
	if known {
		material = record.Material
	}

	repair, category := m.RepairCost(damage.AreaCM2, material, damage.Severity, damage.Type)
	replacement, estimated := m.ReplacementCost(record, match.Part, damage.Type, repair)
	if known {
		repair = CapRepair(repair, category, damage.Severity, replacement)
	}

	decision, savings := Recommend(repair, replacement)

	costed := entity.CostedDamage{
		Match:            match,
		DetectedMaterial: category,
		PricedArea:       m.ClampArea(damage.AreaCM2),
		RepairCost:       repair,
		ReplacementCost:  replacement,
		Recommendation:   decision,
		Savings:          savings,
		Estimated:        estimated,
	}
	if known {
		costed.Material = record.Material
		costed.DeclaredArea = record.DeclaredArea
		costed.Link = record.Link
	}
	return costed
}
