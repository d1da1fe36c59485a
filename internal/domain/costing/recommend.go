package costing

import "damage-estimator/internal/domain/entity"

// Recommend выбирает ремонт, если он дешевле 70% цены замены.
// Экономия считается только для ремонта.
func Recommend(repairCost, replacementCost int64) (entity.Recommendation, int64) {
	// repair < 0.7 * replacement без плавающей точки
	if repairCost*10 < replacementCost*7 {
		return entity.RecommendRepair, replacementCost - repairCost
	}
	return entity.RecommendReplace, 0
}

// Aggregate суммирует стоимости. Общее решение принимается простым сравнением сумм,
// без порога 70%, который используется для отдельных повреждений.
func Aggregate(damages []entity.CostedDamage) entity.Totals {
	var t entity.Totals
	for _, d := range damages {
		t.RepairCost += d.RepairCost
		t.ReplacementCost += d.ReplacementCost
	}

	t.Recommendation = entity.RecommendReplace
	if t.RepairCost < t.ReplacementCost {
		t.Recommendation = entity.RecommendRepair
		t.Savings = t.ReplacementCost - t.RepairCost
	}
	return t
}
