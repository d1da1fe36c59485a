package costing

import (
	"strings"

	"damage-estimator/internal/domain/entity"
)

const (
	minScratchReplacement   = 10000
	scratchReplacementRatio = 3.0
	otherReplacementRatio   = 2.5
)

type partPrice struct {
	price    int64
	keywords []string
}

// Типичные цены замены для царапин на деталях без записи в прайсе.
var typicalPartPrices = []partPrice{
	{15000, []string{"бампер", "bumper"}},
	{25000, []string{"дверь", "door"}},
	{12000, []string{"крыло", "fender"}},
	{8000, []string{"фара", "headlight"}},
}

// ReplacementCost возвращает цену замены. Если в прайсе нет цены, она оценивается
// по типу детали и стоимости ремонта, и второй результат равен true.
func (m Model) ReplacementCost(record *entity.PartPriceRecord, part string, damageType entity.DamageType, repairCost int64) (int64, bool) {
	if record != nil && record.HasPrice() {
		return record.Price, false
	}

	var estimate float64
	if damageType == entity.DamageScratch {
		estimate = scratchReplacement(part, repairCost)
	} else {
		estimate = float64(repairCost) * otherReplacementRatio
	}

	return RoundUpHundred(estimate), true
}

func scratchReplacement(part string, repairCost int64) float64 {
	s := strings.ToLower(part)
	for _, p := range typicalPartPrices {
		if containsAny(s, p.keywords) {
			return float64(p.price)
		}
	}
	return max(float64(repairCost)*scratchReplacementRatio, minScratchReplacement)
}
