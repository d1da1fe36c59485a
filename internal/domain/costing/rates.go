package costing

import "damage-estimator/internal/domain/entity"

// Ставки ремонта, руб/см², по категории материала и тяжести.
var baseRates = map[entity.MaterialCategory]map[entity.Severity]float64{
	entity.MaterialSteel:          {entity.SeverityLight: 150, entity.SeverityMedium: 250, entity.SeverityHeavy: 400},
	entity.MaterialAluminum:       {entity.SeverityLight: 200, entity.SeverityMedium: 350, entity.SeverityHeavy: 550},
	entity.MaterialMagnesiumAlloy: {entity.SeverityLight: 300, entity.SeverityMedium: 500, entity.SeverityHeavy: 800},
	entity.MaterialComposite:      {entity.SeverityLight: 400, entity.SeverityMedium: 700, entity.SeverityHeavy: 1200},
}

const (
	plasticDentRate      = 100
	plasticHeavyDentRate = 200
	plasticOtherRate     = 150
)

var materialComplexity = map[entity.MaterialCategory]float64{
	entity.MaterialSteel:          1.0,
	entity.MaterialAluminum:       1.4,
	entity.MaterialMagnesiumAlloy: 2.0,
	entity.MaterialComposite:      2.5,
	entity.MaterialPlastic:        0.8,
}

var damageMultipliers = map[entity.DamageType]map[entity.Severity]float64{
	entity.DamageDent:    {entity.SeverityLight: 0.3, entity.SeverityMedium: 0.5, entity.SeverityHeavy: 0.8},
	entity.DamageScratch: {entity.SeverityLight: 0.2, entity.SeverityMedium: 0.4, entity.SeverityHeavy: 0.7},
	entity.DamageTear:    {entity.SeverityLight: 0.6, entity.SeverityMedium: 0.9, entity.SeverityHeavy: 1.2},
}

// baseRate возвращает ставку за см²; неизвестная тяжесть считается средней.
func baseRate(category entity.MaterialCategory, severity entity.Severity, damageType entity.DamageType) float64 {
	severity = normalizeSeverity(severity)

	if category == entity.MaterialPlastic {
		if damageType != entity.DamageDent {
			return plasticOtherRate
		}
		if severity == entity.SeverityHeavy {
			return plasticHeavyDentRate
		}
		return plasticDentRate
	}

	rates, ok := baseRates[category]
	if !ok {
		rates = baseRates[entity.MaterialSteel]
	}
	return rates[severity]
}

func complexity(category entity.MaterialCategory) float64 {
	if m, ok := materialComplexity[category]; ok {
		return m
	}
	return 1.0
}

// damageMultiplier для типов без таблицы возвращает 1.0
func damageMultiplier(damageType entity.DamageType, severity entity.Severity) float64 {
	bySeverity, ok := damageMultipliers[damageType]
	if !ok {
		return 1.0
	}
	return bySeverity[normalizeSeverity(severity)]
}

func normalizeSeverity(s entity.Severity) entity.Severity {
	switch s {
	case entity.SeverityLight, entity.SeverityMedium, entity.SeverityHeavy:
		return s
	default:
		return entity.SeverityMedium
	}
}
