package vision

import (
	"strings"

	"damage-estimator/internal/domain/entity"
)

// UndefinedPart название для меток, которых нет в словаре деталей
const UndefinedPart = entity.UndefinedPart

var partNames = map[string]string{
	"back_bumper":       "Бампер задний",
	"front_bumper":      "Бампер передний",
	"back_door":         "Дверь задняя",
	"back_left_door":    "Дверь задняя",
	"back_right_door":   "Дверь задняя",
	"front_door":        "Дверь передняя",
	"front_left_door":   "Дверь передняя",
	"front_right_door":  "Дверь передняя",
	"back_glass":        "Стекло заднее",
	"front_glass":       "Стекло лобовое",
	"left_mirror":       "Зеркало левое",
	"right_mirror":      "Зеркало правое",
	"hood":              "Капот",
	"tailgate":          "Крышка багажника",
	"trunk":             "Багажник",
	"back_light":        "Фонарь задний",
	"back_left_light":   "Фонарь задний",
	"back_right_light":  "Фонарь задний",
	"front_light":       "Фара передняя",
	"front_left_light":  "Фара передняя",
	"front_right_light": "Фара передняя",
	"object":            UndefinedPart,
	"wheel":             "Колесо",
}

// TranslatePart переводит метку детали YOLO в русское название
func TranslatePart(label string) string {
	if name, ok := partNames[strings.ToLower(strings.TrimSpace(label))]; ok {
		return name
	}
	return UndefinedPart
}

var severityWeights = map[entity.DamageType]float64{
	entity.DamageScratch: 1.0,
	entity.DamageDent:    1.5,
	entity.DamageCrack:   2.0,
	entity.DamageBreak:   2.5,
	entity.DamageChip:    1.2,
}

// DetermineSeverity оценивает тяжесть по типу, уверенности и доле площади повреждения на снимке
func DetermineSeverity(t entity.DamageType, confidence, areaShare float64) entity.Severity {
	weight, ok := severityWeights[t]
	if !ok {
		weight = 1.0
	}

	score := confidence * areaShare * weight
	switch {
	case score > 0.6:
		return entity.SeverityHeavy
	case score > 0.3:
		return entity.SeverityMedium
	default:
		return entity.SeverityLight
	}
}
