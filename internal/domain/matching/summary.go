package matching

import "damage-estimator/internal/domain/entity"

// Summary сводная статистика сопоставления
type Summary struct {
	Total  int                       `json:"total_damages"`
	ByPart map[string]int            `json:"damages_by_part"`
	ByType map[entity.DamageType]int `json:"damages_by_type"`
}

// Summarize считает повреждения по деталям и по типам
func Summarize(matches []entity.Match) Summary {
	s := Summary{
		Total:  len(matches),
		ByPart: make(map[string]int),
		ByType: make(map[entity.DamageType]int),
	}
	for _, m := range matches {
		s.ByPart[m.Part]++
		s.ByType[m.Damage.Type]++
	}
	return s
}
