package costing

import (
	"strings"

	"damage-estimator/internal/domain/entity"
)

type materialRule struct {
	category entity.MaterialCategory
	keywords []string
}

// Правила проверяются сверху вниз, побеждает первое совпадение.
var materialRules = []materialRule{
	{entity.MaterialAluminum, []string{"алюмин", "alumin"}},
	{entity.MaterialMagnesiumAlloy, []string{"магн", "сплав", "magnes", "alloy"}},
	{entity.MaterialComposite, []string{"композит", "карбон", "стеклопластик", "composite", "carbon", "fiberglass"}},
	{entity.MaterialPlastic, []string{"пластик", "полимер", "plastic", "polymer", "polypropylene"}},
}

// ClassifyMaterial приводит описание материала из прайса к категории.
// Любая строка, включая пустую, получает категорию; по умолчанию сталь.
func ClassifyMaterial(raw string) entity.MaterialCategory {
	s := strings.ToLower(raw)
	for _, rule := range materialRules {
		if containsAny(s, rule.keywords) {
			return rule.category
		}
	}
	return entity.MaterialSteel
}

type partMaterialRule struct {
	material string
	keywords []string
}

var partMaterialRules = []partMaterialRule{
	{"пластик", []string{"бампер", "обвес", "решетка", "решётка", "bumper", "grille"}},
	{"сталь", []string{"капот", "дверь", "крыло", "крыша", "hood", "door", "fender", "roof"}},
	{"композит", []string{"фара", "фонарь", "стекло", "оптика", "headlight", "light", "glass"}},
}

// DefaultMaterialForPart подбирает типичный материал детали, когда в прайсе её нет.
func DefaultMaterialForPart(part string) string {
	s := strings.ToLower(part)
	for _, rule := range partMaterialRules {
		if containsAny(s, rule.keywords) {
			return rule.material
		}
	}
	return "сталь"
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
