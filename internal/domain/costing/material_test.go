package costing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"damage-estimator/internal/domain/entity"
)

func TestClassifyMaterial(t *testing.T) {
	cases := map[string]entity.MaterialCategory{
		"сталь":                  entity.MaterialSteel,
		"Оцинкованная сталь":     entity.MaterialSteel,
		"":                       entity.MaterialSteel,
		"Алюминий":               entity.MaterialAluminum,
		"aluminium":              entity.MaterialAluminum,
		"магниевый сплав":        entity.MaterialMagnesiumAlloy,
		"легкий сплав":           entity.MaterialMagnesiumAlloy,
		"Композит":               entity.MaterialComposite,
		"карбон":                 entity.MaterialComposite,
		"Carbon fiber":           entity.MaterialComposite,
		"пластик":                entity.MaterialPlastic,
		"полимер ABS":            entity.MaterialPlastic,
		"polypropylene":          entity.MaterialPlastic,
		"нечто непонятное 12345": entity.MaterialSteel,
	}
	for in, want := range cases {
		require.Equal(t, want, ClassifyMaterial(in), in)
	}
}

func TestClassifyMaterial_PriorityOrder(t *testing.T) {
	// алюминий проверяется раньше сплава
	require.Equal(t, entity.MaterialAluminum, ClassifyMaterial("алюминиевый сплав"))
	// сплав раньше композита
	require.Equal(t, entity.MaterialMagnesiumAlloy, ClassifyMaterial("сплав с карбоном"))
	// композит раньше пластика
	require.Equal(t, entity.MaterialComposite, ClassifyMaterial("композит на полимерной основе"))
}

func TestDefaultMaterialForPart(t *testing.T) {
	require.Equal(t, "пластик", DefaultMaterialForPart("Бампер передний"))
	require.Equal(t, "сталь", DefaultMaterialForPart("дверь передняя левая"))
	require.Equal(t, "композит", DefaultMaterialForPart("Фара передняя"))
	require.Equal(t, "сталь", DefaultMaterialForPart(entity.UnknownPart))
}
