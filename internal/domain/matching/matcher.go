package matching

import "damage-estimator/internal/domain/entity"

// DefaultThreshold минимальный IoU, при котором повреждение относится к детали
const DefaultThreshold = 0.1

// Match сопоставляет каждое повреждение с деталью, которую оно перекрывает сильнее всего.
// Деталь принимается, если её IoU строго больше порога и строго больше лучшего найденного,
// поэтому при равенстве остаётся первая по порядку деталь.
// Результат всегда той же длины, что и damages, и в том же порядке.
func Match(damages []entity.DetectedDamage, parts []entity.DetectedPart, threshold float64) []entity.Match {
	matches := make([]entity.Match, 0, len(damages))

	for i, damage := range damages {
		m := entity.Match{
			Damage:      damage,
			DamageIndex: i,
			Part:        entity.UnknownPart,
			PartIndex:   -1,
		}

		for j, part := range parts {
			iou := damage.Box.IoU(part.Box)
			if iou > m.IoU && iou > threshold {
				m.IoU = iou
				m.Part = part.Name
				m.PartIndex = j
			}
		}

		matches = append(matches, m)
	}

	return matches
}
