package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"damage-estimator/internal/domain/entity"
)

// formatReport собирает текстовый отчёт по оценке
func formatReport(e *entity.Estimate) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🚗 %s %s\n", e.Brand, e.Model)
	fmt.Fprintf(&sb, "Найдено повреждений: %d\n", len(e.Damages))

	estimated := false
	for i, d := range e.Damages {
		part := d.Part
		if !entity.IsKnownPart(part) {
			part = "не определена"
		}

		mark := ""
		if d.Estimated {
			mark = "*"
			estimated = true
		}

		fmt.Fprintf(&sb, "\n%d. %s (%s), %s\n", i+1, d.Damage.Type.Title(), d.Damage.Severity.Title(), d.Damage.Location)
		fmt.Fprintf(&sb, "   Деталь: %s, материал: %s, площадь: %.0f см²\n", part, d.DetectedMaterial.Title(), d.PricedArea)
		fmt.Fprintf(&sb, "   Ремонт: %s · Замена: %s%s\n", formatRub(d.RepairCost), formatRub(d.ReplacementCost), mark)
		if d.Recommendation == entity.RecommendRepair {
			fmt.Fprintf(&sb, "   Рекомендация: ремонт (экономия %s)\n", formatRub(d.Savings))
		} else {
			sb.WriteString("   Рекомендация: замена\n")
		}
	}

	t := e.Totals
	sb.WriteString("\n💰 Итого\n")
	fmt.Fprintf(&sb, "Ремонт: %s\n", formatRub(t.RepairCost))
	fmt.Fprintf(&sb, "Замена: %s\n", formatRub(t.ReplacementCost))
	if t.Recommendation == entity.RecommendRepair {
		fmt.Fprintf(&sb, "Общая рекомендация: ремонт, экономия %s\n", formatRub(t.Savings))
	} else {
		sb.WriteString("Общая рекомендация: замена\n")
	}

	if estimated {
		sb.WriteString("\n* цена замены рассчитана приблизительно\n")
	}
	if len(e.MissingPrices) > 0 {
		fmt.Fprintf(&sb, "🔄 Нет цен в прайсе: %s. Цены запрошены, повторите оценку позже.\n", strings.Join(e.MissingPrices, ", "))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatRub форматирует сумму с разделением разрядов: 27 500 ₽
func formatRub(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i])
	}

	if neg {
		return "-" + string(out) + " ₽"
	}
	return string(out) + " ₽"
}
