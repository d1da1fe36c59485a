package entity

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidDamage нарушение контракта входных данных детектора
var ErrInvalidDamage = errors.New("invalid damage")

// DamageType тип повреждения
type DamageType string

const (
	DamageDent    DamageType = "dent"    // вмятина
	DamageScratch DamageType = "scratch" // царапина
	DamageTear    DamageType = "tear"    // разрыв, надрыв
	DamageCrack   DamageType = "crack"   // трещина
	DamageChip    DamageType = "chip"    // скол
	DamageBreak   DamageType = "break"   // разлом
	DamageCrush   DamageType = "crush"   // раздавлено
	DamageShatter DamageType = "shatter" // разбито
	DamageBend    DamageType = "bend"    // погнуто
	DamageUnknown DamageType = "unknown"
)

var damageTypeNames = map[string]DamageType{
	"dent":       DamageDent,
	"вмятина":    DamageDent,
	"scratch":    DamageScratch,
	"царапина":   DamageScratch,
	"tear":       DamageTear,
	"rip":        DamageTear,
	"разрыв":     DamageTear,
	"надрыв":     DamageTear,
	"crack":      DamageCrack,
	"трещина":    DamageCrack,
	"chip":       DamageChip,
	"скол":       DamageChip,
	"break":      DamageBreak,
	"разлом":     DamageBreak,
	"crush":      DamageCrush,
	"раздавлено": DamageCrush,
	"shatter":    DamageShatter,
	"разбито":    DamageShatter,
	"bend":       DamageBend,
	"погнуто":    DamageBend,
}

// ParseDamageType приводит метку детектора (английскую или русскую) к типу повреждения.
func ParseDamageType(s string) DamageType {
	if t, ok := damageTypeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return DamageUnknown
}

// Title возвращает русское название для отчётов
func (t DamageType) Title() string {
	switch t {
	case DamageDent:
		return "Вмятина"
	case DamageScratch:
		return "Царапина"
	case DamageTear:
		return "Разрыв"
	case DamageCrack:
		return "Трещина"
	case DamageChip:
		return "Скол"
	case DamageBreak:
		return "Разлом"
	case DamageCrush:
		return "Раздавлено"
	case DamageShatter:
		return "Разбито"
	case DamageBend:
		return "Погнуто"
	default:
		return "Неизвестно"
	}
}

// Severity тяжесть повреждения
type Severity string

const (
	SeverityLight  Severity = "light"
	SeverityMedium Severity = "medium"
	SeverityHeavy  Severity = "heavy"
)

// ParseSeverity разбирает тяжесть; нераспознанное значение считается средней тяжестью.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "minor", "легкий", "лёгкий", "незначительный":
		return SeverityLight
	case "heavy", "major", "тяжелый", "тяжёлый", "серьезный", "серьёзный":
		return SeverityHeavy
	default:
		return SeverityMedium
	}
}

// Title возвращает русское название для отчётов
func (s Severity) Title() string {
	switch s {
	case SeverityLight:
		return "легкий"
	case SeverityHeavy:
		return "тяжелый"
	default:
		return "средний"
	}
}

// DetectedDamage повреждение, найденное детектором
type DetectedDamage struct {
	Box        BoundingBox `json:"box"`
	Type       DamageType  `json:"damage_type"`
	Confidence float64     `json:"confidence"`
	AreaCM2    float64     `json:"area_cm2"`
	Severity   Severity    `json:"severity"`
	Location   string      `json:"location"`
}

// Validate проверяет контракт: площадь конечна и неотрицательна, уверенность в [0, 1].
func (d DetectedDamage) Validate() error {
	if math.IsNaN(d.AreaCM2) || math.IsInf(d.AreaCM2, 0) || d.AreaCM2 < 0 {
		return fmt.Errorf("%w: area_cm2=%v", ErrInvalidDamage, d.AreaCM2)
	}
	if math.IsNaN(d.Confidence) || d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("%w: confidence=%v", ErrInvalidDamage, d.Confidence)
	}
	return nil
}

// DetectedPart деталь автомобиля, найденная детектором
type DetectedPart struct {
	Box  BoundingBox `json:"box"`
	Name string      `json:"part_name"` // каноническое название детали
}

// Detections результат работы детектора по одному изображению
type Detections struct {
	ImageWidth  int              `json:"image_width"`
	ImageHeight int              `json:"image_height"`
	Damages     []DetectedDamage `json:"damages"`
	Parts       []DetectedPart   `json:"parts"`
}
