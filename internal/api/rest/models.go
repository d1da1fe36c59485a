package rest

import (
	"fmt"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/matching"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type BrandsResponse struct {
	Success bool     `json:"success"`
	Brands  []string `json:"brands"`
}

type ModelsResponse struct {
	Success bool     `json:"success"`
	Brand   string   `json:"brand"`
	Models  []string `json:"models"`
}

type PartsResponse struct {
	Success bool     `json:"success"`
	Parts   []string `json:"parts"`
}

// PhotoEstimateRequest фото в base64, допускается префикс data:image/...;base64,
type PhotoEstimateRequest struct {
	Brand string `json:"brand" binding:"required"`
	Model string `json:"model" binding:"required"`
	Photo string `json:"photo" binding:"required"`
}

type DamageInput struct {
	Box        []float64 `json:"box"`
	Type       string    `json:"damage_type"`
	Confidence float64   `json:"confidence"`
	AreaCM2    *float64  `json:"area_cm2"`
	Severity   string    `json:"severity"`
	Location   string    `json:"location"`
}

// toDamage переводит вход в доменное повреждение; box и area_cm2 обязательны
func (d DamageInput) toDamage(index int) (entity.DetectedDamage, error) {
	box, err := entity.ParseBoundingBox(d.Box)
	if err != nil {
		return entity.DetectedDamage{}, err
	}
	if d.AreaCM2 == nil {
		return entity.DetectedDamage{}, fmt.Errorf("%w: area_cm2 is required", entity.ErrInvalidDamage)
	}

	location := d.Location
	if location == "" {
		location = fmt.Sprintf("Область %d", index+1)
	}
	return entity.DetectedDamage{
		Box:        box,
		Type:       entity.ParseDamageType(d.Type),
		Confidence: d.Confidence,
		AreaCM2:    *d.AreaCM2,
		Severity:   entity.ParseSeverity(d.Severity),
		Location:   location,
	}, nil
}

type PartInput struct {
	Box  []float64 `json:"box"`
	Name string    `json:"part_name"`
}

// DetectionsEstimateRequest готовые детекции без вызова детектора
type DetectionsEstimateRequest struct {
	Brand   string        `json:"brand"`
	Model   string        `json:"model"`
	Damages []DamageInput `json:"damages"`
	Parts   []PartInput   `json:"parts"`
}

type EstimateResponse struct {
	Success          bool             `json:"success"`
	Estimate         *entity.Estimate `json:"estimate"`
	Summary          matching.Summary `json:"summary"`
	HighlightedImage string           `json:"highlighted_image,omitempty"`
}
