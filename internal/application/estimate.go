package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"damage-estimator/internal/domain/costing"
	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/matching"
	"damage-estimator/internal/domain/port"
)

var (
	ErrDetectorNotConfigured = errors.New("detector is not configured")
	ErrBrandModelRequired    = errors.New("brand and model are required")
	ErrEmptyPhoto            = errors.New("photo is empty")
	ErrDetectionFailed       = errors.New("detection failed")
	ErrPoorPhoto             = errors.New("photo is not suitable for analysis")
)

// EstimateRequest повреждения и детали одного снимка
type EstimateRequest struct {
	Brand   string
	Model   string
	Damages []entity.DetectedDamage
	Parts   []entity.DetectedPart
}

// PhotoEstimate результат оценки фото с подсветкой
type PhotoEstimate struct {
	Estimate    *entity.Estimate
	Detections  *entity.Detections
	Summary     matching.Summary
	Highlighted []byte
}

// EstimateDeps зависимости сервиса; всё, кроме Prices, необязательно
type EstimateDeps struct {
	Prices      port.PriceLookup
	Detector    port.DamageDetector
	Highlighter port.Highlighter
	Quality     port.QualityChecker
	Refresher   port.PriceRefresher
}

type EstimateService struct {
	model     costing.Model
	threshold float64
	deps      EstimateDeps
}

// NewEstimateService создаёт сервис оценки стоимости ремонта.
func NewEstimateService(model costing.Model, threshold float64, deps EstimateDeps) *EstimateService {
	return &EstimateService{model: model, threshold: threshold, deps: deps}
}

// Estimate сопоставляет повреждения с деталями и считает стоимость ремонта и замены.
// При нарушении контракта входных данных частичный результат не возвращается.
func (s *EstimateService) Estimate(ctx context.Context, req EstimateRequest) (*entity.Estimate, error) {
	for i, d := range req.Damages {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("damage %d: %w", i, err)
		}
	}

	matches := matching.Match(req.Damages, req.Parts, s.threshold)

	estimate := &entity.Estimate{
		ID:        uuid.NewString(),
		Brand:     req.Brand,
		Model:     req.Model,
		Damages:   make([]entity.CostedDamage, 0, len(matches)),
		CreatedAt: time.Now(),
	}

	missing := make(map[string]bool)
	for _, m := range matches {
		record := s.lookup(ctx, req.Brand, req.Model, m.Part)
		if record == nil && entity.IsKnownPart(m.Part) && !missing[m.Part] {
			missing[m.Part] = true
			estimate.MissingPrices = append(estimate.MissingPrices, m.Part)
		}
		estimate.Damages = append(estimate.Damages, s.model.Price(m, record))
	}
	estimate.Totals = costing.Aggregate(estimate.Damages)

	if len(estimate.MissingPrices) > 0 && s.deps.Refresher != nil && req.Brand != "" && req.Model != "" {
		s.deps.Refresher.RequestRefresh(req.Brand, req.Model, estimate.MissingPrices)
	}

	return estimate, nil
}

// lookup возвращает запись прайса с пригодной ценой или nil
func (s *EstimateService) lookup(ctx context.Context, brand, model, part string) *entity.PartPriceRecord {
	if s.deps.Prices == nil || !entity.IsKnownPart(part) {
		return nil
	}

	key := entity.NewPriceKey(brand, model, part)
	record, ok, err := s.deps.Prices.GetPrice(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("price lookup failed, falling back to estimate")
		return nil
	}
	if !ok || !record.HasPrice() {
		return nil
	}
	return &record
}

// ProcessPhoto прогоняет фото через детектор, оценивает повреждения и рисует подсветку.
func (s *EstimateService) ProcessPhoto(ctx context.Context, brand, model string, photo []byte) (*PhotoEstimate, error) {
	if s.deps.Detector == nil {
		return nil, ErrDetectorNotConfigured
	}
	if brand == "" || model == "" {
		return nil, ErrBrandModelRequired
	}
	if len(photo) == 0 {
		return nil, ErrEmptyPhoto
	}

	if s.deps.Quality != nil {
		if err := s.deps.Quality.CheckQuality(photo); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPoorPhoto, err)
		}
	}

	detections, err := s.deps.Detector.Detect(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetectionFailed, err)
	}

	estimate, err := s.Estimate(ctx, EstimateRequest{
		Brand:   brand,
		Model:   model,
		Damages: detections.Damages,
		Parts:   detections.Parts,
	})
	if err != nil {
		return nil, err
	}

	matches := make([]entity.Match, 0, len(estimate.Damages))
	for _, d := range estimate.Damages {
		matches = append(matches, d.Match)
	}

	out := &PhotoEstimate{
		Estimate:   estimate,
		Detections: detections,
		Summary:    matching.Summarize(matches),
	}

	if s.deps.Highlighter != nil && (len(detections.Damages) > 0 || len(detections.Parts) > 0) {
		out.Highlighted, err = s.deps.Highlighter.Highlight(photo, detections, matches)
		if err != nil {
			log.Warn().Err(err).Str("estimate_id", estimate.ID).Msg("highlight failed")
			out.Highlighted = nil
		}
	}

	log.Info().
		Str("estimate_id", estimate.ID).
		Str("brand", brand).
		Str("model", model).
		Int("damages", len(estimate.Damages)).
		Int64("repair", estimate.Totals.RepairCost).
		Int64("replacement", estimate.Totals.ReplacementCost).
		Msg("photo estimated")

	return out, nil
}
