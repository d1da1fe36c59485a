package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

const (
	DefaultConfidence   = 0.5
	DefaultPixelsPerCM2 = 100.0
	// доля площади, если размеры снимка неизвестны
	defaultAreaShare = 0.1
)

// ErrEmptyImage пустые данные изображения
var ErrEmptyImage = errors.New("empty image")

type DetectorOpts struct {
	BaseURL      string
	Confidence   float64
	PixelsPerCM2 float64
	Timeout      time.Duration
}

// HTTPDetector клиент сервиса инференса (YOLO повреждений и деталей)
type HTTPDetector struct {
	httpClient   *resty.Client
	confidence   float64
	pixelsPerCM2 float64
}

func NewHTTPDetector(opts DetectorOpts) *HTTPDetector {
	d := HTTPDetector{
		confidence:   DefaultConfidence,
		pixelsPerCM2: DefaultPixelsPerCM2,
	}
	if opts.Confidence > 0 {
		d.confidence = opts.Confidence
	}
	if opts.PixelsPerCM2 > 0 {
		d.pixelsPerCM2 = opts.PixelsPerCM2
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	d.httpClient = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &d
}

type predictBox struct {
	Box        []float64 `json:"box"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	AreaCM2    *float64  `json:"area_cm2,omitempty"`
	Severity   string    `json:"severity,omitempty"`
}

type predictResponse struct {
	ImageWidth  int          `json:"image_width"`
	ImageHeight int          `json:"image_height"`
	Damages     []predictBox `json:"damages"`
	Parts       []predictBox `json:"parts"`
}

// Detect отправляет фото в сервис инференса и переводит ответ в доменные типы
func (d *HTTPDetector) Detect(ctx context.Context, imageData []byte) (*entity.Detections, error) {
	if len(imageData) == 0 {
		return nil, ErrEmptyImage
	}

	result := &predictResponse{}
	start := time.Now()
	_, err := handleError(d.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetFileReader("file", "photo.jpg", bytes.NewReader(imageData)).
		SetFormData(map[string]string{
			"conf": strconv.FormatFloat(d.confidence, 'f', -1, 64),
		}).
		Post("/predict"))
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	detections, err := d.convert(result)
	if err != nil {
		return nil, fmt.Errorf("inference response: %w", err)
	}
	log.Debug().
		Int("damages", len(detections.Damages)).
		Int("parts", len(detections.Parts)).
		Dur("took", time.Since(start)).
		Msg("inference finished")

	return detections, nil
}

func (d *HTTPDetector) convert(resp *predictResponse) (*entity.Detections, error) {
	detections := &entity.Detections{
		ImageWidth:  resp.ImageWidth,
		ImageHeight: resp.ImageHeight,
		Damages:     make([]entity.DetectedDamage, 0, len(resp.Damages)),
		Parts:       make([]entity.DetectedPart, 0, len(resp.Parts)),
	}

	imageArea := float64(resp.ImageWidth * resp.ImageHeight)
	for i, p := range resp.Damages {
		box, err := entity.ParseBoundingBox(p.Box)
		if err != nil {
			return nil, fmt.Errorf("damage %d: %w", i, err)
		}
		damageType := entity.ParseDamageType(p.Label)

		area := box.Area() / d.pixelsPerCM2
		if p.AreaCM2 != nil {
			area = *p.AreaCM2
		}

		severity := entity.ParseSeverity(p.Severity)
		if p.Severity == "" {
			share := defaultAreaShare
			if imageArea > 0 {
				share = box.Area() / imageArea
			}
			severity = DetermineSeverity(damageType, p.Confidence, share)
		}

		detections.Damages = append(detections.Damages, entity.DetectedDamage{
			Box:        box,
			Type:       damageType,
			Confidence: p.Confidence,
			AreaCM2:    area,
			Severity:   severity,
			Location:   fmt.Sprintf("Область %d", i+1),
		})
	}

	for i, p := range resp.Parts {
		box, err := entity.ParseBoundingBox(p.Box)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		detections.Parts = append(detections.Parts, entity.DetectedPart{
			Box:  box,
			Name: TranslatePart(p.Label),
		})
	}

	return detections, nil
}

// CheckHealth проверяет доступность сервиса инференса
func (d *HTTPDetector) CheckHealth(ctx context.Context) error {
	_, err := handleError(d.httpClient.R().SetContext(ctx).Get("/health"))
	return err
}

// handleError превращает ответ со статусом >399 в ошибку, иначе resty вернёт nil
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}

var _ port.DamageDetector = (*HTTPDetector)(nil)
