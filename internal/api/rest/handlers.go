package rest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	app "damage-estimator/internal/application"
	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/matching"
	"damage-estimator/internal/domain/port"
	"damage-estimator/internal/infrastructure/pricing"
)

// RefreshStatus источник состояния фонового обновления цен
type RefreshStatus interface {
	Status() pricing.Status
}

// Handler содержит все зависимости для обработки HTTP запросов
type Handler struct {
	estimates *app.EstimateService
	catalog   port.PriceCatalog
	refresher RefreshStatus
}

// NewHandler создает handler; refresher может быть nil
func NewHandler(estimates *app.EstimateService, catalog port.PriceCatalog, refresher RefreshStatus) *Handler {
	return &Handler{
		estimates: estimates,
		catalog:   catalog,
		refresher: refresher,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetBrands(c *gin.Context) {
	brands, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, BrandsResponse{Success: true, Brands: nonNil(brands)})
}

func (h *Handler) GetModels(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	if brand == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Не указана марка"})
		return
	}

	models, err := h.catalog.Models(c.Request.Context(), brand)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsResponse{Success: true, Brand: brand, Models: nonNil(models)})
}

func (h *Handler) GetParts(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	model := strings.TrimSpace(c.Query("model"))
	if brand == "" || model == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Не указаны марка и модель"})
		return
	}

	parts, err := h.catalog.Parts(c.Request.Context(), brand, model)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PartsResponse{Success: true, Parts: nonNil(parts)})
}

func (h *Handler) ParsingStatus(c *gin.Context) {
	if h.refresher == nil {
		c.JSON(http.StatusOK, pricing.Status{})
		return
	}
	c.JSON(http.StatusOK, h.refresher.Status())
}

// EstimatePhoto оценивает повреждения по фото
func (h *Handler) EstimatePhoto(c *gin.Context) {
	var req PhotoEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Некорректный запрос: " + err.Error()})
		return
	}

	photo, err := decodePhoto(req.Photo)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Фото должно быть в base64"})
		return
	}

	out, err := h.estimates.ProcessPhoto(c.Request.Context(), strings.TrimSpace(req.Brand), strings.TrimSpace(req.Model), photo)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := EstimateResponse{Success: true, Estimate: out.Estimate, Summary: out.Summary}
	if len(out.Highlighted) > 0 {
		resp.HighlightedImage = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(out.Highlighted)
	}
	c.JSON(http.StatusOK, resp)
}

// EstimateDetections считает стоимость по готовым детекциям
func (h *Handler) EstimateDetections(c *gin.Context) {
	var req DetectionsEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Некорректный запрос: " + err.Error()})
		return
	}

	estimateReq := app.EstimateRequest{
		Brand:   strings.TrimSpace(req.Brand),
		Model:   strings.TrimSpace(req.Model),
		Damages: make([]entity.DetectedDamage, 0, len(req.Damages)),
		Parts:   make([]entity.DetectedPart, 0, len(req.Parts)),
	}
	for i, d := range req.Damages {
		damage, err := d.toDamage(i)
		if err != nil {
			h.fail(c, fmt.Errorf("damage %d: %w", i, err))
			return
		}
		estimateReq.Damages = append(estimateReq.Damages, damage)
	}
	for i, p := range req.Parts {
		box, err := entity.ParseBoundingBox(p.Box)
		if err != nil {
			h.fail(c, fmt.Errorf("part %d: %w", i, err))
			return
		}
		estimateReq.Parts = append(estimateReq.Parts, entity.DetectedPart{
			Box:  box,
			Name: strings.TrimSpace(p.Name),
		})
	}

	estimate, err := h.estimates.Estimate(c.Request.Context(), estimateReq)
	if err != nil {
		h.fail(c, err)
		return
	}

	matches := make([]entity.Match, 0, len(estimate.Damages))
	for _, d := range estimate.Damages {
		matches = append(matches, d.Match)
	}
	c.JSON(http.StatusOK, EstimateResponse{Success: true, Estimate: estimate, Summary: matching.Summarize(matches)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidDamage),
		errors.Is(err, entity.ErrInvalidBox),
		errors.Is(err, app.ErrBrandModelRequired),
		errors.Is(err, app.ErrEmptyPhoto),
		errors.Is(err, app.ErrPoorPhoto):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrDetectorNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, app.ErrDetectionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodePhoto(s string) ([]byte, error) {
	if i := strings.Index(s, ","); strings.HasPrefix(s, "data:") && i >= 0 {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
