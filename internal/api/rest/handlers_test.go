package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app "damage-estimator/internal/application"
	"damage-estimator/internal/domain/costing"
	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/matching"
	"damage-estimator/internal/infrastructure/pricing"
	"damage-estimator/internal/infrastructure/storage"
)

// MockDetector мок детектора для тестов
type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) Detect(ctx context.Context, imageData []byte) (*entity.Detections, error) {
	args := m.Called(imageData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Detections), args.Error(1)
}

type staticStatus pricing.Status

func (s staticStatus) Status() pricing.Status { return pricing.Status(s) }

func setupRouter(t *testing.T, detector *MockDetector, refresher RefreshStatus) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := storage.NewPriceCatalog(nil)
	catalog.Replace([]entity.PartPriceRecord{
		{Brand: "Toyota", Model: "Camry", Part: "дверь передняя левая", Material: "сталь", Price: 40000},
		{Brand: "Toyota", Model: "Corolla", Part: "капот", Material: "сталь", Price: 30000},
		{Brand: "Kia", Model: "Rio", Part: "капот", Material: "сталь", Price: 20000},
	})

	deps := app.EstimateDeps{Prices: catalog}
	if detector != nil {
		deps.Detector = detector
	}
	svc := app.NewEstimateService(costing.DefaultModel(), matching.DefaultThreshold, deps)

	return NewRouter(NewHandler(svc, catalog, refresher))
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetBrandsAndModels(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := doJSON(router, http.MethodGet, "/api/brands", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var brands BrandsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &brands))
	assert.True(t, brands.Success)
	assert.Equal(t, []string{"Kia", "Toyota"}, brands.Brands)

	w = doJSON(router, http.MethodGet, "/api/models?brand=Toyota", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var models ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &models))
	assert.Equal(t, []string{"Camry", "Corolla"}, models.Models)

	w = doJSON(router, http.MethodGet, "/api/models", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/models?brand=Lada", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"brand":"Lada","models":[]}`, w.Body.String())
}

func TestEstimateDetections(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := doJSON(router, http.MethodPost, "/api/estimate/detections", DetectionsEstimateRequest{
		Brand: "Toyota",
		Model: "Camry",
		Damages: []DamageInput{
			{Box: []float64{0, 0, 100, 100}, Type: "вмятина", Confidence: 0.9, AreaCM2: area(100), Severity: "средний"},
		},
		Parts: []PartInput{{Box: []float64{0, 0, 100, 100}, Name: "дверь передняя левая"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Estimate.Damages, 1)
	assert.Equal(t, "Область 1", resp.Estimate.Damages[0].Damage.Location)
	assert.Equal(t, int64(12500), resp.Estimate.Totals.RepairCost)
	assert.Equal(t, int64(40000), resp.Estimate.Totals.ReplacementCost)
	assert.Equal(t, entity.RecommendRepair, resp.Estimate.Totals.Recommendation)
	assert.Equal(t, 1, resp.Summary.Total)
}

func TestEstimateDetections_InvalidDamage(t *testing.T) {
	router := setupRouter(t, nil, nil)

	w := doJSON(router, http.MethodPost, "/api/estimate/detections", DetectionsEstimateRequest{
		Damages: []DamageInput{{Box: []float64{0, 0, 1, 1}, Type: "dent", Confidence: 1.5, AreaCM2: area(10)}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid damage")
}

func TestEstimateDetections_MalformedInput(t *testing.T) {
	router := setupRouter(t, nil, nil)
	part := PartInput{Box: []float64{0, 0, 100, 100}, Name: "капот"}

	cases := []struct {
		name string
		body DetectionsEstimateRequest
		want string
	}{
		{
			name: "damage without box",
			body: DetectionsEstimateRequest{
				Damages: []DamageInput{{Type: "dent", Confidence: 0.9, AreaCM2: area(100)}},
				Parts:   []PartInput{part},
			},
			want: "damage 0: invalid box",
		},
		{
			name: "damage with two coordinates",
			body: DetectionsEstimateRequest{
				Damages: []DamageInput{{Box: []float64{1, 2}, Type: "dent", Confidence: 0.9, AreaCM2: area(100)}},
				Parts:   []PartInput{part},
			},
			want: "damage 0: invalid box",
		},
		{
			name: "damage without area",
			body: DetectionsEstimateRequest{
				Damages: []DamageInput{{Box: []float64{0, 0, 10, 10}, Type: "dent", Confidence: 0.9}},
				Parts:   []PartInput{part},
			},
			want: "area_cm2 is required",
		},
		{
			name: "part with short box",
			body: DetectionsEstimateRequest{
				Damages: []DamageInput{{Box: []float64{0, 0, 10, 10}, Type: "dent", Confidence: 0.9, AreaCM2: area(100)}},
				Parts:   []PartInput{{Box: []float64{0, 0, 100}, Name: "капот"}},
			},
			want: "part 0: invalid box",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/estimate/detections", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tc.want)
			assert.NotContains(t, w.Body.String(), "repair_cost")
		})
	}
}

func area(v float64) *float64 {
	return &v
}

func TestEstimatePhoto(t *testing.T) {
	detector := new(MockDetector)
	detector.On("Detect", []byte("photo")).Return(&entity.Detections{
		ImageWidth: 640, ImageHeight: 480,
		Damages: []entity.DetectedDamage{{Box: entity.BoundingBox{X2: 50, Y2: 50}, Type: entity.DamageDent, Confidence: 0.8, AreaCM2: 60, Severity: entity.SeverityLight}},
		Parts:   []entity.DetectedPart{{Box: entity.BoundingBox{X2: 60, Y2: 60}, Name: "капот"}},
	}, nil)
	router := setupRouter(t, detector, nil)

	w := doJSON(router, http.MethodPost, "/api/estimate", PhotoEstimateRequest{
		Brand: "Kia",
		Model: "Rio",
		Photo: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("photo")),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Estimate.Damages, 1)
	assert.Equal(t, "капот", resp.Estimate.Damages[0].Part)
	assert.Equal(t, int64(20000), resp.Estimate.Damages[0].ReplacementCost)
	assert.Empty(t, resp.HighlightedImage)
	detector.AssertExpectations(t)
}

func TestEstimatePhoto_Errors(t *testing.T) {
	router := setupRouter(t, nil, nil)
	photo := base64.StdEncoding.EncodeToString([]byte("photo"))

	w := doJSON(router, http.MethodPost, "/api/estimate", PhotoEstimateRequest{Brand: "Kia", Model: "Rio", Photo: photo})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(router, http.MethodPost, "/api/estimate", map[string]string{"brand": "Kia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/estimate", PhotoEstimateRequest{Brand: "Kia", Model: "Rio", Photo: "%%%"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	detector := new(MockDetector)
	detector.On("Detect", mock.Anything).Return(nil, errors.New("inference down"))
	router = setupRouter(t, detector, nil)

	w = doJSON(router, http.MethodPost, "/api/estimate", PhotoEstimateRequest{Brand: "Kia", Model: "Rio", Photo: photo})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestParsingStatus(t *testing.T) {
	router := setupRouter(t, nil, nil)
	w := doJSON(router, http.MethodGet, "/api/parsing-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"in_progress":false,"queued":0,"last_completed":null}`, w.Body.String())

	router = setupRouter(t, nil, staticStatus{InProgress: true, CurrentTask: "Kia Rio", Queued: 1})
	w = doJSON(router, http.MethodGet, "/api/parsing-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"in_progress":true,"current_task":"Kia Rio","queued":1,"last_completed":null}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := setupRouter(t, nil, nil)
	req, _ := http.NewRequest(http.MethodOptions, "/api/brands", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
