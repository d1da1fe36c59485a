package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"damage-estimator/internal/domain/entity"
)

type ScraperOpts struct {
	BaseURL string
	Timeout time.Duration
}

// ScraperClient клиент внешнего парсера цен запчастей
type ScraperClient struct {
	httpClient *resty.Client
}

func NewScraperClient(opts ScraperOpts) *ScraperClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &ScraperClient{
		httpClient: resty.New().
			SetBaseURL(opts.BaseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

type parseRequest struct {
	Brand string   `json:"brand"`
	Model string   `json:"model"`
	Parts []string `json:"parts"`
}

type parseResponse struct {
	Records []entity.PartPriceRecord `json:"records"`
}

// Scrape запрашивает цены деталей для марки и модели
func (c *ScraperClient) Scrape(ctx context.Context, brand, model string, parts []string) ([]entity.PartPriceRecord, error) {
	result := &parseResponse{}
	_, err := handleError(c.httpClient.R().
		SetContext(ctx).
		SetBody(parseRequest{Brand: brand, Model: model, Parts: parts}).
		SetResult(result).
		Post("/parse"))
	if err != nil {
		return nil, fmt.Errorf("scrape %s %s: %w", brand, model, err)
	}

	// парсер может не заполнить марку и модель
	for i := range result.Records {
		if result.Records[i].Brand == "" {
			result.Records[i].Brand = brand
		}
		if result.Records[i].Model == "" {
			result.Records[i].Model = model
		}
	}

	return result.Records, nil
}

func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}
