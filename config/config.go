package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string
	LogLevel      string

	Prices    PricesConfig
	Detector  DetectorConfig
	Redis     RedisConfig
	Estimator EstimatorConfig
}

// PricesConfig источник прайса и парсер цен
type PricesConfig struct {
	DBDriver   string
	DBDSN      string
	XLSXPath   string // если задан, каталог читается из Excel, а не из базы
	ScraperURL string // пустой адрес отключает фоновое обновление цен
}

// DetectorConfig сервис инференса
type DetectorConfig struct {
	URL          string
	Confidence   float64
	PixelsPerCM2 float64
	Timeout      time.Duration
}

// RedisConfig кэш детекций; пустой адрес отключает кэш
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// EstimatorConfig параметры сопоставления и расчёта
type EstimatorConfig struct {
	MatchThreshold float64
	MinDamageArea  float64
	MaxDamageArea  float64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Prices: PricesConfig{
			DBDriver:   getEnv("PRICE_DB_DRIVER", "sqlite"),
			DBDSN:      getEnv("PRICE_DB_DSN", "prices.db"),
			XLSXPath:   os.Getenv("PRICES_XLSX"),
			ScraperURL: os.Getenv("SCRAPER_URL"),
		},
		Detector: DetectorConfig{
			URL:          getEnv("INFERENCE_URL", "http://localhost:5000"),
			Confidence:   getEnvFloat("DETECTOR_CONFIDENCE", 0.5),
			PixelsPerCM2: getEnvFloat("PIXELS_PER_CM2", 100),
			Timeout:      getEnvDuration("INFERENCE_TIMEOUT", time.Minute),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("DETECTION_CACHE_TTL", 24*time.Hour),
		},
		Estimator: EstimatorConfig{
			MatchThreshold: getEnvFloat("MATCH_IOU_THRESHOLD", 0.1),
			MinDamageArea:  getEnvFloat("MIN_DAMAGE_AREA", 50),
			MaxDamageArea:  getEnvFloat("MAX_DAMAGE_AREA", 200),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения, без которых расчёт некорректен
func (c *Config) Validate() error {
	var errs []error

	e := c.Estimator
	if e.MinDamageArea < 0 || e.MinDamageArea > e.MaxDamageArea {
		errs = append(errs, fmt.Errorf("damage area bounds [%v, %v] are invalid", e.MinDamageArea, e.MaxDamageArea))
	}
	if e.MatchThreshold < 0 || e.MatchThreshold >= 1 {
		errs = append(errs, fmt.Errorf("MATCH_IOU_THRESHOLD must be in [0, 1), got %v", e.MatchThreshold))
	}
	if c.Detector.Confidence <= 0 || c.Detector.Confidence > 1 {
		errs = append(errs, fmt.Errorf("DETECTOR_CONFIDENCE must be in (0, 1], got %v", c.Detector.Confidence))
	}
	if c.Detector.PixelsPerCM2 <= 0 {
		errs = append(errs, fmt.Errorf("PIXELS_PER_CM2 must be positive, got %v", c.Detector.PixelsPerCM2))
	}
	switch c.Prices.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported PRICE_DB_DRIVER %q", c.Prices.DBDriver))
	}

	return errors.Join(errs...)
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
