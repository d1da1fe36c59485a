package port

import (
	"context"

	"damage-estimator/internal/domain/entity"
)

// DamageDetector интерфейс детектора повреждений и деталей
type DamageDetector interface {
	// Detect анализирует изображение и возвращает повреждения и детали
	Detect(ctx context.Context, imageData []byte) (*entity.Detections, error)
}

// DetectionCache кэш результатов детектора по хэшу изображения
type DetectionCache interface {
	// Get возвращает nil без ошибки, если записи нет
	Get(ctx context.Context, imageHash string) (*entity.Detections, error)
	Set(ctx context.Context, imageHash string, detections *entity.Detections) error
}

// Highlighter рисует сопоставления на изображении
type Highlighter interface {
	// Highlight создаёт изображение с подсветкой повреждений и деталей
	Highlight(imageData []byte, detections *entity.Detections, matches []entity.Match) ([]byte, error)
}

// QualityChecker проверяет, пригодно ли фото для анализа
type QualityChecker interface {
	CheckQuality(imageData []byte) error
}
