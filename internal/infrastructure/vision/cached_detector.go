package vision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

// CachedDetector кэширует ответы детектора по sha256 изображения.
// Ошибки кэша не прерывают детекцию.
type CachedDetector struct {
	detector port.DamageDetector
	cache    port.DetectionCache
}

func NewCachedDetector(detector port.DamageDetector, cache port.DetectionCache) *CachedDetector {
	return &CachedDetector{detector: detector, cache: cache}
}

func ImageHash(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return hex.EncodeToString(sum[:])
}

func (c *CachedDetector) Detect(ctx context.Context, imageData []byte) (*entity.Detections, error) {
	hash := ImageHash(imageData)

	cached, err := c.cache.Get(ctx, hash)
	if err != nil {
		log.Warn().Err(err).Str("hash", hash).Msg("detection cache read failed")
	} else if cached != nil {
		log.Debug().Str("hash", hash).Msg("detection cache hit")
		return cached, nil
	}

	detections, err := c.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, hash, detections); err != nil {
		log.Warn().Err(err).Str("hash", hash).Msg("detection cache write failed")
	}

	return detections, nil
}

var _ port.DamageDetector = (*CachedDetector)(nil)
