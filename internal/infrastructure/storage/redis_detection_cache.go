package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

// DefaultDetectionTTL время жизни результата детекции в кэше
const DefaultDetectionTTL = 24 * time.Hour

// RedisDetectionCache кэш результатов детектора по хэшу изображения
type RedisDetectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDetectionCache подключается к Redis и проверяет соединение
func NewRedisDetectionCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisDetectionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultDetectionTTL
	}

	return &RedisDetectionCache{client: client, ttl: ttl}, nil
}

// Close закрывает соединение с Redis
func (c *RedisDetectionCache) Close() error {
	return c.client.Close()
}

func detectionKey(hash string) string {
	return "detections:" + hash
}

// Get возвращает детекции; при промахе nil без ошибки
func (c *RedisDetectionCache) Get(ctx context.Context, hash string) (*entity.Detections, error) {
	data, err := c.client.Get(ctx, detectionKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var detections entity.Detections
	if err := json.Unmarshal(data, &detections); err != nil {
		return nil, fmt.Errorf("decode cached detections: %w", err)
	}

	return &detections, nil
}

// Set сохраняет детекции
func (c *RedisDetectionCache) Set(ctx context.Context, hash string, detections *entity.Detections) error {
	data, err := json.Marshal(detections)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, detectionKey(hash), data, c.ttl).Err()
}

var _ port.DetectionCache = (*RedisDetectionCache)(nil)
