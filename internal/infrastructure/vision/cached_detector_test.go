package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"damage-estimator/internal/domain/entity"
)

type countingDetector struct {
	calls int
	err   error
}

func (d *countingDetector) Detect(_ context.Context, _ []byte) (*entity.Detections, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &entity.Detections{ImageWidth: 640, ImageHeight: 480}, nil
}

type mapCache struct {
	items  map[string]*entity.Detections
	getErr error
}

func (c *mapCache) Get(_ context.Context, hash string) (*entity.Detections, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.items[hash], nil
}

func (c *mapCache) Set(_ context.Context, hash string, d *entity.Detections) error {
	c.items[hash] = d
	return nil
}

func TestCachedDetector_HitsCacheOnSecondCall(t *testing.T) {
	inner := &countingDetector{}
	cache := &mapCache{items: map[string]*entity.Detections{}}
	detector := NewCachedDetector(inner, cache)

	first, err := detector.Detect(context.Background(), []byte("image"))
	require.NoError(t, err)
	second, err := detector.Detect(context.Background(), []byte("image"))
	require.NoError(t, err)

	require.Equal(t, 1, inner.calls)
	require.Equal(t, first, second)
	require.Contains(t, cache.items, ImageHash([]byte("image")))
}

func TestCachedDetector_CacheErrorFallsThrough(t *testing.T) {
	inner := &countingDetector{}
	cache := &mapCache{items: map[string]*entity.Detections{}, getErr: errors.New("redis down")}

	got, err := NewCachedDetector(inner, cache).Detect(context.Background(), []byte("image"))
	require.NoError(t, err)
	require.Equal(t, 640, got.ImageWidth)
	require.Equal(t, 1, inner.calls)
}

func TestCachedDetector_DetectorErrorNotCached(t *testing.T) {
	inner := &countingDetector{err: errors.New("inference down")}
	cache := &mapCache{items: map[string]*entity.Detections{}}

	_, err := NewCachedDetector(inner, cache).Detect(context.Background(), []byte("image"))
	require.Error(t, err)
	require.Empty(t, cache.items)
}

func TestImageHash(t *testing.T) {
	require.Len(t, ImageHash([]byte("a")), 64)
	require.NotEqual(t, ImageHash([]byte("a")), ImageHash([]byte("b")))
}
