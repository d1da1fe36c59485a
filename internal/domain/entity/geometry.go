package entity

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBox прямоугольник не из четырёх конечных координат
var ErrInvalidBox = errors.New("invalid box")

// BoundingBox прямоугольник детекции в пиксельных координатах изображения
type BoundingBox struct {
	X1 float64 `json:"x1"` // левая граница
	Y1 float64 `json:"y1"` // верхняя граница
	X2 float64 `json:"x2"` // правая граница
	Y2 float64 `json:"y2"` // нижняя граница
}

// ParseBoundingBox собирает прямоугольник из среза [x1, y1, x2, y2], как его отдаёт детектор.
func ParseBoundingBox(coords []float64) (BoundingBox, error) {
	if len(coords) != 4 {
		return BoundingBox{}, fmt.Errorf("%w: want 4 coordinates, got %d", ErrInvalidBox, len(coords))
	}
	for _, v := range coords {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return BoundingBox{}, fmt.Errorf("%w: %v", ErrInvalidBox, coords)
		}
	}
	return BoundingBox{X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3]}, nil
}

// Width возвращает ширину; у перевёрнутого прямоугольника она нулевая.
func (b BoundingBox) Width() float64 {
	return positive(b.X2 - b.X1)
}

// Height возвращает высоту; у перевёрнутого прямоугольника она нулевая.
func (b BoundingBox) Height() float64 {
	return positive(b.Y2 - b.Y1)
}

// Area возвращает площадь прямоугольника в пикселях
func (b BoundingBox) Area() float64 {
	return b.Width() * b.Height()
}

// Center возвращает координаты центра прямоугольника
func (b BoundingBox) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// IoU считает отношение площади пересечения к площади объединения.
// Для непересекающихся, вырожденных и перевёрнутых прямоугольников возвращает 0.
func (b BoundingBox) IoU(other BoundingBox) float64 {
	ix := positive(min(b.X2, other.X2) - max(b.X1, other.X1))
	iy := positive(min(b.Y2, other.Y2) - max(b.Y1, other.Y1))
	intersection := ix * iy
	if intersection == 0 {
		return 0
	}

	union := b.Area() + other.Area() - intersection
	if !(union > 0) {
		return 0
	}

	iou := intersection / union
	if iou > 1 {
		return 1
	}
	return iou
}

func positive(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
