//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"damage-estimator/internal/domain/entity"
)

// GoCVEnabled сборка с OpenCV
const GoCVEnabled = false

var errGoCVDisabled = errors.New("gocv build tag is not enabled")

type GoCVHighlighter struct {
	Thickness int
	Quality   int
}

// NewGoCVHighlighter создаёт заглушку (без OpenCV).
func NewGoCVHighlighter() *GoCVHighlighter {
	return &GoCVHighlighter{Thickness: 2, Quality: 90}
}

// Highlight возвращает ошибку, если сборка без тега gocv.
func (h *GoCVHighlighter) Highlight(imageData []byte, detections *entity.Detections, matches []entity.Match) ([]byte, error) {
	return nil, errGoCVDisabled
}

type QualityGate struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

func NewQualityGate() *QualityGate {
	return &QualityGate{
		MinImageSide:          400,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
	}
}

// CheckQuality возвращает ошибку, если сборка без тега gocv.
func (g *QualityGate) CheckQuality(imageData []byte) error {
	return errGoCVDisabled
}
