//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

// GoCVEnabled сборка с OpenCV
const GoCVEnabled = true

var (
	partColor   = color.RGBA{G: 255, A: 255}
	damageColor = color.RGBA{R: 255, A: 255}
	linkColor   = color.RGBA{R: 255, G: 200, A: 255}
)

type GoCVHighlighter struct {
	Thickness int
	Quality   int
}

func NewGoCVHighlighter() *GoCVHighlighter {
	return &GoCVHighlighter{Thickness: 2, Quality: 90}
}

// Highlight рисует детали зелёным, повреждения красным и соединяет центры сопоставленных пар.
func (h *GoCVHighlighter) Highlight(imageData []byte, detections *entity.Detections, matches []entity.Match) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, part := range detections.Parts {
		gocv.Rectangle(&mat, toRect(part.Box), partColor, h.Thickness)
	}

	for i, damage := range detections.Damages {
		rect := toRect(damage.Box)
		gocv.Rectangle(&mat, rect, damageColor, h.Thickness)
		label := fmt.Sprintf("%d %s", i+1, damage.Type)
		gocv.PutText(&mat, label, image.Pt(rect.Min.X, maxInt(rect.Min.Y-5, 10)), gocv.FontHersheySimplex, 0.5, damageColor, 1)
	}

	for _, m := range matches {
		if !m.Matched() || m.PartIndex >= len(detections.Parts) {
			continue
		}
		gocv.Line(&mat, center(m.Damage.Box), center(detections.Parts[m.PartIndex].Box), linkColor, 1)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: h.Quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// QualityGate отсеивает снимки, на которых детектор заведомо ошибётся.
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

// CheckQuality проверяет размер, резкость, экспозицию и блики.
func (g *QualityGate) CheckQuality(imageData []byte) error {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return err
	}
	defer mat.Close()

	if mat.Cols() < g.MinImageSide || mat.Rows() < g.MinImageSide {
		return fmt.Errorf("%w: image is too small (%dx%d)", ErrPoorQuality, mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if r := ratioOfMask(edges); r < g.MinSharpnessEdgeRatio {
		return fmt.Errorf("%w: image is blurry (edge_ratio=%.4f)", ErrPoorQuality, r)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > g.MaxOverexposedRatio {
		return fmt.Errorf("%w: overexposed image (ratio=%.4f)", ErrPoorQuality, r)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > g.MaxUnderexposedRatio {
		return fmt.Errorf("%w: underexposed image (ratio=%.4f)", ErrPoorQuality, r)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return fmt.Errorf("%w: invalid hsv channels", ErrPoorQuality)
	}

	// блик: низкая насыщенность при высокой яркости
	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if r := ratioOfMask(glare); r > g.MaxGlareRatio {
		return fmt.Errorf("%w: too much glare (ratio=%.4f)", ErrPoorQuality, r)
	}

	return nil
}

func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func toRect(b entity.BoundingBox) image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
}

func center(b entity.BoundingBox) image.Point {
	x, y := b.Center()
	return image.Pt(int(x), int(y))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

var (
	_ port.Highlighter    = (*GoCVHighlighter)(nil)
	_ port.QualityChecker = (*QualityGate)(nil)
)
