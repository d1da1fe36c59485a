//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"

	"damage-estimator/internal/domain/entity"
)

func testJPEG(t *testing.T, w, h int, fill color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func TestGoCVHighlighter_Highlight(t *testing.T) {
	detections := &entity.Detections{
		ImageWidth:  200,
		ImageHeight: 200,
		Damages:     []entity.DetectedDamage{{Box: entity.BoundingBox{X1: 20, Y1: 20, X2: 60, Y2: 60}, Type: entity.DamageDent}},
		Parts:       []entity.DetectedPart{{Box: entity.BoundingBox{X1: 10, Y1: 10, X2: 120, Y2: 120}, Name: "Капот"}},
	}
	matches := []entity.Match{{Damage: detections.Damages[0], Part: "Капот", PartIndex: 0, IoU: 0.13}}

	out, err := NewGoCVHighlighter().Highlight(testJPEG(t, 200, 200, color.White), detections, matches)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
}

func TestQualityGate_RejectsSmallAndFlatImages(t *testing.T) {
	gate := NewQualityGate()

	err := gate.CheckQuality(testJPEG(t, 100, 100, color.White))
	require.ErrorIs(t, err, ErrPoorQuality)

	err = gate.CheckQuality(testJPEG(t, 500, 500, color.Gray{Y: 128}))
	require.ErrorIs(t, err, ErrPoorQuality)
}

func TestQualityGate_UndecodableImage(t *testing.T) {
	require.Error(t, NewQualityGate().CheckQuality([]byte("not an image")))
}
