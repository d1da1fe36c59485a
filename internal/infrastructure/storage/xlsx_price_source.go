package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"damage-estimator/internal/domain/entity"
	"damage-estimator/internal/domain/port"
)

// ErrMissingColumns в таблице нет обязательных колонок
var ErrMissingColumns = errors.New("missing price table columns")

const (
	colBrand    = "марка"
	colModel    = "модель"
	colPart     = "деталь"
	colArea     = "площадь детали"
	colMaterial = "материал детали"
	colPrice    = "цена"
	colLink     = "ссылка"
)

var requiredColumns = []string{colBrand, colModel, colPart, colArea, colMaterial, colPrice}

// XLSXPriceSource читает прайс из первого листа Excel-файла
type XLSXPriceSource struct {
	path string
}

func NewXLSXPriceSource(path string) *XLSXPriceSource {
	return &XLSXPriceSource{path: path}
}

// Load читает все строки прайса. Колонка "ссылка" необязательна.
func (s *XLSXPriceSource) Load(_ context.Context) ([]entity.PartPriceRecord, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: no sheets", s.path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(requiredColumns, ", "))
	}

	records, err := parsePriceRows(rows)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", s.path).Int("records", len(records)).Msg("price table loaded")
	return records, nil
}

func parsePriceRows(rows [][]string) ([]entity.PartPriceRecord, error) {
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]entity.PartPriceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := entity.PartPriceRecord{
			Brand:        cell(row, colBrand),
			Model:        cell(row, colModel),
			Part:         cell(row, colPart),
			DeclaredArea: cell(row, colArea),
			Material:     cell(row, colMaterial),
			Price:        parsePrice(cell(row, colPrice)),
			Link:         cleanLink(cell(row, colLink)),
		}
		if r.Brand == "" && r.Model == "" && r.Part == "" {
			continue
		}
		records = append(records, r)
	}

	return records, nil
}

// parsePrice разбирает цену; нечисловое значение даёт 0 (цена отсутствует)
func parsePrice(s string) int64 {
	s = strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int64(v)
}

func cleanLink(s string) string {
	switch strings.ToLower(s) {
	case "nan", "none":
		return ""
	}
	return s
}

var _ port.PriceSource = (*XLSXPriceSource)(nil)
