package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeXLSX(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	path := filepath.Join(t.TempDir(), "prices.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXPriceSource_Load(t *testing.T) {
	path := writeXLSX(t, [][]any{
		{"марка", "модель", "деталь", "площадь детали", "материал детали", "цена", "ссылка"},
		{" Toyota ", "Camry", "дверь передняя левая", "1.2", "сталь", 40000, "https://example.com/door"},
		{"Toyota", "Camry", "бампер передний", "0.9", "пластик", "нет данных", "nan"},
		{"Kia", "Rio", "капот", "1.5", "сталь", "21 500", "None"},
	})

	records, err := NewXLSXPriceSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "Toyota", records[0].Brand)
	require.Equal(t, int64(40000), records[0].Price)
	require.Equal(t, "https://example.com/door", records[0].Link)

	require.Equal(t, int64(0), records[1].Price)
	require.False(t, records[1].HasPrice())
	require.Empty(t, records[1].Link)

	require.Equal(t, int64(21500), records[2].Price)
	require.Empty(t, records[2].Link)
}

func TestXLSXPriceSource_LinkColumnOptional(t *testing.T) {
	path := writeXLSX(t, [][]any{
		{"Марка", "Модель", "Деталь", "Площадь детали", "Материал детали", "Цена"},
		{"Lada", "Vesta", "крыло переднее", "0.6", "сталь", 9000},
	})

	records, err := NewXLSXPriceSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Empty(t, records[0].Link)
	require.Equal(t, int64(9000), records[0].Price)
}

func TestXLSXPriceSource_MissingColumns(t *testing.T) {
	path := writeXLSX(t, [][]any{
		{"марка", "модель", "деталь", "цена"},
		{"Lada", "Vesta", "капот", 10000},
	})

	_, err := NewXLSXPriceSource(path).Load(context.Background())
	require.ErrorIs(t, err, ErrMissingColumns)
	require.Contains(t, err.Error(), "площадь детали")
	require.Contains(t, err.Error(), "материал детали")
}

func TestXLSXPriceSource_FileNotFound(t *testing.T) {
	_, err := NewXLSXPriceSource(filepath.Join(t.TempDir(), "absent.xlsx")).Load(context.Background())
	require.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	require.Equal(t, int64(15000), parsePrice("15000"))
	require.Equal(t, int64(15000), parsePrice("15000.9"))
	require.Equal(t, int64(1500), parsePrice("1500,5"))
	require.Equal(t, int64(0), parsePrice(""))
	require.Equal(t, int64(0), parsePrice("-5"))
	require.Equal(t, int64(0), parsePrice("abc"))
}
