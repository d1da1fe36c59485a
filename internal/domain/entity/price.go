package entity

import "strings"

// PriceKey уникальный ключ записи прайса
type PriceKey struct {
	Brand string
	Model string
	Part  string
}

// NewPriceKey собирает ключ, обрезая пробелы по краям
func NewPriceKey(brand, model, part string) PriceKey {
	return PriceKey{
		Brand: strings.TrimSpace(brand),
		Model: strings.TrimSpace(model),
		Part:  strings.TrimSpace(part),
	}
}

func (k PriceKey) String() string {
	return k.Brand + " / " + k.Model + " / " + k.Part
}

// PartPriceRecord строка прайса: цена замены детали для марки и модели
type PartPriceRecord struct {
	Brand        string `json:"brand" db:"brand"`
	Model        string `json:"model" db:"model"`
	Part         string `json:"part" db:"part"`
	DeclaredArea string `json:"declared_area" db:"declared_area"` // площадь детали как указана в источнике
	Material     string `json:"material" db:"material"`           // материал детали, свободный текст
	Price        int64  `json:"price" db:"price"`                 // цена замены в рублях
	Link         string `json:"link,omitempty" db:"link"`
}

// Key возвращает ключ записи
func (r PartPriceRecord) Key() PriceKey {
	return NewPriceKey(r.Brand, r.Model, r.Part)
}

// HasPrice сообщает, есть ли в записи пригодная цена
func (r PartPriceRecord) HasPrice() bool {
	return r.Price > 0
}
