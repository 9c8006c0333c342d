package model

import "time"

// Location — серверная модель точки на карте путешествий.
// Фото хранится прямо в БД (bytea), миниатюра — отдельной колонкой.
type Location struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	Title     string  `gorm:"not null" json:"title"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Highlight   string `json:"highlight,omitempty"`
	CountryCode string `json:"country_code,omitempty"`

	ImageData     []byte `gorm:"type:bytea" json:"-"`
	ImageType     string `json:"image_type,omitempty"`
	ThumbnailData []byte `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName фиксирует имя таблицы.
func (Location) TableName() string {
	return "locations"
}
