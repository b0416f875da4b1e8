package domain

import "time"

// ISBNLength 馆藏只校验长度，不校验校验位
const ISBNLength = 13

type Book struct {
	ID              string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Author          string    `gorm:"size:200;not null" json:"author"`
	ISBN            string    `gorm:"uniqueIndex;size:13;not null" json:"isbn"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"size:50" json:"category"`
	CoverURL        string    `gorm:"size:255" json:"coverUrl"`
	PublishedDate   time.Time `json:"publishedDate"`
	AvailableCopies int       `gorm:"not null;default:1" json:"availableCopies"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Book) TableName() string { return "books" }

// RatingSummary 按需从评价表聚合得出，不落库
type RatingSummary struct {
	Average float64 `json:"average"` // 保留 1 位小数，无评价为 0
	Count   int64   `json:"count"`
}
