package domain

import "time"

const (
	RatingMin = 1
	RatingMax = 5
)

// Review 一本书一个用户至多一条，由 (book_id, user_id) 唯一索引兜底
type Review struct {
	ID     string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	BookID string `gorm:"type:varchar(32);not null;uniqueIndex:uk_reviews_book_user" json:"bookId"`
	UserID string `gorm:"type:varchar(32);not null;uniqueIndex:uk_reviews_book_user" json:"userId"`
	Rating int    `gorm:"not null" json:"rating"`
	Text   string `gorm:"type:text" json:"text"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Book Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string { return "reviews" }

func ValidRating(r int) bool { return r >= RatingMin && r <= RatingMax }
