package domain

import "time"

type User struct {
	ID           string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	FirstName    string `gorm:"size:64" json:"firstName"`
	LastName     string `gorm:"size:64" json:"lastName"`
	IsStaff      bool   `gorm:"not null;default:false" json:"isStaff"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

// Profile 与用户一一对应，注册时随用户在同一事务内创建
type Profile struct {
	ID          string     `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UserID      string     `gorm:"uniqueIndex;type:varchar(32);not null" json:"userId"`
	Phone       string     `gorm:"size:15" json:"phone"`
	Address     string     `gorm:"type:text" json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	PictureURL  string     `gorm:"size:255" json:"pictureUrl"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Profile) TableName() string { return "profiles" }
