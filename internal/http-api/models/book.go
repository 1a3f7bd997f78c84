package models

import "time"

type Book struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" gorm:"not null;index"`
	Author        string     `json:"author" gorm:"not null"`
	ISBN          string     `json:"isbn"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Quantity      int        `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	CategoryID    *int64     `json:"category_id,omitempty" gorm:"index"`
	Description   *string    `json:"description,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`

	// association
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Book) TableName() string {
	return "books"
}
