package models

import "time"

// Review holds one rating + comment per (user, book) pair.
type Review struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID     int64     `json:"book_id" gorm:"not null;uniqueIndex:idx_reviews_user_book"`
	UserID     string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_book"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment" gorm:"size:2000"`
	DatePosted time.Time `json:"date_posted" gorm:"autoCreateTime"`

	// Associations
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Review) TableName() string {
	return "reviews"
}
