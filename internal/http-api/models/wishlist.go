package models

import "time"

// WishlistItem is existence-only: the composite key is the whole payload.
type WishlistItem struct {
	UserID  string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	BookID  int64     `gorm:"primaryKey" json:"book_id"`
	AddedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"added_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
