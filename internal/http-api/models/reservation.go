package models

import "time"

const (
	ReservationPending  = "Pending"
	ReservationApproved = "Approved"
)

// Reservation is a borrow request awaiting staff approval. Approval spawns
// a loan; rejection deletes the row outright.
type Reservation struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID      int64     `json:"book_id" gorm:"not null;index"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	RequestDate time.Time `json:"request_date" gorm:"not null"`
	Status      string    `json:"status" gorm:"default:'Pending';not null"`

	// Associations
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Reservation) TableName() string {
	return "reservations"
}
