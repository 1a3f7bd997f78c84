package models

import "time"

// Loan links one book copy to one user for a bounded period.
// Loans are never deleted; returns and renewals mutate them in place.
type Loan struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID       int64      `json:"book_id" gorm:"not null;index"`
	UserID       string     `json:"user_id" gorm:"type:uuid;not null;index"`
	LoanDate     time.Time  `json:"loan_date" gorm:"not null"`
	DueDate      time.Time  `json:"due_date" gorm:"not null"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	FineAmount   float64    `json:"fine_amount" gorm:"type:decimal(10,2);default:0"`
	FinePaid     bool       `json:"fine_paid" gorm:"default:false"`
	RenewalCount int        `json:"renewal_count" gorm:"default:0"`

	// Associations
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Loan) TableName() string {
	return "loans"
}

// Returned reports whether the loan has been closed out.
func (l *Loan) Returned() bool {
	return l.ReturnDate != nil
}
