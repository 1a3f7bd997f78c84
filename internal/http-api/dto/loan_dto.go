package dto

// IssueLoanRequest: payload for a librarian issuing a book over the counter
type IssueLoanRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	BookID int64  `json:"book_id" binding:"required"`
}
