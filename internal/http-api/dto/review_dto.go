package dto

import "librarium/internal/http-api/models"

// CreateReviewRequest: payload to review a previously borrowed book
type CreateReviewRequest struct {
	BookID  int64  `json:"book_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewListResponse: all reviews for a book plus the mean rating
type ReviewListResponse struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
}
