package dto

import (
	"time"

	"librarium/internal/http-api/models"
)

// CreateBookRequest: payload to add a catalog entry
type CreateBookRequest struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Author        string     `json:"author" binding:"required,max=255"`
	ISBN          string     `json:"isbn"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Quantity      int        `json:"quantity" binding:"min=0"`
	CategoryID    *int64     `json:"category_id,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
}

// UpdateBookRequest: payload to replace a catalog entry's fields
type UpdateBookRequest struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Author        string     `json:"author" binding:"required,max=255"`
	ISBN          string     `json:"isbn"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Quantity      int        `json:"quantity" binding:"min=0"`
	CategoryID    *int64     `json:"category_id,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
}

// BookListResponse: one page of the catalog
type BookListResponse struct {
	Items      []models.Book `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// CategoryRequest: payload to create or rename a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}
