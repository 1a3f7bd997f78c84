package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"librarium/internal/http-api/middleware"
	"librarium/internal/http-api/models"
	"librarium/internal/http-api/service"
)

type ReservationHandler struct {
	reservationService service.ReservationService
}

func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.Use(authMW)

	rg.POST("/:bookId", middleware.RequireRole(models.RoleStudent, models.RoleTeacher), h.Create)

	rg.GET("/pending", middleware.RequireLibrarian(), h.Pending)
	rg.POST("/approve/:id", middleware.RequireLibrarian(), h.Approve)
	rg.POST("/reject/:id", middleware.RequireLibrarian(), h.Reject)
}

func (h *ReservationHandler) Create(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	reservation, err := h.reservationService.Create(ctx, c.GetString("userID"), bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *ReservationHandler) Pending(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	reservations, err := h.reservationService.Pending(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) Approve(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	loan, err := h.reservationService.Approve(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	case errors.Is(err, service.ErrReservationNotPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": "reservation already handled"})
		return
	case errors.Is(err, service.ErrBookUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "book not available"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *ReservationHandler) Reject(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	err = h.reservationService.Reject(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	case errors.Is(err, service.ErrReservationNotPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": "reservation already handled"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation rejected"})
}
