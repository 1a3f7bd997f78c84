package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/middleware"
	"librarium/internal/http-api/models"
	"librarium/internal/http-api/service"
)

type LoanHandler struct {
	loanService service.LoanService
}

func NewLoanHandler(loanService service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.Use(authMW)

	rg.POST("/issue", middleware.RequireLibrarian(), h.Issue)
	rg.POST("/return/:loanId", middleware.RequireLibrarian(), h.Return)
	rg.POST("/payfine/:loanId", middleware.RequireLibrarian(), h.PayFine)
	rg.GET("/all", middleware.RequireLibrarian(), h.AllActive)
	rg.GET("/outstanding-fines", middleware.RequireLibrarian(), h.OutstandingFines)

	rg.POST("/renew/:loanId", middleware.RequireRole(models.RoleStudent, models.RoleTeacher), h.Renew)
	rg.GET("/myloans", h.MyLoans)
	rg.GET("/myhistory", h.MyHistory)
}

func (h *LoanHandler) Issue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var req dto.IssueLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := h.loanService.Issue(ctx, req.UserID, req.BookID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user or book not found"})
		return
	case errors.Is(err, service.ErrBookUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "book not available"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) Return(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	loanID, err := strconv.ParseInt(c.Param("loanId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	loan, err := h.loanService.Return(ctx, loanID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	case errors.Is(err, service.ErrAlreadyReturned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "loan already returned"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) Renew(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	loanID, err := strconv.ParseInt(c.Param("loanId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	loan, err := h.loanService.Renew(ctx, loanID, c.GetString("userID"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	case errors.Is(err, service.ErrNotLoanOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "loan belongs to another user"})
		return
	case errors.Is(err, service.ErrAlreadyReturned), errors.Is(err, service.ErrRenewLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) PayFine(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	loanID, err := strconv.ParseInt(c.Param("loanId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan id"})
		return
	}

	loan, err := h.loanService.PayFine(ctx, loanID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	case errors.Is(err, service.ErrNoFine), errors.Is(err, service.ErrFineAlreadyPaid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) AllActive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	loans, err := h.loanService.AllActive(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) MyLoans(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	loans, err := h.loanService.MyLoans(ctx, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) MyHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	loans, err := h.loanService.MyHistory(ctx, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) OutstandingFines(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	loans, err := h.loanService.OutstandingFines(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loans)
}
