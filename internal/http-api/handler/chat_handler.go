package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/service"
)

// llmTimeout is longer than the general request timeout because model
// completions routinely take several seconds.
const llmTimeout = 30 * time.Second

type ChatHandler struct {
	recommendService service.RecommendService
}

func NewChatHandler(recommendService service.RecommendService) *ChatHandler {
	return &ChatHandler{recommendService: recommendService}
}

// RegisterRoutes wires the chatbot and recommendation endpoints. The two
// route groups are registered together because both sit on the same service.
func (h *ChatHandler) RegisterRoutes(chatbot, recommendations *gin.RouterGroup, authMW gin.HandlerFunc) {
	chatbot.POST("/query", authMW, h.Query)
	recommendations.GET("/:bookId", h.Recommend)
}

func (h *ChatHandler) Query(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), llmTimeout)
	defer cancel()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Chat never errors; model failures come back as the canned reply.
	c.JSON(http.StatusOK, dto.ChatResponse{Reply: h.recommendService.Chat(ctx, req.Message)})
}

func (h *ChatHandler) Recommend(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), llmTimeout)
	defer cancel()

	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	books, err := h.recommendService.Recommend(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}
