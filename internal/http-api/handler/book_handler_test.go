package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"librarium/internal/http-api/dto"
	"librarium/internal/http-api/handler"
	"librarium/internal/http-api/models"
	"librarium/internal/http-api/service"
)

// MockBookService mocks the BookService interface
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) ListPage(ctx context.Context, page, pageSize int, categoryID *int64, searchTerm string) (*dto.BookListResponse, error) {
	args := m.Called(ctx, page, pageSize, categoryID, searchTerm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookListResponse), args.Error(1)
}

func (m *MockBookService) ListAll(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, req *dto.CreateBookRequest) (*models.Book, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id int64, req *dto.UpdateBookRequest) (*models.Book, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func mockAuthMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", "testuser")
		c.Set("role", role)
		c.Next()
	}
}

func setupBookRouter(mockService *MockBookService, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewBookHandler(mockService)
	h.RegisterRoutes(r.Group("/api/books"), mockAuthMiddleware("test-user-id", role))
	return r
}

func TestBookHandler_List(t *testing.T) {
	mockService := new(MockBookService)
	r := setupBookRouter(mockService, models.RoleStudent)

	t.Run("DefaultPagination", func(t *testing.T) {
		mockService.On("ListPage", mock.Anything, 1, 10, (*int64)(nil), "").
			Return(&dto.BookListResponse{
				Items:      []models.Book{{ID: 1, Title: "Dune", Author: "Frank Herbert"}},
				Page:       1,
				PageSize:   10,
				Total:      1,
				TotalPages: 1,
			}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/books", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.BookListResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, "Dune", resp.Items[0].Title)
		assert.Equal(t, int64(1), resp.Total)
		mockService.AssertExpectations(t)
	})

	t.Run("WithFilters", func(t *testing.T) {
		catID := int64(3)
		mockService.On("ListPage", mock.Anything, 2, 25, &catID, "dune").
			Return(&dto.BookListResponse{Items: []models.Book{}, Page: 2, PageSize: 25}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/books?page=2&page_size=25&category_id=3&search=dune", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCategoryID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/books?category_id=abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "ListPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "abc")
	})
}

func TestBookHandler_Get(t *testing.T) {
	mockService := new(MockBookService)
	r := setupBookRouter(mockService, models.RoleStudent)

	t.Run("Success", func(t *testing.T) {
		mockService.On("Get", mock.Anything, int64(7)).
			Return(&models.Book{ID: 7, Title: "Hyperion", Author: "Dan Simmons"}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/books/7", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var book models.Book
		json.Unmarshal(w.Body.Bytes(), &book)
		assert.Equal(t, "Hyperion", book.Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("Get", mock.Anything, int64(999)).Return(nil, gorm.ErrRecordNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/books/999", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/books/notanumber", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService, models.RoleLibrarian)

		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req *dto.CreateBookRequest) bool {
			return req.Title == "Dune" && req.Quantity == 4
		})).Return(&models.Book{ID: 1, Title: "Dune", Quantity: 4}, nil).Once()

		body, _ := json.Marshal(dto.CreateBookRequest{Title: "Dune", Author: "Frank Herbert", Quantity: 4})
		req, _ := http.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationError", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService, models.RoleLibrarian)

		// Title is required
		body, _ := json.Marshal(dto.CreateBookRequest{Author: "Frank Herbert"})
		req, _ := http.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ForbiddenForStudents", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService, models.RoleStudent)

		body, _ := json.Marshal(dto.CreateBookRequest{Title: "Dune", Author: "Frank Herbert"})
		req, _ := http.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBookHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService, models.RoleLibrarian)

		mockService.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/books/5", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ConflictWhenOnLoan", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService, models.RoleLibrarian)

		mockService.On("Delete", mock.Anything, int64(5)).Return(service.ErrBookOnLoan).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/books/5", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
