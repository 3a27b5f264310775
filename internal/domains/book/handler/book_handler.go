package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"librarylite/internal/domains/book/model"
	"librarylite/internal/domains/book/service"
	"librarylite/internal/shared/middleware"
	"librarylite/internal/shared/response"
)

// Handler - JSON API cho Book records
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{
		service: service,
	}
}

// ListBooks - GET /books
func (h *Handler) ListBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetBook - GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, model.NewValidationError(err))
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// UpdateBook - PUT /books/:id (ghi đè toàn bộ field)
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, model.NewValidationError(err))
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// DeleteBook - DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	resp, err := h.service.DeleteBook(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// bindID parses :id; non-integer ids are rejected with 422 before any storage access.
func bindID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.UnprocessableEntity(c, "Invalid book id", map[string]string{
			"id": "id must be an integer",
		})
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		response.UnprocessableEntity(c, model.ToErrorMessage(err), ve.Fields)
		return
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("book request failed")
	}

	response.ErrorResponse(c, status, model.ToErrorCode(err), model.ToErrorMessage(err))
}
