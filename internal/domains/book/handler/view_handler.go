package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"librarylite/internal/domains/book/model"
	"librarylite/internal/domains/book/service"
	"librarylite/internal/shared/middleware"
)

const notFoundNotice = "Book not found"

// ViewHandler - server-rendered HTML pages trên cùng service với JSON API
type ViewHandler struct {
	service service.ServiceInterface
}

func NewViewHandler(service service.ServiceInterface) *ViewHandler {
	return &ViewHandler{
		service: service,
	}
}

// bookForm mirrors the HTML form; every field arrives as text.
type bookForm struct {
	Title       string `form:"title"`
	Author      string `form:"author"`
	Year        string `form:"year"`
	Description string `form:"description"`
}

func formFromBook(b *model.Book) bookForm {
	f := bookForm{Title: b.Title, Author: b.Author}
	if b.Year != nil {
		f.Year = strconv.Itoa(*b.Year)
	}
	if b.Description != nil {
		f.Description = *b.Description
	}
	return f
}

// toRequest converts form text to a request. Blank year and description
// become absent; a non-numeric year is a validation error.
func (f bookForm) toRequest() (model.CreateBookRequest, error) {
	req := model.CreateBookRequest{
		Title:  f.Title,
		Author: f.Author,
	}

	if y := strings.TrimSpace(f.Year); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return req, &model.ValidationError{Fields: map[string]string{
				"year": "year must be an integer",
			}}
		}
		req.Year = &year
	}

	if strings.TrimSpace(f.Description) != "" {
		desc := f.Description
		req.Description = &desc
	}
	return req, nil
}

// Home - GET /
func (h *ViewHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Home"})
}

// List - GET /ui/books
func (h *ViewHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

// New - GET /ui/books/new
func (h *ViewHandler) New(c *gin.Context) {
	h.renderNew(c, http.StatusOK, bookForm{}, nil)
}

// Create - POST /ui/books
func (h *ViewHandler) Create(c *gin.Context) {
	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderNew(c, http.StatusUnprocessableEntity, form, model.NewValidationError(err).Fields)
		return
	}

	req, err := form.toRequest()
	if err == nil {
		var book *model.Book
		book, err = h.service.CreateBook(c.Request.Context(), req)
		if err == nil {
			c.Redirect(http.StatusSeeOther, detailPath(book.ID))
			return
		}
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		h.renderNew(c, http.StatusUnprocessableEntity, form, ve.Fields)
		return
	}
	h.renderError(c, err)
}

// Detail - GET /ui/books/:id
func (h *ViewHandler) Detail(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.HTML(http.StatusOK, "book_detail.html", gin.H{
		"Title": book.Title,
		"Book":  book,
	})
}

// Edit - GET /ui/books/:id/edit
func (h *ViewHandler) Edit(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.renderEdit(c, http.StatusOK, id, formFromBook(book), nil)
}

// Update - POST /ui/books/:id/edit
func (h *ViewHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderEdit(c, http.StatusUnprocessableEntity, id, form, model.NewValidationError(err).Fields)
		return
	}

	req, err := form.toRequest()
	if err == nil {
		_, err = h.service.UpdateBook(c.Request.Context(), id, req)
		if err == nil {
			c.Redirect(http.StatusSeeOther, detailPath(id))
			return
		}
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		h.renderEdit(c, http.StatusUnprocessableEntity, id, form, ve.Fields)
		return
	}
	h.handleError(c, err)
}

// Delete - POST /ui/books/:id/delete
func (h *ViewHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if _, err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/ui/books")
}

// bindID treats a malformed id like a missing record.
func (h *ViewHandler) bindID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.renderList(c, http.StatusNotFound, notFoundNotice)
		return 0, false
	}
	return id, true
}

func (h *ViewHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrBookNotFound) {
		h.renderList(c, http.StatusNotFound, notFoundNotice)
		return
	}
	h.renderError(c, err)
}

func (h *ViewHandler) renderList(c *gin.Context, status int, message string) {
	books, err := h.service.ListBooks(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(status, "books_list.html", gin.H{
		"Title":   "Books",
		"Message": message,
		"Books":   books,
	})
}

func (h *ViewHandler) renderNew(c *gin.Context, status int, form bookForm, errs map[string]string) {
	c.HTML(status, "book_new.html", gin.H{
		"Title":  "Add a book",
		"Form":   form,
		"Errors": errs,
	})
}

func (h *ViewHandler) renderEdit(c *gin.Context, status int, id int64, form bookForm, errs map[string]string) {
	c.HTML(status, "book_edit.html", gin.H{
		"Title":  "Edit book",
		"ID":     id,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *ViewHandler) renderError(c *gin.Context, err error) {
	_ = c.Error(err)
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Msg("book page failed")

	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": model.ToErrorMessage(err),
	})
}

func detailPath(id int64) string {
	return fmt.Sprintf("/ui/books/%d", id)
}
