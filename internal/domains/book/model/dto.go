package model

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Constants for validation (khớp với VARCHAR(255) của bảng books)
const (
	MaxTitleLength  = 255
	MaxAuthorLength = 255
)

// CreateBookRequest - POST /books
// title, author bắt buộc; year, description optional (nil = không có)
type CreateBookRequest struct {
	Title       string  `json:"title" form:"title"`
	Author      string  `json:"author" form:"author"`
	Year        *int    `json:"year" form:"year"`
	Description *string `json:"description" form:"description"`
}

// UpdateBookRequest - PUT /books/:id
// Update ghi đè toàn bộ field nên shape giống hệt create.
type UpdateBookRequest = CreateBookRequest

// Normalize trims text fields; description rỗng coi như không có.
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		r.Description = nil
	}
}

// Validate kiểm tra request sau khi Normalize.
// Lỗi trả về luôn là *ValidationError.
func (r CreateBookRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, MaxTitleLength).Error("title must be at most 255 characters"),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.RuneLength(1, MaxAuthorLength).Error("author must be at most 255 characters"),
		),
		// cột year là INTEGER (int32)
		validation.Field(&r.Year,
			validation.Min(math.MinInt32).Error("year is out of range"),
			validation.Max(math.MaxInt32).Error("year is out of range"),
		),
	)
	if err != nil {
		return NewValidationError(err)
	}
	return nil
}

// ToEntity converts CreateBookRequest to Book entity (ID chưa có)
func (r *CreateBookRequest) ToEntity() *Book {
	return &Book{
		Title:       r.Title,
		Author:      r.Author,
		Year:        r.Year,
		Description: r.Description,
	}
}

// ApplyToEntity ghi đè toàn bộ field của book, giữ nguyên ID
func (r *CreateBookRequest) ApplyToEntity(b *Book) {
	b.Title = r.Title
	b.Author = r.Author
	b.Year = r.Year
	b.Description = r.Description
}
