package service

import (
	"context"

	"librarylite/internal/domains/book/model"
)

// ServiceInterface - Định nghĩa business logic methods cho Book records
type ServiceInterface interface {
	// ListBooks returns all books; empty slice khi bảng rỗng
	ListBooks(ctx context.Context) ([]model.Book, error)

	// GetBook returns model.ErrBookNotFound if absent
	GetBook(ctx context.Context, id int64) (*model.Book, error)

	// CreateBook validates title/author rồi insert
	// Errors: *model.ValidationError
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)

	// UpdateBook ghi đè toàn bộ field
	// Errors: *model.ValidationError, model.ErrBookNotFound
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error)

	// DeleteBook errors: model.ErrBookNotFound
	DeleteBook(ctx context.Context, id int64) (*model.DeleteBookResponse, error)
}
