package repository

import (
	"context"

	"librarylite/internal/domains/book/model"
)

// RepositoryInterface defines data access for Book records.
// Mỗi method tự mở một session riêng và luôn trả connection về pool.
type RepositoryInterface interface {
	// List returns all books ordered by id; empty slice (not nil) if none.
	List(ctx context.Context) ([]model.Book, error)

	// GetByID returns model.ErrBookNotFound if not exists
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// Create inserts a new book and returns it with the assigned ID
	Create(ctx context.Context, book *model.Book) (*model.Book, error)

	// Update overwrites all fields of book.ID
	// Returns: model.ErrBookNotFound if not exists
	Update(ctx context.Context, book *model.Book) (*model.Book, error)

	// Delete removes book by ID
	// Returns: model.ErrBookNotFound if not exists
	Delete(ctx context.Context, id int64) error
}
