package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"librarylite/internal/domains/book/model"
	"librarylite/pkg/database"
)

// postgresRepository implements RepositoryInterface trên pgx.
// Mỗi method chạy trong một transaction riêng lấy từ pool.
type postgresRepository struct {
	db database.TxBeginner
}

// NewPostgresRepository creates a new book repository instance
func NewPostgresRepository(db database.TxBeginner) RepositoryInterface {
	return &postgresRepository{db: db}
}

const bookColumns = `id, title, author, year, description`

// List returns every book ordered by id
func (r *postgresRepository) List(ctx context.Context) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY id`

	books, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) ([]model.Book, error) {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	})
	if err != nil {
		return nil, model.StorageError("failed to list books", err)
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// GetByID retrieves a single book
func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	b, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.Book, error) {
		rows, err := tx.Query(ctx, query, id)
		if err != nil {
			return nil, err
		}
		return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, model.StorageError("failed to get book by id", err)
	}
	return b, nil
}

// Create inserts new book; id được database cấp qua RETURNING
func (r *postgresRepository) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := `
        INSERT INTO books (title, author, year, description)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + bookColumns

	created, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.Book, error) {
		rows, err := tx.Query(ctx, query,
			book.Title,
			book.Author,
			book.Year,
			book.Description,
		)
		if err != nil {
			return nil, err
		}
		return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	})
	if err != nil {
		return nil, model.StorageError("failed to create book", err)
	}
	return created, nil
}

// Update overwrites title, author, year, description
func (r *postgresRepository) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := `
        UPDATE books
        SET title = $1, author = $2, year = $3, description = $4
        WHERE id = $5
        RETURNING ` + bookColumns

	updated, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.Book, error) {
		rows, err := tx.Query(ctx, query,
			book.Title,
			book.Author,
			book.Year,
			book.Description,
			book.ID,
		)
		if err != nil {
			return nil, err
		}
		return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, model.StorageError("failed to update book", err)
	}
	return updated, nil
}

// Delete removes book by ID
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM books WHERE id = $1`

	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return model.StorageError("failed to delete book", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) || errors.Is(err, model.ErrStorage) {
			return err
		}
		return model.StorageError("failed to delete book", err)
	}
	return nil
}
