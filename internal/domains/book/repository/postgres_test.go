package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarylite/internal/domains/book/model"
)

var columns = []string{"id", "title", "author", "year", "description"}

func newRepo(t *testing.T) (RepositoryInterface, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewPostgresRepository(mock), mock
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestList(t *testing.T) {
	t.Run("empty table returns empty slice", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM books ORDER BY id").
			WillReturnRows(pgxmock.NewRows(columns))
		mock.ExpectCommit()

		books, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("rows with nullable columns", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM books ORDER BY id").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(1), "Dune", "Herbert", intPtr(1965), strPtr("spice")).
				AddRow(int64(2), "Emma", "Austen", nil, nil))
		mock.ExpectCommit()

		books, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, books, 2)

		assert.Equal(t, model.Book{ID: 1, Title: "Dune", Author: "Herbert", Year: intPtr(1965), Description: strPtr("spice")}, books[0])
		assert.Equal(t, int64(2), books[1].ID)
		assert.Nil(t, books[1].Year)
		assert.Nil(t, books[1].Description)
	})

	t.Run("query error is a storage error", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM books").WillReturnError(errors.New("relation does not exist"))
		mock.ExpectRollback()

		_, err := repo.List(context.Background())
		assert.ErrorIs(t, err, model.ErrStorage)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM books WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(1), "Dune", "Herbert", intPtr(1965), nil))
		mock.ExpectCommit()

		b, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, 1965, *b.Year)
		assert.Nil(t, b.Description)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM books WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnRows(pgxmock.NewRows(columns))
		mock.ExpectRollback()

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})

	t.Run("begin failure", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		_, err := repo.GetByID(context.Background(), 1)
		assert.ErrorIs(t, err, model.ErrStorage)
		assert.NotErrorIs(t, err, model.ErrBookNotFound)
	})
}

func TestCreate(t *testing.T) {
	t.Run("assigns id", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO books").
			WithArgs("Dune", "Herbert", intPtr(1965), (*string)(nil)).
			WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(10), "Dune", "Herbert", intPtr(1965), nil))
		mock.ExpectCommit()

		created, err := repo.Create(context.Background(), &model.Book{Title: "Dune", Author: "Herbert", Year: intPtr(1965)})
		require.NoError(t, err)
		assert.Equal(t, int64(10), created.ID)
		assert.Equal(t, "Dune", created.Title)
		assert.Nil(t, created.Description)
	})

	t.Run("commit failure", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO books").
			WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(11), "Dune", "Herbert", nil, nil))
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		_, err := repo.Create(context.Background(), &model.Book{Title: "Dune", Author: "Herbert"})
		assert.ErrorIs(t, err, model.ErrStorage)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("overwrites all fields", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE books").
			WithArgs("Dune Messiah", "Frank Herbert", intPtr(1969), strPtr("sequel"), int64(3)).
			WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(3), "Dune Messiah", "Frank Herbert", intPtr(1969), strPtr("sequel")))
		mock.ExpectCommit()

		updated, err := repo.Update(context.Background(), &model.Book{
			ID: 3, Title: "Dune Messiah", Author: "Frank Herbert", Year: intPtr(1969), Description: strPtr("sequel"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Frank Herbert", updated.Author)
		assert.Equal(t, "sequel", *updated.Description)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE books").WillReturnRows(pgxmock.NewRows(columns))
		mock.ExpectRollback()

		_, err := repo.Update(context.Background(), &model.Book{ID: 404, Title: "x", Author: "y"})
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM books WHERE id = \\$1").
			WithArgs(int64(5)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(context.Background(), 5))
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM books").WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(context.Background(), 5), model.ErrBookNotFound)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectBegin()
		cause := errors.New("connection reset by peer")
		mock.ExpectExec("DELETE FROM books").WillReturnError(cause)
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), 5)
		assert.ErrorIs(t, err, model.ErrStorage)
		assert.ErrorIs(t, err, cause)
	})
}
