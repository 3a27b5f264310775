package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"librarylite/internal/domains/book/model"
	"librarylite/internal/domains/book/service"
	"librarylite/internal/web"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListBooks(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func (m *mockService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*model.Book)
	return book, args.Error(1)
}

func (m *mockService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	args := m.Called(ctx, req)
	book, _ := args.Get(0).(*model.Book)
	return book, args.Error(1)
}

func (m *mockService) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	args := m.Called(ctx, id, req)
	book, _ := args.Get(0).(*model.Book)
	return book, args.Error(1)
}

func (m *mockService) DeleteBook(ctx context.Context, id int64) (*model.DeleteBookResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*model.DeleteBookResponse)
	return resp, args.Error(1)
}

// memoryRepo backs a real service in end-to-end handler tests.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Book
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]model.Book{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	books := make([]model.Book, 0, len(r.rows))
	for _, b := range r.rows {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.rows[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return &b, nil
}

func (r *memoryRepo) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	b := *book
	b.ID = r.nextID
	r.rows[b.ID] = b
	return &b, nil
}

func (r *memoryRepo) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[book.ID]; !ok {
		return nil, model.ErrBookNotFound
	}
	r.rows[book.ID] = *book
	b := *book
	return &b, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.rows, id)
	return nil
}

func newTestRouter(svc service.ServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())

	api := NewHandler(svc)
	books := r.Group("/books")
	{
		books.GET("", api.ListBooks)
		books.POST("", api.CreateBook)
		books.GET("/:id", api.GetBook)
		books.PUT("/:id", api.UpdateBook)
		books.DELETE("/:id", api.DeleteBook)
	}

	views := NewViewHandler(svc)
	r.GET("/", views.Home)
	ui := r.Group("/ui/books")
	{
		ui.GET("", views.List)
		ui.POST("", views.Create)
		ui.GET("/new", views.New)
		ui.GET("/:id", views.Detail)
		ui.GET("/:id/edit", views.Edit)
		ui.POST("/:id/edit", views.Update)
		ui.POST("/:id/delete", views.Delete)
	}
	return r
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
