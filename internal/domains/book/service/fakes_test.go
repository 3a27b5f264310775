package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"librarylite/internal/domains/book/model"
)

// memoryRepo là RepositoryInterface in-memory; id tăng dần và không tái sử dụng.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Book
	calls  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]model.Book{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

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
	r.calls++

	b, ok := r.rows[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return &b, nil
}

func (r *memoryRepo) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	r.nextID++
	b := *book
	b.ID = r.nextID
	r.rows[b.ID] = b
	return &b, nil
}

func (r *memoryRepo) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

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
	r.calls++

	if _, ok := r.rows[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.rows, id)
	return nil
}

// pausingRepo blocks the first armed GetByID after it has read the row,
// until resume is closed.
type pausingRepo struct {
	*memoryRepo
	armed  atomic.Bool
	paused chan struct{}
	resume chan struct{}
}

func newPausingRepo() *pausingRepo {
	return &pausingRepo{
		memoryRepo: newMemoryRepo(),
		paused:     make(chan struct{}),
		resume:     make(chan struct{}),
	}
}

func (r *pausingRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	b, err := r.memoryRepo.GetByID(ctx, id)
	if r.armed.CompareAndSwap(true, false) {
		close(r.paused)
		<-r.resume
	}
	return b, err
}

// memoryCache mimics RedisCache: values are JSON encoded.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// mockCache dùng cho các case cache lỗi
type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// mockRepo dùng khi cần assert repository không được gọi / trả storage error
type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	args := m.Called(ctx, book)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	args := m.Called(ctx, book)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
