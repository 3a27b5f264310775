package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"librarylite/internal/domains/book/model"
	"librarylite/internal/domains/book/repository"
	"librarylite/pkg/cache"
)

const (
	bookCacheKeyPrefix = "book:"
	defaultCacheTTL    = 5 * time.Minute
	cacheStripes       = 64
)

// bookService implements ServiceInterface
type bookService struct {
	repo     repository.RepositoryInterface
	cache    cache.Cache
	cacheTTL time.Duration
	guard    *writeGuard
}

// NewBookService - Constructor with DI.
// c có thể nil → dùng cache.Noop.
func NewBookService(repo repository.RepositoryInterface, c cache.Cache, ttl time.Duration) ServiceInterface {
	if c == nil {
		c = cache.NewNoop()
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &bookService{
		repo:     repo,
		cache:    c,
		cacheTTL: ttl,
		guard:    &writeGuard{},
	}
}

func cacheKey(id int64) string {
	return bookCacheKeyPrefix + strconv.FormatInt(id, 10)
}

// writeGuard orders cache fills against writes trong cùng process.
// Update/Delete bump version của stripe sau khi storage commit; một fill
// chỉ được ghi khi version không đổi kể từ lúc bắt đầu đọc.
type writeGuard struct {
	mu       sync.Mutex
	versions [cacheStripes]uint64
}

func stripe(id int64) int {
	return int(uint64(id) % cacheStripes)
}

func (g *writeGuard) version(id int64) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.versions[stripe(id)]
}

func (g *writeGuard) bump(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.versions[stripe(id)]++
}

// fill runs set under the lock when no write happened since seen was taken.
func (g *writeGuard) fill(id int64, seen uint64, set func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.versions[stripe(id)] != seen {
		return false
	}
	set()
	return true
}

func (s *bookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (s *bookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	if id <= 0 {
		return nil, model.ErrBookNotFound
	}

	// Try cache first
	var cached model.Book
	if found, err := s.cache.Get(ctx, cacheKey(id), &cached); err != nil {
		log.Warn().Err(err).Int64("book_id", id).Msg("book cache read failed")
	} else if found {
		return &cached, nil
	}

	seen := s.guard.version(id)
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.guard.fill(id, seen, func() { s.store(ctx, b) }) {
		log.Debug().Int64("book_id", id).Msg("book changed during read, cache fill skipped")
	}
	return b, nil
}

func (s *bookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req.ToEntity())
	if err != nil {
		return nil, err
	}

	log.Info().Int64("book_id", created.ID).Str("title", created.Title).Msg("book created")
	return created, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, model.ErrBookNotFound
	}

	book := &model.Book{ID: id}
	req.ApplyToEntity(book)

	updated, err := s.repo.Update(ctx, book)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			s.invalidate(ctx, id)
		}
		return nil, err
	}

	log.Info().Int64("book_id", id).Msg("book updated")
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id int64) (*model.DeleteBookResponse, error) {
	if id <= 0 {
		return nil, model.ErrBookNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			s.invalidate(ctx, id)
		}
		return nil, err
	}

	log.Info().Int64("book_id", id).Msg("book deleted")
	s.invalidate(ctx, id)
	return &model.DeleteBookResponse{Message: "Book deleted"}, nil
}

// store: cache lỗi chỉ log, không fail operation
func (s *bookService) store(ctx context.Context, b *model.Book) {
	if err := s.cache.Set(ctx, cacheKey(b.ID), b, s.cacheTTL); err != nil {
		log.Warn().Err(err).Int64("book_id", b.ID).Msg("book cache write failed")
	}
}

// invalidate bumps the guard trước khi xóa key để fill đang chạy không ghi lại bản cũ.
func (s *bookService) invalidate(ctx context.Context, id int64) {
	s.guard.bump(id)
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Int64("book_id", id).Msg("book cache invalidation failed")
	}
}
