package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"librarylite/internal/config"
	bookHandler "librarylite/internal/domains/book/handler"
	bookRepo "librarylite/internal/domains/book/repository"
	bookService "librarylite/internal/domains/book/service"
	infraCache "librarylite/internal/infrastructure/cache"
	"librarylite/internal/infrastructure/database"
	"librarylite/internal/shared/health"
	"librarylite/internal/shared/metrics"
	"librarylite/pkg/cache"
	"librarylite/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Thứ tự khởi tạo: Config → Infrastructure → Repository → Service → Handler
type Container struct {
	// Infrastructure (singleton)
	Config  *config.Config
	DB      *database.PostgresDB
	Cache   cache.Cache
	Metrics *metrics.Metrics

	redis *infraCache.RedisCache // nil khi REDIS_ENABLED=false

	// Repository
	BookRepo bookRepo.RepositoryInterface

	// Service
	BookService bookService.ServiceInterface

	// Handler
	BookHandler   *bookHandler.Handler
	ViewHandler   *bookHandler.ViewHandler
	HealthHandler *health.Handler
}

// NewContainer tạo và initialize toàn bộ dependency graph.
// Lỗi ở config hoặc database → application không start.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment, cfg.Log.Level)
	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Msg("Initializing DI container")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	if err := c.initDatabase(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	c.initCache(ctx)

	// ========================================
	// STEP 4: METRICS
	// ========================================
	c.Metrics = metrics.New()
	c.Metrics.RegisterPoolStats(c.DB)

	// ========================================
	// STEP 5: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
	c.BookService = bookService.NewBookService(c.BookRepo, c.Cache, cfg.Redis.TTL)

	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.ViewHandler = bookHandler.NewViewHandler(c.BookService)
	c.HealthHandler = health.NewHandler(cfg.App.Version, c.DB, c.cacheChecker())

	log.Info().Msg("DI container initialized")
	return c, nil
}

// initDatabase connects with retry rồi đảm bảo bảng books tồn tại.
func (c *Container) initDatabase(ctx context.Context) error {
	dbConfig, err := config.LoadDatabaseConfig(c.Config.App.Environment)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if err := database.EnsureSchema(ctx, db.Pool); err != nil {
		return err
	}

	log.Info().Msg("Database ready")
	return nil
}

// initCache: Redis failure không critical, service vẫn chạy và chỉ log cache errors.
func (c *Container) initCache(ctx context.Context) {
	if !c.Config.Redis.Enabled {
		log.Info().Msg("Redis disabled, book cache is a no-op")
		c.Cache = cache.NewNoop()
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Str("host", c.Config.Redis.Host).Msg("Redis connection failed (non-critical)")
	}

	c.redis = rc
	c.Cache = rc
}

func (c *Container) cacheChecker() health.Checker {
	if c.redis == nil {
		return nil
	}
	return health.CheckerFunc(c.redis.Ping)
}

// Cleanup dọn dẹp resources khi shutdown; an toàn khi gọi với container dở dang.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
