package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"iaprender_backend/internal/config"
	"iaprender_backend/internal/content"
	"iaprender_backend/internal/controller"
	"iaprender_backend/internal/llm"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/configwatcher"
	"iaprender_backend/pkg/database"
	"iaprender_backend/pkg/logger"
	"iaprender_backend/pkg/monitoring"
	"iaprender_backend/pkg/security"
	"iaprender_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	shutdownHooks   []func(context.Context) error
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	progress   *repository.ProgressRepository
	chat       *repository.ChatRepository
	support    *repository.SupportRepository
	task       *repository.TaskRepository
	submission *repository.SubmissionRepository
	redis      *repository.RedisStore
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	progress     *service.ProgressService
	catalog      *service.CatalogService
	conversation *service.ConversationService
	support      *service.SupportService
	task         *service.TaskService
	user         *service.UserService
}

type controllers struct {
	auth    *controller.AuthController
	catalog *controller.CatalogController
	chat    *controller.ChatController
	support *controller.SupportController
	task    *controller.TaskController
	user    *controller.UserController
	health  *controller.HealthController
}

// Deps are the externally built collaborators of the App.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Content  *content.Content
	Provider llm.Provider
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		progress:   repository.NewProgressRepository(db, cfg.Progress.MaxRetries),
		chat:       repository.NewChatRepository(db),
		support:    repository.NewSupportRepository(db),
		task:       repository.NewTaskRepository(db),
		submission: repository.NewSubmissionRepository(db),
		redis:      repository.NewRedisStore(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, deps Deps) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.redis, service.NewSessionEvents(), cfg)
	s.progress = service.NewProgressService(repos.progress, repos.redis)
	s.catalog = service.NewCatalogService(deps.Content, s.progress)
	s.conversation = service.NewConversationService(repos.chat, deps.Provider, deps.Content.Fallback, cfg.AI)
	s.support = service.NewSupportService(
		service.NewTriageAdvisor(deps.Content.Triage),
		service.NewTriageSessionStore(),
		repos.support,
	)
	s.task = service.NewTaskService(repos.task, repos.submission, repos.user, s.storage)
	s.user = service.NewUserService(
		repos.user,
		repos.progress,
		repos.submission,
		repos.redis,
		s.catalog,
		cfg.Cache.OverviewTTL,
	)

	s.auth.OnSessionChange(func(ev service.SessionEvent) {
		logger.Log.Info("Session changed",
			zap.String("type", string(ev.Type)),
			zap.Uint("userID", ev.UserID))
	})

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth, s.user),
		catalog: controller.NewCatalogController(s.catalog, s.progress),
		chat:    controller.NewChatController(s.conversation),
		support: controller.NewSupportController(s.support),
		task:    controller.NewTaskController(s.task),
		user:    controller.NewUserController(s.user),
		health:  controller.NewHealthController(db, repos.redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New assembles the App over already-open stores. Used by NewApp and by
// tests.
func New(cfg *config.Config, deps Deps) *App {
	app := &App{
		Config: cfg,
		DB:     deps.DB,
		Redis:  deps.Redis,
	}

	repos := app.initRepositories(deps.DB, deps.Redis, cfg)
	svc := app.initServices(repos, cfg, deps)
	app.services = svc
	ctrls := app.initControllers(svc, repos, deps.DB)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.TestMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, repos, svc)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// NewApp opens every backing store from cfg and builds the App. It exits the
// process when a required store is unavailable.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	c, err := content.Load()
	if err != nil {
		logger.Log.Fatal("Failed to load content tables", zap.Error(err))
	}

	provider, err := llm.NewProvider(context.Background(), cfg.AI)
	if err != nil {
		logger.Log.Error("Tutor provider unavailable, answering from fallback rules only", zap.Error(err))
		provider = nil
	} else if provider != nil {
		logger.Log.Info("Tutor provider ready", zap.String("provider", cfg.AI.Provider), zap.String("model", provider.ModelID()))
	}

	app := New(cfg, Deps{DB: db, Redis: rdb, Content: c, Provider: provider})

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("iaprender", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.shutdownHooks = append(app.shutdownHooks, tp.Shutdown)
		}
	}
	if rdb != nil {
		app.shutdownHooks = append(app.shutdownHooks, func(context.Context) error { return rdb.Close() })
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	file := filepath.Join("configs", "config.yaml")
	err := configwatcher.WatchConfig(ctx, file, configwatcher.DefaultDebounce, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	})
	if err != nil {
		logger.Log.Error("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if a.Config.Server.WatchConfig {
		go a.watchConfig(ctx)
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	for _, hook := range a.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			logger.Log.Warn("Shutdown hook failed", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
}
