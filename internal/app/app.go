package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitquest_backend/internal/config"
	"fitquest_backend/internal/controller"
	"fitquest_backend/internal/repository"
	"fitquest_backend/internal/service"
	"fitquest_backend/pkg/database"
	"fitquest_backend/pkg/logger"
	"fitquest_backend/pkg/monitoring"
	"fitquest_backend/pkg/security"
	"fitquest_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	scheduler *service.DailyScheduler
}

type repositories struct {
	user        *repository.UserRepository
	workout     *repository.WorkoutRepository
	nutrition   *repository.NutritionRepository
	bodyMetric  *repository.BodyMetricRepository
	progression *repository.ProgressionRepository
	xpHistory   *repository.XPHistoryRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     service.StorageService
	workout     *service.WorkoutService
	nutrition   *service.NutritionService
	bodyMetric  *service.BodyMetricService
	progression *service.ProgressionService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	workout     *controller.WorkoutController
	nutrition   *controller.NutritionController
	bodyMetric  *controller.BodyMetricController
	progression *controller.ProgressionController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		workout:     repository.NewWorkoutRepository(db),
		nutrition:   repository.NewNutritionRepository(db),
		bodyMetric:  repository.NewBodyMetricRepository(db),
		progression: repository.NewProgressionRepository(db),
		xpHistory:   repository.NewXPHistoryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.workout = service.NewWorkoutService(repos.workout)
	s.nutrition = service.NewNutritionService(repos.nutrition, repos.user)
	s.bodyMetric = service.NewBodyMetricService(repos.bodyMetric, storage)
	s.progression = service.NewProgressionService(
		repos.progression,
		repos.workout,
		repos.nutrition,
		repos.xpHistory,
		repos.user,
		rdb,
		time.Duration(cfg.Progression.StatsCacheTTL)*time.Second,
	)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user, s.storage),
		workout:     controller.NewWorkoutController(s.workout),
		nutrition:   controller.NewNutritionController(s.nutrition),
		bodyMetric:  controller.NewBodyMetricController(s.bodyMetric),
		progression: controller.NewProgressionController(s.progression),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 不可用时降级运行，进度统计缓存失效
		logger.Log.Warn("Redis unavailable, running without stats cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	ctrls := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("fitquest-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	if cfg.Progression.SchedulerEnabled {
		scheduler, err := service.NewDailyScheduler(cfg.Progression.SchedulerCron, services.progression)
		if err != nil {
			logger.Log.Fatal("Failed to initialize daily scheduler", zap.Error(err))
		}
		scheduler.Start()
		app.scheduler = scheduler
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			logger.Log.Error("Failed to stop scheduler", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
