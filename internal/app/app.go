package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/config"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/controller"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/repository"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/service"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/database"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/logger"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/monitoring"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/security"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	module     *repository.StudyModuleRepository
	assignment *repository.AssignmentRepository
	progress   *repository.ProgressRepository
	exam       *repository.ExamRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	user      *service.UserService
	module    *service.StudyModuleService
	session   *service.StudySessionService
	exam      *service.ExamService
	dashboard *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	module    *controller.StudyModuleController
	session   *controller.StudySessionController
	exam      *controller.ExamController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload swaps the active config and notifies registered callbacks.
// Connection settings still require a restart.
func (a *App) OnConfigReload(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		module:     repository.NewStudyModuleRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		progress:   repository.NewProgressRepository(db),
		exam:       repository.NewExamRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, storage)
	s.module = service.NewStudyModuleService(repos.module, repos.assignment, repos.user, rdb)
	s.session = service.NewStudySessionService(s.module, repos.progress, repos.assignment, rdb)
	s.exam = service.NewExamService(repos.exam, repos.user)
	s.dashboard = service.NewDashboardService(repos.user, repos.progress, rdb)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		user:      controller.NewUserController(s.user),
		module:    controller.NewStudyModuleController(s.module),
		session:   controller.NewStudySessionController(s.session, s.module),
		exam:      controller.NewExamController(s.exam),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db, rdb),
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

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if err := s.module.ProcessScheduledPublishes(); err != nil {
				logger.Log.Error("scheduled publish error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = svcs
	ctrls := app.initControllers(svcs, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("homeschool-exam-system", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(svcs)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
