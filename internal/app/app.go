package app

import (
	"context"
	"errors"
	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	ConfigDir       string
	services        *services
	limiter         *security.Limiter
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	module     *repository.ModuleRepository
	enrollment *repository.EnrollmentRepository
	article    *repository.ArticleRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	course     *service.CourseService
	module     *service.ModuleService
	enrollment *service.EnrollmentService
	grading    *service.GradingService
	gradebook  *service.GradebookService
	article    *service.ArticleService
	reconcile  *service.ReconcileService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	enrollment *controller.EnrollmentController
	grade      *controller.GradeController
	article    *controller.ArticleController
	upload     *controller.UploadController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		module:     repository.NewModuleRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		article:    repository.NewArticleRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	cache := service.NewCourseCache(rdb, cfg.Redis.CourseTTLSeconds)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.enrollment, db)
	s.course = service.NewCourseService(repos.course, repos.module, repos.enrollment, cache, db, cfg)
	s.module = service.NewModuleService(repos.module, repos.course, repos.enrollment, cache, db)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.module, repos.user, db)
	s.grading = service.NewGradingService(repos.enrollment, repos.course, repos.module, db, cfg)
	s.gradebook = service.NewGradebookService(repos.enrollment, repos.course, repos.module, db)
	s.article = service.NewArticleService(repos.article, db)
	s.reconcile = service.NewReconcileService(repos.enrollment, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user, s.enrollment, s.reconcile),
		course:     controller.NewCourseController(s.course, s.module),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		grade:      controller.NewGradeController(s.grading, s.gradebook),
		article:    controller.NewArticleController(s.article),
		upload:     controller.NewUploadController(s.storage),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.AccessLog())
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks() {
	go a.limiter.Run(a.stop)

	if err := a.services.reconcile.Start(a.Config.Jobs.ReconcileCron); err != nil {
		logger.Log.Error("Failed to schedule reconcile job", zap.Error(err))
	}

	if a.ConfigDir == "" {
		return
	}
	a.RegisterConfigCallback(logger.SetLevel)
	err := configwatcher.Watch(a.ConfigDir, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
	}, a.stop)
	if err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}
}

// Build 在已建立的数据库与缓存连接上装配路由，测试直接使用
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		limiter: security.NewLimiter(cfg.RateLimit),
		stop:    make(chan struct{}),
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		return nil, err
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	// 监控初始化
	monitoring.Init()

	app := Build(cfg, db, rdb)
	app.ConfigDir = configDir

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracer = tp
	}

	return app, nil
}

func (a *App) Run() {
	a.startBackgroundTasks()

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	close(a.stop)
	a.services.reconcile.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
