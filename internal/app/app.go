package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"snowpro_quiz_backend/internal/config"
	"snowpro_quiz_backend/internal/controller"
	"snowpro_quiz_backend/internal/repository"
	"snowpro_quiz_backend/internal/service"
	"snowpro_quiz_backend/internal/web"
	"snowpro_quiz_backend/pkg/configwatcher"
	"snowpro_quiz_backend/pkg/database"
	"snowpro_quiz_backend/pkg/logger"
	"snowpro_quiz_backend/pkg/monitoring"
	"snowpro_quiz_backend/pkg/security"
	"snowpro_quiz_backend/pkg/tracing"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	services *services
	tracer   *sdktrace.TracerProvider
}

type repositories struct {
	question *repository.QuestionRepository
	answer   *repository.AnswerRepository
	flag     *repository.FlagRepository
}

type services struct {
	quiz     *service.QuizService
	sessions *service.SessionStore
}

type controllers struct {
	quizPage *controller.QuizPageController
	quizAPI  *controller.QuizAPIController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		question: repository.NewQuestionRepository(db),
		answer:   repository.NewAnswerRepository(db),
		flag:     repository.NewFlagRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	cache := service.NewQuestionCache(repos.question)
	return &services{
		quiz:     service.NewQuizService(cache, repos.answer, repos.flag, cfg.Quiz.PageSize),
		sessions: service.NewSessionStore(time.Duration(cfg.Quiz.SessionTTLMins) * time.Minute),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		quizPage: controller.NewQuizPageController(s.quiz),
		quizAPI:  controller.NewQuizAPIController(s.quiz),
		health:   controller.NewHealthController(db),
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode, cfg.Log.File)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router
	router.SetHTMLTemplate(web.Templates())

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("snowpro-quiz", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	// 配置热更新：目前只接管每页题数
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		services.quiz.SetPageSize(newCfg.Quiz.PageSize)
		logger.Log.Info("config reloaded", zap.Int("pageSize", newCfg.Quiz.PageSize))
	})

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
