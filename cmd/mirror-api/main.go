package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/edumirror/mirror-api/internal/connectivity"
	"github.com/edumirror/mirror-api/internal/datasource"
	"github.com/edumirror/mirror-api/internal/handler"
	"github.com/edumirror/mirror-api/internal/lms"
	appMiddleware "github.com/edumirror/mirror-api/internal/middleware"
	"github.com/edumirror/mirror-api/internal/repository"
	"github.com/edumirror/mirror-api/internal/service"
	coursesync "github.com/edumirror/mirror-api/internal/sync"
	"github.com/edumirror/mirror-api/pkg/cache"
	"github.com/edumirror/mirror-api/pkg/config"
	"github.com/edumirror/mirror-api/pkg/database"
	"github.com/edumirror/mirror-api/pkg/jobs"
	"github.com/edumirror/mirror-api/pkg/logger"
	corsmiddleware "github.com/edumirror/mirror-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edumirror/mirror-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open mirror store", "error", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to migrate mirror store", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, offline flag lookups go upstream", "error", err)
		redisClient = nil
	}

	api := lms.NewClient(cfg.LMS, logr)

	checker := connectivity.NewChecker(cfg.LMS.BaseURL, cfg.Offline.ProbeInterval, cfg.Offline.ProbeTimeout, logr)
	checker.Start(ctx)
	flags := connectivity.NewFlagProvider(api, redisClient, cfg.Offline.FlagCacheTTL, logr)
	policy := connectivity.NewPolicy(checker, flags)

	courseRepo := repository.NewCourseRepository(db)
	termRepo := repository.NewTermRepository(db)
	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradingPeriodRepo := repository.NewGradingPeriodRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	tabRepo := repository.NewTabRepository(db)
	frontPageRepo := repository.NewFrontPageRepository(db)

	courseRouter, err := datasource.NewRouter[datasource.CourseDataSource](
		datasource.NewCourseLocalDataSource(courseRepo),
		datasource.NewCourseNetworkDataSource(api),
		policy,
	)
	if err != nil {
		logr.Sugar().Fatalw("failed to build course router", "error", err)
	}
	tabsRouter, err := datasource.NewRouter[datasource.TabsDataSource](
		datasource.NewTabsLocalDataSource(tabRepo),
		datasource.NewTabsNetworkDataSource(api),
		policy,
	)
	if err != nil {
		logr.Sugar().Fatalw("failed to build tabs router", "error", err)
	}
	frontPageRouter, err := datasource.NewRouter[datasource.FrontPageDataSource](
		datasource.NewFrontPageLocalDataSource(frontPageRepo),
		datasource.NewFrontPageNetworkDataSource(api),
		policy,
	)
	if err != nil {
		logr.Sugar().Fatalw("failed to build front page router", "error", err)
	}

	engine := coursesync.NewEngine(api, db, coursesync.Stores{
		Terms:          termRepo,
		Courses:        courseRepo,
		Users:          userRepo,
		Enrollments:    enrollmentRepo,
		GradingPeriods: gradingPeriodRepo,
		Sections:       sectionRepo,
		Tabs:           tabRepo,
		FrontPages:     frontPageRepo,
	}, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	syncSvc := service.NewSyncService(engine, validate, metricsSvc, logr)

	queue := jobs.NewQueue("course-sync", syncSvc.RunJob, jobs.QueueConfig{
		Workers:    cfg.Sync.Workers,
		BufferSize: cfg.Sync.QueueSize,
		MaxRetries: cfg.Sync.MaxRetries,
		RetryDelay: cfg.Sync.RetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	syncSvc.SetQueue(queue)

	if ids := cfg.Sync.BootstrapCourses; len(ids) > 0 {
		go func() {
			logr.Sugar().Infow("bootstrap sync starting", "courses", ids)
			for courseID, err := range engine.SyncCourses(ctx, ids) {
				logr.Sugar().Errorw("bootstrap sync failed", "course_id", courseID, "error", err)
			}
		}()
	}

	courseSvc := service.NewCourseService(courseRouter, logr)
	tabSvc := service.NewTabService(tabsRouter, logr)
	frontPageSvc := service.NewFrontPageService(frontPageRouter, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appMiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", handler.NewMetricsHandler(metricsSvc).Scrape)

	syncHandler := handler.NewSyncHandler(syncSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	tabHandler := handler.NewTabHandler(tabSvc)
	frontPageHandler := handler.NewFrontPageHandler(frontPageSvc)

	apiGroup := r.Group(cfg.APIPrefix)
	{
		apiGroup.POST("/sync", syncHandler.SyncBatch)
		apiGroup.POST("/courses/:courseId/sync", syncHandler.SyncCourse)
		apiGroup.GET("/courses/:courseId/sync", syncHandler.Status)
		apiGroup.GET("/courses/:courseId", courseHandler.Get)
		apiGroup.GET("/courses/:courseId/tabs", tabHandler.List)
		apiGroup.GET("/courses/:courseId/frontpage", frontPageHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "db_driver", cfg.Database.Driver)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
