package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/univ-records-api/api/swagger"
	"github.com/noah-isme/univ-records-api/internal/handler"
	"github.com/noah-isme/univ-records-api/internal/middleware"
	"github.com/noah-isme/univ-records-api/internal/models"
	"github.com/noah-isme/univ-records-api/internal/repository"
	"github.com/noah-isme/univ-records-api/internal/service"
	"github.com/noah-isme/univ-records-api/pkg/cache"
	"github.com/noah-isme/univ-records-api/pkg/config"
	"github.com/noah-isme/univ-records-api/pkg/database"
	"github.com/noah-isme/univ-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/univ-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/univ-records-api/pkg/middleware/requestid"
)

// @title University Records API
// @version 1.0.0
// @description Academic records, grading and tuition service
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, stats caching disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr, metricsSvc)
	}

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	disciplineRepo := repository.NewDisciplineRepository(db)
	classRepo := repository.NewClassRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "univ-records-api",
	})

	var statsCache service.CacheStore
	if cacheRepo != nil {
		statsCache = cacheRepo
	}

	studentSvc := service.NewStudentService(studentRepo, courseRepo, enrollmentRepo, nil, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, studentRepo, disciplineRepo, classRepo, statsCache, cfg.Stats.CacheTTL, metricsSvc, nil, logr)
	disciplineSvc := service.NewDisciplineService(disciplineRepo, courseRepo, classRepo, statsCache, nil, logr)
	classSvc := service.NewClassService(classRepo, disciplineRepo, professorRepo, enrollmentRepo, statsCache, nil, nil, logr)
	professorSvc := service.NewProfessorService(professorRepo, classRepo, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, classRepo, cfg.Grading, nil, logr)
	tuitionSvc := service.NewTuitionService(enrollmentRepo, studentRepo, disciplineRepo, courseRepo, logr)
	exportSvc := service.NewExportService()

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	disciplineHandler := handler.NewDisciplineHandler(disciplineSvc)
	classHandler := handler.NewClassHandler(classSvc)
	professorHandler := handler.NewProfessorHandler(professorSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	tuitionHandler := handler.NewTuitionHandler(tuitionSvc, exportSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	readRoles := middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar, models.RoleViewer)
	writeRoles := middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	students := protected.Group("/students")
	students.GET("", readRoles, studentHandler.List)
	students.GET("/:matricula", readRoles, studentHandler.Get)
	students.POST("", writeRoles, studentHandler.Create)
	students.PUT("/:matricula", writeRoles, studentHandler.Update)
	students.DELETE("/:matricula", adminOnly, studentHandler.Delete)
	students.GET("/:matricula/tuition", readRoles, tuitionHandler.Get)
	students.GET("/:matricula/tuition/statement", readRoles, tuitionHandler.Export)

	courses := protected.Group("/courses")
	courses.GET("", readRoles, courseHandler.List)
	courses.GET("/:code", readRoles, courseHandler.Get)
	courses.POST("", writeRoles, courseHandler.Create)
	courses.PUT("/:code", writeRoles, courseHandler.Update)
	courses.DELETE("/:code", adminOnly, courseHandler.Delete)
	if cfg.Stats.Enabled {
		courses.GET("/:code/stats", readRoles, courseHandler.Stats)
	}

	disciplines := protected.Group("/disciplines")
	disciplines.GET("", readRoles, disciplineHandler.List)
	disciplines.GET("/:code", readRoles, disciplineHandler.Get)
	disciplines.POST("", writeRoles, disciplineHandler.Create)
	disciplines.PUT("/:code", writeRoles, disciplineHandler.Update)
	disciplines.DELETE("/:code", adminOnly, disciplineHandler.Delete)

	classes := protected.Group("/classes")
	classes.GET("", readRoles, classHandler.List)
	classes.GET("/:code", readRoles, classHandler.Get)
	classes.POST("", writeRoles, classHandler.Create)
	classes.PUT("/:code", writeRoles, classHandler.Update)
	classes.DELETE("/:code", adminOnly, classHandler.Delete)

	professors := protected.Group("/professors")
	professors.GET("", readRoles, professorHandler.List)
	professors.GET("/:id", readRoles, professorHandler.Get)
	professors.POST("", writeRoles, professorHandler.Create)
	professors.PUT("/:id", writeRoles, professorHandler.Update)
	professors.DELETE("/:id", adminOnly, professorHandler.Delete)

	enrollments := protected.Group("/enrollments")
	enrollments.GET("", readRoles, enrollmentHandler.List)
	enrollments.POST("", writeRoles, enrollmentHandler.Create)
	enrollments.GET("/:matricula/:classCode", readRoles, enrollmentHandler.Get)
	enrollments.PUT("/:matricula/:classCode/grades", writeRoles, enrollmentHandler.UpdateGrades)
	enrollments.DELETE("/:matricula/:classCode", writeRoles, enrollmentHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
	logr.Info("server stopped")
}
