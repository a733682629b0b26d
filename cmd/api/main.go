package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/bukhari-academy/academy-api/api/swagger"
	"github.com/bukhari-academy/academy-api/internal/handler"
	"github.com/bukhari-academy/academy-api/internal/middleware"
	"github.com/bukhari-academy/academy-api/internal/models"
	"github.com/bukhari-academy/academy-api/internal/repository"
	"github.com/bukhari-academy/academy-api/internal/router"
	"github.com/bukhari-academy/academy-api/internal/service"
	"github.com/bukhari-academy/academy-api/pkg/cache"
	"github.com/bukhari-academy/academy-api/pkg/config"
	"github.com/bukhari-academy/academy-api/pkg/database"
	"github.com/bukhari-academy/academy-api/pkg/logger"
	"github.com/bukhari-academy/academy-api/pkg/mailer"
	corsmiddleware "github.com/bukhari-academy/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bukhari-academy/academy-api/pkg/middleware/requestid"
)

// @title Bukhari Academy API
// @version 1.0.0
// @description School management API: roster, grades, bonuses, news and monthly reports
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logr.Fatal("failed to run migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.News.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, news cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	mail := buildMailer(cfg, logr)

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	bonusRepo := repository.NewBonusRepository(db)
	newsRepo := repository.NewNewsRepository(db)

	if err := ensureAdmin(userRepo, cfg, logr); err != nil {
		logr.Fatal("failed to seed admin account", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, teacherRepo, studentRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	teacherSvc := service.NewTeacherService(teacherRepo, userRepo, nil, logr)
	groupSvc := service.NewGroupService(groupRepo, teacherRepo, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, groupRepo, userRepo, nil, logr)
	userSvc := service.NewUserService(userRepo, nil, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, nil, logr)
	bonusSvc := service.NewBonusService(bonusRepo, studentRepo, nil, logr)
	newsSvc := service.NewNewsService(newsRepo, redisClient, cfg.News.CacheTTL, nil, logr)
	profileSvc := service.NewProfileService(studentRepo, userRepo, nil, logr)
	reportSvc := service.NewReportService(studentRepo, gradeRepo, bonusRepo, mail, logr).WithMetrics(metricsSvc)
	exportSvc := service.NewExportService(studentRepo, reportSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.Register(r, cfg.APIPrefix, authSvc, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Teacher: handler.NewTeacherHandler(teacherSvc),
		Group:   handler.NewGroupHandler(groupSvc),
		Student: handler.NewStudentHandler(studentSvc),
		User:    handler.NewUserHandler(userSvc),
		Grade:   handler.NewGradeHandler(gradeSvc),
		Bonus:   handler.NewBonusHandler(bonusSvc),
		News:    handler.NewNewsHandler(newsSvc),
		Profile: handler.NewProfileHandler(profileSvc),
		Report:  handler.NewReportHandler(reportSvc),
		Export:  handler.NewExportHandler(exportSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildMailer(cfg *config.Config, logr *zap.Logger) mailer.Mailer {
	switch cfg.Mail.Provider {
	case config.MailProviderSendgrid:
		m, err := mailer.NewSendgrid(cfg.Mail.SendgridKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
		if err != nil {
			logr.Warn("sendgrid misconfigured, mail delivery disabled", zap.Error(err))
			return nil
		}
		return m
	case config.MailProviderConsole:
		return mailer.NewConsole(logr)
	}
	return nil
}

// ensureAdmin seeds the configured admin account when no admin exists yet.
func ensureAdmin(users *repository.UserRepository, cfg *config.Config, logr *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Bootstrap.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        cfg.Bootstrap.AdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		FirstName:    "Admin",
		LastName:     "Academy",
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logr.Info("admin account created", zap.String("email", cfg.Bootstrap.AdminEmail))
	return nil
}
