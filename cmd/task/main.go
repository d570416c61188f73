package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	myPostgresRepo "github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/handler"
	httpmw "github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/app/auth/jwt"
	authsvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/auth/service"
	projectsvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/project/service"
	tasksvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/task/service"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/task-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/server"
	"golang.org/x/sync/errgroup"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		lg.Must("info", false).Fatal("failed to load config", zap.Error(err))
	}

	zapLog := lg.Must(cfg.LogLevel, cfg.IsProduction())
	defer zapLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	var tokenRepo repo.RefreshTokenRepo = myPostgresRepo.NewPostgresRefreshTokenRepo(db)
	if cfg.RedisAddress != "" {
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCli.Ping(pingCtx).Err(); err != nil {
			zapLog.Warn("redis unreachable, revocation cache will fall through to postgres", zap.Error(err))
		}
		cancel()
		tokenRepo = myRedisRepo.NewCachedRefreshTokenRepo(tokenRepo, redisCli, cfg.RefreshTokenTTL, zapLog)
	}

	validate := validator.New()

	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	projectRepo := myPostgresRepo.NewPostgresProjectRepo(db)
	taskRepo := myPostgresRepo.NewPostgresTaskRepo(db)

	router := handler.NewRouter(handler.Deps{
		Auth:     authsvc.New(myPostgresRepo.NewPostgresUserRepo(db), tokenRepo, jwtUtil, cfg, validate),
		Projects: projectsvc.New(projectRepo, validate),
		Tasks:    tasksvc.New(projectRepo, taskRepo, validate),
		Config:   cfg,
		Log:      zapLog,
		Metrics:  httpmw.NewMetrics(),
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})

	<-ctx.Done()
	zapLog.Info("shutdown signal received")

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
