package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"gin-gorm-user-service/internal/core/auth"
	"gin-gorm-user-service/internal/core/cache"
	"gin-gorm-user-service/internal/core/config"
	"gin-gorm-user-service/internal/core/database"
	"gin-gorm-user-service/internal/core/logger"
	"gin-gorm-user-service/internal/core/server"
	"gin-gorm-user-service/internal/feature/user"
	"gin-gorm-user-service/internal/repo"
	"gin-gorm-user-service/internal/service"
	"gin-gorm-user-service/internal/transport/http/handler"
	"gin-gorm-user-service/internal/transport/http/router"
	"gin-gorm-user-service/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l, cleanup := logger.FromConfig(cfg.App.Name, cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(l, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, l)
	defer func() { _ = database.Close(db) }()
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := user.Migrate(db); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}

	// JWT + 注销记录：配置了 redis 用 redis，否则进程内存
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	userOpts := []service.Option{service.WithLogger(l)}
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
		if err := c.Ping(context.Background()); err != nil {
			l.Fatal("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		revoker = auth.NewRedisRevoker(c.RDB)
		userOpts = append(userOpts, service.WithCache(c, time.Duration(cfg.Redis.UserTTLSec)*time.Second))
		l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	// 依赖
	hasher := utils.BcryptHasher{}
	userRepo := repo.NewUserRepo(db)
	userSvc := service.NewUserService(userRepo, hasher, userOpts...)
	authSvc := service.NewAuthService(userSvc, userRepo, hasher, jwter, revoker)

	if cfg.Users.PlaceholderWrites {
		l.Warn("placeholder writes enabled: POST/PUT/DELETE /users return static acknowledgments and do not touch the store")
	}

	lim := cfg.App.Limits
	r := router.NewAPIEngine(router.Deps{
		Log:      l,
		Users:    handler.NewUserHandler(userSvc, cfg.Users.PlaceholderWrites),
		Auth:     handler.NewAuthHandler(authSvc),
		Gate:     auth.NewGate(jwter, revoker),
		BasePath: cfg.App.HTTP.BasePath,
		Limits: router.Limits{
			RPS:            lim.RPS,
			Burst:          lim.Burst,
			PerIPRPS:       lim.PerIPRPS,
			PerIPBurst:     lim.PerIPBurst,
			MaxConcurrent:  lim.MaxConcurrent,
			MaxBodyBytes:   lim.MaxBodyBytes,
			RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
		},
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	l.Info("user api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.String("api", baseURL+cfg.App.HTTP.BasePath),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("shutdown", zap.Error(err))
	}
	l.Info("user api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
