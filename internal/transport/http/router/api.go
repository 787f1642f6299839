package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gin-gorm-user-service/internal/core/auth"
	"gin-gorm-user-service/internal/core/server"
	httpez "gin-gorm-user-service/internal/transport/http/ez"
	"gin-gorm-user-service/internal/transport/http/handler"
	mdw "gin-gorm-user-service/internal/transport/http/middleware"
)

type Limits struct {
	RPS            float64
	Burst          int
	PerIPRPS       float64 // 0 表示不开启每 IP 限速
	PerIPBurst     int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		RPS:            200,
		Burst:          400,
		MaxConcurrent:  300,
		MaxBodyBytes:   16 << 20,
		RequestTimeout: 10 * time.Second,
	}
}

type Deps struct {
	Log      *zap.Logger
	Users    *handler.UserHandler
	Auth     *handler.AuthHandler
	Gate     auth.Guard // 保护 GET /users/:id
	BasePath string     // 例："/api/v1"
	Limits   Limits
}

func NewAPIEngine(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Gate == nil {
		d.Gate = auth.DenyAll
	}
	r := server.NewRouter(d.Log)

	// 中间件
	r.Use(mdw.RequestID())
	if d.Limits.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(d.Limits.PerIPRPS), d.Limits.PerIPBurst))
	}
	r.Use(
		mdw.RateLimit(rate.Limit(d.Limits.RPS), d.Limits.Burst),
		mdw.ConcurrencyLimit(d.Limits.MaxConcurrent),
		mdw.MaxBodyBytes(d.Limits.MaxBodyBytes),
		mdw.Timeout(d.Limits.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(d.BasePath)
	ez := httpez.New(api, d.Log)
	d.Auth.Mount(ez)
	d.Users.Mount(ez, d.Gate)

	return r
}
