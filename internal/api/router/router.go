package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rt-roster/backend/config"
	"rt-roster/backend/internal/api/handler"
	"rt-roster/backend/internal/api/middleware"
	"rt-roster/backend/pkg/jwt"
	"rt-roster/backend/pkg/metrics"
	"rt-roster/backend/pkg/redis"
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
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 治疗师模块
			therapists := authorized.Group("/therapists")
			{
				therapists.GET("", h.Therapist.List)
				therapists.GET("/:id", h.Therapist.Get)
				therapists.POST("", middleware.RoleAuth("admin", "manager"), h.Therapist.Create)
				therapists.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Therapist.Update)
				therapists.DELETE("/:id", middleware.RoleAuth("admin"), h.Therapist.Deactivate)
				therapists.GET("/:id/pattern", h.Therapist.GetPattern)
				therapists.PUT("/:id/pattern", middleware.RoleAuth("admin", "manager"), h.Therapist.UpsertPattern)
				therapists.DELETE("/:id/pattern", middleware.RoleAuth("admin", "manager"), h.Therapist.DeletePattern)
			}

			// 排班周期模块
			cycles := authorized.Group("/cycles")
			{
				cycles.GET("", h.Cycle.List)
				cycles.GET("/:id", h.Cycle.Get)
				cycles.POST("", middleware.RoleAuth("admin", "manager"), h.Cycle.Create)
				cycles.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Cycle.Update)
				cycles.POST("/:id/archive", middleware.RoleAuth("admin", "manager"), h.Cycle.Archive)
				cycles.DELETE("/:id", middleware.RoleAuth("admin"), h.Cycle.Delete)

				// 可用性覆盖
				cycles.GET("/:id/overrides", h.Cycle.ListOverrides)
				cycles.POST("/:id/overrides", middleware.RoleAuth("admin", "manager"), h.Cycle.CreateOverride)
				cycles.DELETE("/:id/overrides/:override_id", middleware.RoleAuth("admin", "manager"), h.Cycle.DeleteOverride)

				// 排班编排
				cycles.POST("/:id/generate", middleware.RoleAuth("admin", "manager"), h.Schedule.AutoGenerate)
				cycles.GET("/:id/validation", h.Schedule.Validate)
				cycles.POST("/:id/publish", middleware.RoleAuth("admin", "manager"), h.Schedule.Publish)
				cycles.POST("/:id/lead", middleware.RoleAuth("admin", "manager"), h.Schedule.SetLead)
				cycles.DELETE("/:id/lead", middleware.RoleAuth("admin", "manager"), h.Schedule.ClearLead)
				cycles.POST("/:id/eligibility", h.Schedule.CheckEligibility)
				cycles.GET("/:id/shifts", h.Schedule.ListShifts)

				// 导出
				cycles.GET("/:id/export/roster", middleware.RoleAuth("admin", "manager"), h.Export.ExportRoster)
				cycles.GET("/:id/export/calendar/:therapist_id", h.Export.ExportCalendar)
			}

			// 班次维护
			shifts := authorized.Group("/shifts")
			{
				shifts.PUT("/:id/status", middleware.RoleAuth("admin", "manager"), h.Schedule.UpdateShiftStatus)
				shifts.DELETE("/:id", middleware.RoleAuth("admin", "manager"), h.Schedule.DeleteShift)
			}
		}
	}

	return r
}
