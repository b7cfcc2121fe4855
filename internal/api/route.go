package api

import (
	"WorkUs/internal/api/config"
	"WorkUs/internal/api/middleware"
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, logCfg config.LogstashConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, logCfg)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		// 需要登录 & 拥有 admin 角色
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(string(model.RoleAdmin)))
		{
			userGroup := adminGroup.Group("/users")
			{
				userGroup.GET("", group.AdminUserHandler.ListUsers)
				userGroup.PUT("/:user_id/role", group.AdminUserHandler.ChangeRole)
				userGroup.PUT("/:user_id", group.AdminUserHandler.UpdateProfile)
				userGroup.POST("/:user_id/toggle-active", group.AdminUserHandler.ToggleActive)
				userGroup.DELETE("/:user_id", group.AdminUserHandler.DeleteUser)
			}

			statsGroup := adminGroup.Group("/stats")
			{
				statsGroup.GET("/overview", group.AdminStatsHandler.Overview)
				statsGroup.GET("/realtime", group.AdminStatsHandler.RealTime)
				statsGroup.GET("/evolution", group.AdminStatsHandler.Evolution)
				statsGroup.GET("/history", group.AdminStatsHandler.History)
				statsGroup.POST("/snapshot", group.AdminStatsHandler.Snapshot)
			}
		}
	}

	return r
}
