package routes

import (
	"github.com/easayliu/video-idle-queue/internal/application/container"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/internal/interfaces/http/handlers"
	"github.com/easayliu/video-idle-queue/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RoutesConfig 路由配置
type RoutesConfig struct {
	container *container.ServiceContainer
	config    *config.Config
}

// NewRoutesConfig 创建路由配置
func NewRoutesConfig(c *container.ServiceContainer, cfg *config.Config) *RoutesConfig {
	return &RoutesConfig{container: c, config: cfg}
}

// SetupRoutes 设置路由
// 路径与浏览器扩展约定保持一致,扩展无需感知服务端实现
func (rc *RoutesConfig) SetupRoutes(router *gin.Engine) {
	// 全局中间件
	router.Use(middleware.RecoverMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(rc.config.Server.QPS))
	router.Use(middleware.ErrorHandlerMiddleware())

	// Swagger文档路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	queueHandler := handlers.NewQueueHandler(rc.container)
	schedulerHandler := handlers.NewSchedulerHandler(rc.container)
	settingsHandler := handlers.NewSettingsHandler(rc.container)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		queue := api.Group("/queue")
		{
			queue.GET("", queueHandler.GetQueue)
			queue.POST("/add", queueHandler.AddTask)
			queue.DELETE("/clear", queueHandler.ClearQueue)
			queue.DELETE("/remove/:id", queueHandler.RemoveTask)
			queue.POST("/move", queueHandler.MoveTask)

			queue.POST("/pause", schedulerHandler.PauseScheduler)
			queue.POST("/resume", schedulerHandler.ResumeScheduler)
			queue.POST("/run-next", schedulerHandler.RunNext)
			queue.POST("/stop", schedulerHandler.StopCurrent)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.PUT("", settingsHandler.UpdateSettings)
		}
	}
}
