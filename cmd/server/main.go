package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/easayliu/video-idle-queue/internal/application/container"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/internal/interfaces/http/routes"
	"github.com/easayliu/video-idle-queue/pkg/logger"
	"github.com/gin-gonic/gin"
)

// @title Video Idle Queue API
// @version 1.0
// @description 闲时视频下载转录任务队列的本地API服务

// @host 127.0.0.1:8765
// @BasePath /api
// @schemes http
func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志
	if err := logger.Init(logger.Options{
		Level:     cfg.Log.Level,
		Output:    cfg.Log.Output,
		Format:    cfg.Log.Format,
		FilePath:  cfg.Log.FilePath,
		Colorize:  cfg.Log.Colorize,
		AddSource: cfg.Log.AddSource,
	}); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化服务容器
	serviceContainer := container.NewServiceContainer(cfg)
	if err := serviceContainer.Err(); err != nil {
		log.Fatal("Failed to initialize service container:", err)
	}

	// 启动闲时调度器
	if err := serviceContainer.GetSchedulerService().Start(); err != nil {
		log.Fatal("Failed to start scheduler:", err)
	}

	// 初始化路由
	router := gin.New()
	routes.NewRoutesConfig(serviceContainer, cfg).SetupRoutes(router)

	// 设置信号处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 启动服务器,仅监听回环地址
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("Starting server", "address", addr)
		if err := router.Run(addr); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// 等待退出信号
	<-quit
	logger.Info("Shutting down server...")

	serviceContainer.Shutdown()
	logger.Info("Server stopped")
}
