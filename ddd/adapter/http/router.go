package http

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hls-service/ddd/application/app"
	"hls-service/ddd/infrastructure/worker"
	"hls-service/pkg/config"
	"hls-service/pkg/middleware"
)

func init() {
	// 静态直出时保证播放器拿到正确的媒体类型
	_ = mime.AddExtensionType(".m3u8", "application/vnd.apple.mpegurl")
	_ = mime.AddExtensionType(".ts", "video/mp2t")
}

// Router 路由配置
type Router struct {
	cfg           *config.Config
	convertApp    app.ConvertApp
	convertWorker worker.ConvertWorker
}

// NewRouter 创建路由配置
func NewRouter(cfg *config.Config, convertApp app.ConvertApp, convertWorker worker.ConvertWorker) *Router {
	return &Router{
		cfg:           cfg,
		convertApp:    convertApp,
		convertWorker: convertWorker,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes(engine *gin.Engine) {
	controller := NewConversionController(r.convertApp, r.convertWorker)

	// API v1 路由组
	v1 := engine.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			jobs.POST("", controller.CreateJob)        // 受理转换
			jobs.GET("", controller.ListJobs)          // 任务列表
			jobs.GET("/:job_id", controller.GetJob)    // 任务详情
		}
		v1.GET("/workers/stats", controller.GetWorkerStats) // 工作池统计
	}

	// 本地发布策略下直接静态直出 HLS 产物
	if strings.EqualFold(r.cfg.Publish.Strategy, "local") {
		engine.Static(r.cfg.Publish.RoutePath, r.cfg.Publish.OutputDir)
	}

	// 健康检查路由
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "hls-service",
			"version": "1.0.0",
		})
	})
}

// SetupMiddleware 设置中间件
func (r *Router) SetupMiddleware(engine *gin.Engine) {
	engine.Use(middleware.RequestContextMiddleware())
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
}
