package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hls-service/ddd/adapter/component"
	adapterhttp "hls-service/ddd/adapter/http"
	appsvc "hls-service/ddd/application/app"
	"hls-service/ddd/domain/service"
	"hls-service/ddd/infrastructure/executor"
	"hls-service/ddd/infrastructure/progress"
	"hls-service/ddd/infrastructure/publisher"
	"hls-service/ddd/infrastructure/queue"
	"hls-service/ddd/infrastructure/storage"
	"hls-service/ddd/infrastructure/worker"
	"hls-service/ddd/domain/gateway"
	"hls-service/ddd/domain/port"
	"hls-service/internal/resource"
	"hls-service/pkg/config"
	"hls-service/pkg/kafka"
	"hls-service/pkg/logger"
	"hls-service/pkg/registry"
	"hls-service/pkg/task"
)

func Run() {
	fmt.Println("[STARTUP] Starting hls service...")

	// 加载配置
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	// 日志必须先于其他组件
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	logger.Infof("HLS service starting version=%s", "1.0.0")

	// ffmpeg 预检，缺失直接在启动阶段失败
	invoker := executor.NewFFmpegInvoker(cfg)
	if err := invoker.Preflight(); err != nil {
		logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set transcode.ffmpeg.binary_path error=%s", err.Error()))
	}

	// 资源初始化
	useMinio := strings.EqualFold(cfg.Publish.Strategy, "minio") || cfg.Minio.Endpoint != ""
	var minioRes *resource.MinioResource
	if useMinio {
		minioRes = resource.DefaultMinioResource()
		minioRes.MustOpen()
		defer minioRes.Close()
	}
	var redisRes *resource.RedisResource
	if cfg.Redis.Enabled {
		redisRes = resource.DefaultRedisResource()
		redisRes.MustOpen()
		defer redisRes.Close()
	}
	var kafkaRes *resource.KafkaResource
	if cfg.Kafka.Enabled {
		kafkaRes = &resource.KafkaResource{}
		kafkaRes.MustOpen()
		defer kafkaRes.Close()
		for _, topic := range []string{cfg.Kafka.Topics.ConvertJobs, cfg.Kafka.Topics.JobEvents} {
			if topic == "" {
				continue
			}
			if err := kafka.DefaultClient().EnsureTopic(topic, 1, 1); err != nil {
				logger.Warnf("Failed to ensure kafka topic topic=%s error=%v", topic, err)
			}
		}
	}
	logger.Infof("Resources initialized minio=%v redis=%v kafka=%v", useMinio, cfg.Redis.Enabled, cfg.Kafka.Enabled)

	// 显式装配依赖
	var storageGateway gateway.StorageGateway
	if minioRes != nil {
		storageGateway = storage.NewMinioStorage(minioRes)
	}
	var pub port.Publisher
	if strings.EqualFold(cfg.Publish.Strategy, "minio") {
		pub = publisher.NewMinioPublisher(storageGateway, cfg.Publish.BaseURL)
	} else {
		pub = publisher.NewLocalPublisher(cfg.Publish.BaseURL)
	}

	var sink *progress.RedisSink
	if redisRes != nil {
		sink = progress.NewRedisSink(redisRes.Client())
	}
	notifier := progress.NewLogNotifier()
	relay := progress.NewThrottledRelay(notifier, sink, cfg.Convert.ProgressInterval, cfg.Convert.ProgressMaxChars)

	orchestrator := service.NewOrchestrator(
		service.NewRenditionPlanner(cfg.Transcode.FFmpeg.AudioBitrate),
		invoker,
		relay,
		service.NewPlaylistAssembler(),
		pub,
		notifier,
		storageGateway,
		cfg.Convert.JobTimeout,
	)

	var events *progress.KafkaEventSink
	if cfg.Kafka.Enabled {
		events = progress.NewKafkaEventSink(cfg.Kafka.Topics.JobEvents)
	}

	jobQueue := queue.NewMemoryConversionJobQueue(cfg.Worker.QueueCapacity)
	convertWorker := worker.NewConvertWorker(cfg.Worker.WorkerID, orchestrator, jobQueue, sink, events, cfg.Worker.MaxConcurrentJobs)
	convertApp := appsvc.NewConvertApp(cfg, jobQueue)

	task.Register(convertWorker)
	if cfg.Kafka.Enabled {
		task.Register(component.NewConversionJobConsumer(convertApp))
	}
	if err := task.StartAll(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start background tasks error=%v", err))
	}

	// HTTP 服务
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()
	router := adapterhttp.NewRouter(cfg, convertApp, convertWorker)
	router.SetupMiddleware(engine)
	router.SetupRoutes(engine)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	logger.Infof("HTTP server started address=%s api_url=http://%s/api/v1", addr, addr)

	// 服务注册
	var serviceRegistry *registry.ServiceRegistry
	if cfg.ServiceRegistry.Enabled {
		serviceRegistry, err = registry.New(cfg.ServiceRegistry, addr)
		if err != nil {
			logger.Errorf("Failed to create service registry error=%v", err)
		} else if err := serviceRegistry.Register(); err != nil {
			logger.Errorf("Failed to register service error=%v", err)
		}
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			logger.Warnf("Failed to deregister service error=%v", err)
		}
	}

	// 先停后台任务再关队列，避免消费端在关闭的队列上空转
	task.StopAll()
	_ = jobQueue.Close()

	grace := cfg.Worker.ShutdownGracePeriod
	if grace <= 0 {
		grace = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")
	if logService != nil {
		logService.Close()
	}
	fmt.Println("[SHUTDOWN] HLS service exited safely")
}

// resolveConfigPath 根据环境选择配置文件，支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
