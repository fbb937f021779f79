package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Log             LogConfig             `mapstructure:"log"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	Minio           MinioConfig           `mapstructure:"minio"`
	Transcode       TranscodeConfig       `mapstructure:"transcode"`
	Convert         ConvertConfig         `mapstructure:"convert"`
	Publish         PublishConfig         `mapstructure:"publish"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// ServiceRegistryConfig registration configuration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// TranscodeConfig 转码配置
type TranscodeConfig struct {
	FFmpeg FFmpegConfig `mapstructure:"ffmpeg"`
}

// FFmpegConfig FFmpeg相关配置
type FFmpegConfig struct {
	BinaryPath      string        `mapstructure:"binary_path"`
	TempDir         string        `mapstructure:"temp_dir"`
	Timeout         time.Duration `mapstructure:"timeout"`
	VideoCodec      string        `mapstructure:"video_codec"`
	VideoPreset     string        `mapstructure:"video_preset"`
	AudioBitrate    string        `mapstructure:"audio_bitrate"`
	SegmentDuration int           `mapstructure:"segment_duration"`
	GopSize         int           `mapstructure:"gop_size"`
	PadToExact      bool          `mapstructure:"pad_to_exact"`
}

// ConvertConfig 转换请求的默认行为
type ConvertConfig struct {
	DefaultQualities []string      `mapstructure:"default_qualities"`
	JobTimeout       time.Duration `mapstructure:"job_timeout"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	ProgressMaxChars int           `mapstructure:"progress_max_chars"`
}

// PublishConfig 产物发布配置
// Strategy: "local" 通过静态路由直出工作目录, "minio" 上传到对象存储
type PublishConfig struct {
	Strategy  string `mapstructure:"strategy"`
	OutputDir string `mapstructure:"output_dir"`
	BaseURL   string `mapstructure:"base_url"`
	RoutePath string `mapstructure:"route_path"`
}

// WorkerConfig Worker相关配置
type WorkerConfig struct {
	WorkerID            string        `mapstructure:"worker_id"`
	MaxConcurrentJobs   int           `mapstructure:"max_concurrent_jobs"`
	QueueCapacity       int           `mapstructure:"queue_capacity"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	BootstrapServers []string          `mapstructure:"bootstrap_servers"`
	ClientID         string            `mapstructure:"client_id"`
	GroupID          string            `mapstructure:"group_id"`
	Enabled          bool              `mapstructure:"enabled"`
	Topics           KafkaTopicsConfig `mapstructure:"topics"`
}

type KafkaTopicsConfig struct {
	ConvertJobs string `mapstructure:"convert_jobs"`
	JobEvents   string `mapstructure:"job_events"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("service_registry.enabled", false)
	viper.SetDefault("service_registry.service_name", "hls-service")
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.client_id", "hls-service")
	viper.SetDefault("kafka.group_id", "hls-service-group")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.convert_jobs", "hls.jobs")
	viper.SetDefault("kafka.topics.job_events", "hls.job.events")
	viper.SetDefault("publish.strategy", "local")
	viper.SetDefault("convert.default_qualities", []string{"480", "720"})

	// 设置环境变量前缀
	viper.SetEnvPrefix("HLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	// Worker相关默认值
	if c.Worker.MaxConcurrentJobs <= 0 {
		c.Worker.MaxConcurrentJobs = 2
	}
	if c.Worker.QueueCapacity <= 0 {
		c.Worker.QueueCapacity = c.Worker.MaxConcurrentJobs * 10
	}
	if c.Worker.ShutdownGracePeriod == 0 {
		c.Worker.ShutdownGracePeriod = 10 * time.Second
	}

	// FFmpeg默认值
	if c.Transcode.FFmpeg.TempDir == "" {
		c.Transcode.FFmpeg.TempDir = "/tmp/hls-service"
	}
	if c.Transcode.FFmpeg.BinaryPath == "" {
		c.Transcode.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Transcode.FFmpeg.VideoCodec == "" {
		c.Transcode.FFmpeg.VideoCodec = "libx264"
	}
	if c.Transcode.FFmpeg.VideoPreset == "" {
		c.Transcode.FFmpeg.VideoPreset = "veryfast"
	}
	if c.Transcode.FFmpeg.AudioBitrate == "" {
		c.Transcode.FFmpeg.AudioBitrate = "128k"
	}
	// 切片时长限定在 4-10 秒，单个任务内保持一致
	if c.Transcode.FFmpeg.SegmentDuration < 4 || c.Transcode.FFmpeg.SegmentDuration > 10 {
		c.Transcode.FFmpeg.SegmentDuration = 6
	}
	if c.Transcode.FFmpeg.GopSize <= 0 {
		c.Transcode.FFmpeg.GopSize = 48
	}

	if len(c.Convert.DefaultQualities) == 0 {
		c.Convert.DefaultQualities = []string{"480", "720"}
	}
	if c.Convert.ProgressInterval <= 0 {
		c.Convert.ProgressInterval = 3 * time.Second
	}
	if c.Convert.ProgressMaxChars <= 0 {
		c.Convert.ProgressMaxChars = 400
	}

	if c.Publish.Strategy == "" {
		c.Publish.Strategy = "local"
	}
	if c.Publish.OutputDir == "" {
		c.Publish.OutputDir = "hls_output"
	}
	if c.Publish.RoutePath == "" {
		c.Publish.RoutePath = "/hls"
	}

	if c.ServiceRegistry.ServiceName == "" {
		c.ServiceRegistry.ServiceName = "hls-service"
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.RefreshInterval == 0 {
		c.ServiceRegistry.RefreshInterval = 10 * time.Second
	}

	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:29092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "hls-service"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "hls-service-group"
	}
	if c.Kafka.Topics.ConvertJobs == "" {
		c.Kafka.Topics.ConvertJobs = "hls.jobs"
	}
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
