package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Models    ModelsConfig    `mapstructure:"models"`
	Media     MediaConfig     `mapstructure:"media"`
	LLM       LLMConfig       `mapstructure:"llm"`
	RAG       RAGConfig       `mapstructure:"rag"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	UploadDir   string   `mapstructure:"upload_dir"`
	MaxUploadMB int64    `mapstructure:"max_upload_mb"`
	LogLevel    string   `mapstructure:"log_level"`
	LogFormat   string   `mapstructure:"log_format"` // json | text
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type AuthConfig struct {
	RequireAPIKey bool   `mapstructure:"require_api_key"`
	APIKey        string `mapstructure:"api_key"`
	AdminKey      string `mapstructure:"admin_key"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres | redis
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ModelsConfig points at the exported ONNX graphs and the runtime library.
type ModelsConfig struct {
	ORTLibrary     string  `mapstructure:"ort_library"`
	FaceDetector   string  `mapstructure:"face_detector"`
	ImageModel     string  `mapstructure:"image_model"`
	VideoModel     string  `mapstructure:"video_model"`
	ImgSize        int     `mapstructure:"img_size"`
	NumFrames      int     `mapstructure:"num_frames"`
	MaxSeqLen      int     `mapstructure:"max_seq_len"`
	FaceConfidence float64 `mapstructure:"face_confidence"`
	Threads        int     `mapstructure:"threads"`
}

type MediaConfig struct {
	FFmpeg  string `mapstructure:"ffmpeg"`
	FFprobe string `mapstructure:"ffprobe"`
}

type LLMConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	EmbedModel     string `mapstructure:"embed_model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type RAGConfig struct {
	VectorDir       string `mapstructure:"vector_dir"`
	MaxWebResults   int    `mapstructure:"max_web_results"`
	TrustedK        int    `mapstructure:"trusted_k"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	SearchBaseURL   string `mapstructure:"search_base_url"`
}

type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// e.g. VERITAS_LLM_BASE_URL
	v.SetEnvPrefix("veritas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.upload_dir", "private")
	v.SetDefault("server.max_upload_mb", 100)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("auth.require_api_key", false)
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.admin_key", "")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database/audit.db")

	v.SetDefault("redis.key_prefix", "veritas")

	v.SetDefault("models.ort_library", "models/libonnxruntime.so")
	v.SetDefault("models.face_detector", "models/yolov8n-face.onnx")
	v.SetDefault("models.image_model", "models/image_model.onnx")
	v.SetDefault("models.video_model", "models/video_model.onnx")
	v.SetDefault("models.img_size", 160)
	v.SetDefault("models.num_frames", 20)
	v.SetDefault("models.max_seq_len", 400)
	v.SetDefault("models.face_confidence", 0.5)
	v.SetDefault("models.threads", 4)

	v.SetDefault("media.ffmpeg", "ffmpeg")
	v.SetDefault("media.ffprobe", "ffprobe")

	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.model", "qwen2.5vl:7b")
	v.SetDefault("llm.embed_model", "nomic-embed-text:latest")
	v.SetDefault("llm.timeout_seconds", 120)

	v.SetDefault("rag.vector_dir", "./chroma_db")
	v.SetDefault("rag.max_web_results", 10)
	v.SetDefault("rag.trusted_k", 2)
	v.SetDefault("rag.cache_ttl_seconds", 3600)
	v.SetDefault("rag.search_base_url", "https://html.duckduckgo.com")

	v.SetDefault("rate_limit.qps", 5)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
