package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Gemini    GeminiConfig    `yaml:"gemini"`
	Retry     RetryConfig     `yaml:"retry"`
	Reference ReferenceConfig `yaml:"reference"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Templates TemplatesConfig `yaml:"templates"`
}

// GeminiConfig は接続先とモデルの設定です。
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	Backend    string `yaml:"backend"` // gemini, vertex
	Project    string `yaml:"project"`
	Location   string `yaml:"location"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
}

// RetryConfig は画像生成呼び出しの再試行設定です。再試行は最大1回です。
type RetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	Backoff    string `yaml:"backoff"`
}

// ReferenceConfig は参照画像（ロゴ、ベース画像）の取り扱いです。
type ReferenceConfig struct {
	FetchTimeout           string `yaml:"fetch_timeout"`
	MaxBytes               int    `yaml:"max_bytes"`
	Compress               bool   `yaml:"compress"`
	CompressQuality        int    `yaml:"compress_quality"`
	CompressThresholdBytes int    `yaml:"compress_threshold_bytes"`
}

// ServerConfig は HTTP API の設定です。
type ServerConfig struct {
	Addr            string  `yaml:"addr"`
	ReadTimeout     string  `yaml:"read_timeout"`
	WriteTimeout    string  `yaml:"write_timeout"`
	ShutdownTimeout string  `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64   `yaml:"max_body_bytes"`
	RateLimit       float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst       int     `yaml:"rate_burst"`
}

// LoggingConfig はログ出力の設定です。
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TemplatesConfig はプロンプトテンプレートの上書きファイルです。
type TemplatesConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig は既定値の設定を返します。
func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Backend:    "gemini",
			Location:   "us-central1",
			TextModel:  "gemini-2.5-flash",
			ImageModel: "gemini-2.5-flash-image",
		},
		Retry: RetryConfig{
			MaxRetries: 1,
			Backoff:    "1s",
		},
		Reference: ReferenceConfig{
			FetchTimeout:           "15s",
			MaxBytes:               10 << 20,
			Compress:               true,
			CompressQuality:        75,
			CompressThresholdBytes: 4 << 20,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "30s",
			WriteTimeout:    "180s",
			ShutdownTimeout: "20s",
			MaxBodyBytes:    20 << 20,
			RateLimit:       2,
			RateBurst:       5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load は YAML ファイルから設定を読み込みます。
// ファイルが存在しない場合は既定値を使います。どちらの場合も環境変数が優先されます。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides は環境変数で設定を上書きします。
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	// GEMINI_API_KEY が両方ある場合は優先
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		c.Gemini.Project = project
	}
	if location := os.Getenv("GOOGLE_CLOUD_LOCATION"); location != "" {
		c.Gemini.Location = location
	}
	if addr := os.Getenv("INSTAPOST_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("INSTAPOST_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate は起動に必要な値が揃っているかを確認します。
func (c *Config) Validate() error {
	var errs []error

	switch c.Gemini.Backend {
	case "", "gemini":
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("gemini.api_key is required (or set GEMINI_API_KEY)"))
		}
	case "vertex":
		if c.Gemini.Project == "" {
			errs = append(errs, errors.New("gemini.project is required for the vertex backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("gemini.backend must be gemini or vertex, got %q", c.Gemini.Backend))
	}

	if r := c.Retry.MaxRetries; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("retry.max_retries must be 0 or 1, got %d", r))
	}
	if q := c.Reference.CompressQuality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("reference.compress_quality must be 1-100, got %d", q))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}

	for name, v := range map[string]string{
		"retry.backoff":           c.Retry.Backoff,
		"reference.fetch_timeout": c.Reference.FetchTimeout,
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// GetRetryBackoff は再試行までの待機時間を返します。
func (c *Config) GetRetryBackoff() time.Duration {
	return parseDuration(c.Retry.Backoff, time.Second)
}

// GetFetchTimeout は参照画像の取得タイムアウトを返します。
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDuration(c.Reference.FetchTimeout, 15*time.Second)
}

// GetReadTimeout は HTTP サーバーの読み込みタイムアウトを返します。
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 30*time.Second)
}

// GetWriteTimeout は HTTP サーバーの書き込みタイムアウトを返します。
// 画像生成は再試行を含めて時間がかかるため長めにしておきます。
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 180*time.Second)
}

// GetShutdownTimeout はグレースフルシャットダウンの猶予を返します。
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 20*time.Second)
}
