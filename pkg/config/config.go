package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"BankBrain/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is built once at process start and passed down explicitly.
// Every binary loads the same struct and reads the sections it needs.
type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Service     string `yaml:"service"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Services struct {
		MCPURL      string `yaml:"mcp_url" default:"http://mcp-bank-server.bankbrain.svc.cluster.local" validate:"required,url"`
		A2AURL      string `yaml:"a2a_url" default:"http://a2a-gateway.bankbrain.svc.cluster.local" validate:"required,url"`
		SupportURL  string `yaml:"support_url" default:"http://support-agent.bankbrain.svc.cluster.local" validate:"required,url"`
		BankBaseURL string `yaml:"bank_base_url" default:"http://frontend.bank.svc.cluster.local" validate:"required,url"`
	} `yaml:"services"`
	Risk struct {
		SubjectID     string        `yaml:"subject_id" default:"user1" validate:"required"`
		PollInterval  time.Duration `yaml:"poll_interval" default:"30s" validate:"gt=0"`
		SinceDays     int           `yaml:"since_days" default:"1" validate:"gte=1"`
		ToolTimeout   time.Duration `yaml:"tool_timeout" default:"10s" validate:"gt=0"`
		NotifyTimeout time.Duration `yaml:"notify_timeout" default:"5s" validate:"gt=0"`
		Destination   string        `yaml:"destination" default:"support-agent" validate:"required"`
		Capability    string        `yaml:"capability" default:"notify_user" validate:"required"`
	} `yaml:"risk"`
	Gateway struct {
		ForwardTimeout time.Duration `yaml:"forward_timeout" default:"5s" validate:"gt=0"`
	} `yaml:"gateway"`
	Support struct {
		SinceDays   int           `yaml:"since_days" default:"30" validate:"gte=1"`
		ToolTimeout time.Duration `yaml:"tool_timeout" default:"10s" validate:"gt=0"`
		ChatRate    float64       `yaml:"chat_rate" default:"1" validate:"gt=0"`
		ChatBurst   int           `yaml:"chat_burst" default:"5" validate:"gte=1"`
	} `yaml:"support"`
	ToolServer struct {
		BankTimeout time.Duration `yaml:"bank_timeout" default:"10s" validate:"gt=0"`
		RateLimit   float64       `yaml:"rate_limit" default:"5" validate:"gt=0"`
		RateBurst   int           `yaml:"rate_burst" default:"5" validate:"gte=1"`
		CacheTTL    time.Duration `yaml:"cache_ttl" default:"0s" validate:"gte=0"`
		CacheSize   int           `yaml:"cache_size" default:"1000" validate:"gte=1"`
	} `yaml:"tool_server"`
	LLM struct {
		Provider string        `yaml:"provider" default:"mock" validate:"oneof=mock openai"`
		Project  string        `yaml:"project"`
		Location string        `yaml:"location" default:"us-central1"`
		Model    string        `yaml:"model" default:"gemini-2.5-pro"`
		BaseURL  string        `yaml:"base_url" validate:"omitempty,url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout" default:"60s" validate:"gt=0"`
	} `yaml:"llm"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		Prefix   string `yaml:"prefix" default:"bankbrain"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		AlertTopic   string        `yaml:"alert_topic" default:"bankbrain.anomalies"`
		LogTopic     string        `yaml:"log_topic"`
		Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		RequiredAcks int           `yaml:"required_acks" default:"-1" validate:"oneof=-1 0 1"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
}

var validate = validator.New()

// Default returns a config populated only from struct-tag defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load applies defaults, then the YAML file at path if path is not empty.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config like Load and overrides it with environment
// variables. A .env file in the working directory is read when present.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.ApplyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from the environment lookup function.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = util.ParseDurationDefault(v, *dst)
		}
	}

	setString("ENVIRONMENT", &c.Environment)
	if v := getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	setString("MCP_URL", &c.Services.MCPURL)
	setString("A2A_URL", &c.Services.A2AURL)
	setString("SUPPORT_URL", &c.Services.SupportURL)
	setString("BANK_BASE_URL", &c.Services.BankBaseURL)

	setString("TEST_USER_ID", &c.Risk.SubjectID)
	setDuration("POLL_INTERVAL", &c.Risk.PollInterval)
	if v := getenv("SINCE_DAYS"); v != "" {
		c.Risk.SinceDays = util.ParseIntDefault(v, c.Risk.SinceDays)
	}

	setString("LLM_PROVIDER", &c.LLM.Provider)
	setString("PROJECT_ID", &c.LLM.Project)
	setString("LOCATION", &c.LLM.Location)
	setString("MODEL_NAME", &c.LLM.Model)
	setString("LLM_BASE_URL", &c.LLM.BaseURL)
	setString("LLM_API_KEY", &c.LLM.APIKey)

	setDuration("BANK_CACHE_TTL", &c.ToolServer.CacheTTL)

	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	if v := getenv("REDIS_DB"); v != "" {
		c.Redis.DB = util.ParseIntDefault(v, c.Redis.DB)
	}

	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitNonEmpty(v, ",")
	}
	setString("KAFKA_ALERT_TOPIC", &c.Kafka.AlertTopic)
	setString("KAFKA_LOG_TOPIC", &c.Kafka.LogTopic)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.LLM.Provider == "openai" && c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required for provider 'openai'")
	}
	return nil
}
