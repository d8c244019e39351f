package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/geo-dev/geo/internal/errors"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "geo"

	// EnvPrefix prefixes environment overrides of file settings.
	EnvPrefix = "GEO"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultLLMBaseURL is the OpenAI-compatible endpoint used for scoring.
	DefaultLLMBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

	// DefaultLLMModel is the default chat model.
	DefaultLLMModel = "qwen-plus"
)

// Config is the complete geo configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Routes    RoutesConfig    `mapstructure:"routes"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Publish   PublishConfig   `mapstructure:"publish"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`

	// Env holds deploy-time environment values.
	Env Env `mapstructure:"-"`

	path string
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// DevMode enables pretty HTML output and text logs.
	DevMode bool `mapstructure:"dev_mode"`
}

// RoutesConfig configures the route table.
type RoutesConfig struct {
	// History is "web" (real URL paths) or "hash" (fragment URLs).
	History     string        `mapstructure:"history"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
	// Preload loads every view at start-up instead of on first activation.
	Preload bool `mapstructure:"preload"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LLMConfig holds settings of the OpenAI-compatible chat endpoint.
type LLMConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	APIKeyEnv string        `mapstructure:"api_key_env"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ResolvedAPIKey returns the configured key, falling back to the variable
// named by APIKeyEnv.
func (c LLMConfig) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.APIKeyEnv != "" {
		return os.Getenv(c.APIKeyEnv)
	}
	return ""
}

// PublishConfig selects where published articles are written.
type PublishConfig struct {
	// Backend is "disk" or "s3".
	Backend string `mapstructure:"backend"`
	// Dir is the output directory of the disk backend.
	Dir string `mapstructure:"dir"`
	// PublicURL prefixes object keys to form the published URL.
	PublicURL string   `mapstructure:"public_url"`
	S3        S3Config `mapstructure:"s3"`
}

// S3Config configures the S3 publish backend. Credentials come from Env.
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	// PathStyle addresses buckets by path, as S3-compatible stores require.
	PathStyle bool `mapstructure:"path_style"`
}

// SchedulerConfig configures daily task generation.
type SchedulerConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	RunOnStartup bool `mapstructure:"run_on_startup"`
	// Hour and Minute of the daily run, in local time.
	Hour   int `mapstructure:"hour"`
	Minute int `mapstructure:"minute"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", DefaultAddress)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.dev_mode", false)

	v.SetDefault("routes.history", "web")
	v.SetDefault("routes.load_timeout", 10*time.Second)
	v.SetDefault("routes.preload", false)

	v.SetDefault("database.path", "geo.db")

	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.api_key_env", "DASHSCOPE_API_KEY")
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("publish.backend", "disk")
	v.SetDefault("publish.dir", "published")
	v.SetDefault("publish.public_url", "")
	v.SetDefault("publish.s3.bucket", "")
	v.SetDefault("publish.s3.prefix", "articles/")
	v.SetDefault("publish.s3.region", "us-east-1")
	v.SetDefault("publish.s3.endpoint", "")
	v.SetDefault("publish.s3.path_style", false)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.run_on_startup", true)
	v.SetDefault("scheduler.hour", 0)
	v.SetDefault("scheduler.minute", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Default returns the configuration with only built-in defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// defaults always decode
	_ = v.Unmarshal(&c)
	c.Env = Env{BaseURL: "/", ServiceName: "geo"}
	return &c
}

// Load reads configuration from path, or from geo.yaml in the working
// directory when path is empty. A missing geo.yaml is not an error; a
// missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("E120").
				WithDetail(err.Error()).
				WithSuggestion("Check that the configuration file exists and is valid YAML").
				Wrap(err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.New("E120").
			WithDetail(fmt.Sprintf("decode configuration: %v", err)).
			Wrap(err)
	}
	c.path = v.ConfigFileUsed()

	if err := ParseEnv(&c.Env); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Path returns the file the configuration was read from, or "".
func (c *Config) Path() string {
	return c.path
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("E122").WithDetail(fmt.Sprintf(format, args...))
	}
	switch c.Routes.History {
	case "web", "hash":
	default:
		return invalid("routes.history must be \"web\" or \"hash\", got %q", c.Routes.History)
	}
	if c.Routes.LoadTimeout < 0 {
		return invalid("routes.load_timeout must not be negative")
	}
	switch c.Publish.Backend {
	case "disk":
		if c.Publish.Dir == "" {
			return invalid("publish.dir is required for the disk backend")
		}
	case "s3":
		if c.Publish.S3.Bucket == "" {
			return invalid("publish.s3.bucket is required for the s3 backend")
		}
	default:
		return invalid("publish.backend must be \"disk\" or \"s3\", got %q", c.Publish.Backend)
	}
	if c.Scheduler.Hour < 0 || c.Scheduler.Hour > 23 || c.Scheduler.Minute < 0 || c.Scheduler.Minute > 59 {
		return invalid("scheduler time %02d:%02d is out of range", c.Scheduler.Hour, c.Scheduler.Minute)
	}
	if c.Database.Path == "" {
		return invalid("database.path is required")
	}
	return nil
}
