package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// DefaultLLMRequestTimeout bounds a single provider call when
// llm.requestTimeout is unset.
const DefaultLLMRequestTimeout = 30 * time.Second

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			URL      string `mapstructure:"url"`
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMODE  string `mapstructure:"SSLMODE"`
			MaxConns int32  `mapstructure:"maxConns"`
			Echo     bool   `mapstructure:"echo"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout     time.Duration `mapstructure:"ReadTimeout"`
		WriteTimeout    time.Duration `mapstructure:"WriteTimeout"`
		IdleTimeout     time.Duration `mapstructure:"IdleTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"ShutdownTimeout"`
	} `mapstructure:"server"`
	LLM       LLMConfig `mapstructure:"llm"`
	Retry     struct {
		MaxAttempts int           `mapstructure:"maxAttempts"`
		Wait        time.Duration `mapstructure:"wait"`
	} `mapstructure:"retry"`
	Cache struct {
		TTL             time.Duration `mapstructure:"ttl"`
		CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
	} `mapstructure:"cache"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"ratelimit"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
}

// LLMConfig selects and configures the place generation provider.
type LLMConfig struct {
	Provider       string        `mapstructure:"provider"`
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"apiKey"`
	BaseURL        string        `mapstructure:"baseURL"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	Gemini         struct {
		APIKey string `mapstructure:"apiKey"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`
}

func InitConfig() (Config, error) {
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"mode":                      "APP_ENV",
		"llm.apiKey":                "OPENAI_API_KEY",
		"llm.gemini.apiKey":         "GEMINI_API_KEY",
		"repositories.postgres.url": "DATABASE_URL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	var config Config
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.HTTPPort", "8000")
	v.SetDefault("server.HTTPTimeout", 120*time.Second)
	v.SetDefault("server.ReadTimeout", 5*time.Second)
	v.SetDefault("server.WriteTimeout", 130*time.Second)
	v.SetDefault("server.IdleTimeout", 120*time.Second)
	v.SetDefault("server.ShutdownTimeout", 10*time.Second)
	v.SetDefault("handlers.prometheus.port", "9090")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-3.5-turbo-1106")
	v.SetDefault("llm.requestTimeout", DefaultLLMRequestTimeout)
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("retry.maxAttempts", 3)
	v.SetDefault("retry.wait", 2*time.Second)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.cleanupInterval", 20*time.Minute)
	v.SetDefault("ratelimit.requests", 60)
	v.SetDefault("ratelimit.window", time.Minute)
}

// Validate checks the settings the process cannot start without.
func (c Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("OPENAI_API_KEY is not set")
		}
	case "gemini":
		if c.LLM.Gemini.APIKey == "" {
			return errors.New("GEMINI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Repositories.Postgres.URL == "" && c.Repositories.Postgres.Host == "" {
		return errors.New("no database configured: set DATABASE_URL or repositories.postgres.host")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.maxAttempts must be >= 1, got %d", c.Retry.MaxAttempts)
	}
	// a request deadline inside the retry budget turns provider failures
	// into timeouts before the last attempt runs
	if budget := c.GenerationBudget(); c.Server.Timeout <= budget {
		return fmt.Errorf("server.HTTPTimeout (%s) must exceed the generation budget (%s)", c.Server.Timeout, budget)
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < c.Server.Timeout {
		return fmt.Errorf("server.WriteTimeout (%s) must not be shorter than server.HTTPTimeout (%s)", c.Server.WriteTimeout, c.Server.Timeout)
	}
	return nil
}

// GenerationBudget is the longest a generation can take when every attempt
// runs into the provider timeout: maxAttempts calls plus the waits between
// them.
func (c Config) GenerationBudget() time.Duration {
	perCall := c.LLM.RequestTimeout
	if perCall <= 0 {
		perCall = DefaultLLMRequestTimeout
	}
	attempts := time.Duration(max(c.Retry.MaxAttempts, 1))
	return attempts*perCall + (attempts-1)*c.Retry.Wait
}
