package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings shared by all four service modes. Each mode
// reads only the sections it needs; the HTTP section carries one port per
// service so a single config file can drive the whole deployment.
type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	RabbitMQ struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
	} `mapstructure:"rabbitmq"`

	HTTP struct {
		CustomerPort   int `mapstructure:"customer_port"`
		RestaurantPort int `mapstructure:"restaurant_port"`
		OrderPort      int `mapstructure:"order_port"`
		DeliveryPort   int `mapstructure:"delivery_port"`
	} `mapstructure:"http"`

	// Base URLs for the synchronous lookup calls between services.
	Services struct {
		CustomerURL   string `mapstructure:"customer_url"`
		RestaurantURL string `mapstructure:"restaurant_url"`
	} `mapstructure:"services"`
}

// Load reads the YAML config at path, applies environment overrides
// (QUICKEATS_DATABASE_HOST and friends), defaults, and validation.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("QUICKEATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// AMQPURL renders the broker URL from the rabbitmq section.
func (c *Config) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}
	if cfg.HTTP.CustomerPort == 0 {
		cfg.HTTP.CustomerPort = 3001
	}
	if cfg.HTTP.RestaurantPort == 0 {
		cfg.HTTP.RestaurantPort = 3002
	}
	if cfg.HTTP.OrderPort == 0 {
		cfg.HTTP.OrderPort = 3003
	}
	if cfg.HTTP.DeliveryPort == 0 {
		cfg.HTTP.DeliveryPort = 3004
	}
	if cfg.Services.CustomerURL == "" {
		cfg.Services.CustomerURL = fmt.Sprintf("http://localhost:%d", cfg.HTTP.CustomerPort)
	}
	if cfg.Services.RestaurantURL == "" {
		cfg.Services.RestaurantURL = fmt.Sprintf("http://localhost:%d", cfg.HTTP.RestaurantPort)
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.name is required")
	}
	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "rabbitmq.port must be in 1..65535")
	}
	if c.RabbitMQ.User == "" {
		problems = append(problems, "rabbitmq.user is required")
	}
	if c.RabbitMQ.Password == "" {
		problems = append(problems, "rabbitmq.password is required")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
