// Package config reads process configuration from VAXREG_* environment
// variables and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	pstrings "vaxreg/pkg/platform/strings"
)

const envPrefix = "VAXREG"

const (
	StoreFlatFile = "flatfile"
	StorePostgres = "postgres"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Log      Log
	Store    Store
	Reminder Reminder
	Redis    RedisConfig
	Kafka    Kafka
	AMQP     AMQP
	// SeedDefaultCenters adds the two demo centers when none exist.
	SeedDefaultCenters bool
}

type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type Log struct {
	Level  string
	Format string
}

type Store struct {
	Kind        string
	DataDir     string
	DatabaseURL string
}

type Reminder struct {
	InitialDelay    time.Duration
	Period          time.Duration
	ShutdownTimeout time.Duration
	// NotifyTimeout bounds each delivery attempt of one reminder.
	NotifyTimeout   time.Duration
	Dedupe          bool
}

type RedisConfig struct {
	URL          string
	Stream       string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
}

type AMQP struct {
	URL   string
	Queue string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("server_shutdown_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("store", StoreFlatFile)
	v.SetDefault("data_dir", ".")
	v.SetDefault("database_url", "")
	v.SetDefault("reminder_initial_delay", 2*time.Second)
	v.SetDefault("reminder_period", 10*time.Second)
	v.SetDefault("reminder_shutdown_timeout", 5*time.Second)
	v.SetDefault("reminder_notify_timeout", 5*time.Second)
	v.SetDefault("reminder_dedupe", false)
	v.SetDefault("redis_url", "")
	v.SetDefault("redis_stream", "vaxreg:reminders")
	v.SetDefault("redis_pool_size", 10)
	v.SetDefault("redis_min_idle_conns", 2)
	v.SetDefault("redis_dial_timeout", 5*time.Second)
	v.SetDefault("redis_read_timeout", 3*time.Second)
	v.SetDefault("redis_write_timeout", 3*time.Second)
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "vaxreg.reminders")
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_queue", "vaxreg.reminders")
	v.SetDefault("seed_default_centers", true)
}

// FromEnv builds the configuration from the environment. VAXREG_CONFIG_FILE
// names an optional file (any format viper reads); environment variables win
// over it.
func FromEnv() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Server: Server{
			Addr:            v.GetString("addr"),
			ShutdownTimeout: v.GetDuration("server_shutdown_timeout"),
		},
		Log: Log{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Store: Store{
			Kind:        strings.ToLower(v.GetString("store")),
			DataDir:     v.GetString("data_dir"),
			DatabaseURL: v.GetString("database_url"),
		},
		Reminder: Reminder{
			InitialDelay:    v.GetDuration("reminder_initial_delay"),
			Period:          v.GetDuration("reminder_period"),
			ShutdownTimeout: v.GetDuration("reminder_shutdown_timeout"),
			NotifyTimeout:   v.GetDuration("reminder_notify_timeout"),
			Dedupe:          v.GetBool("reminder_dedupe"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis_url"),
			Stream:       v.GetString("redis_stream"),
			PoolSize:     v.GetInt("redis_pool_size"),
			MinIdleConns: v.GetInt("redis_min_idle_conns"),
			DialTimeout:  v.GetDuration("redis_dial_timeout"),
			ReadTimeout:  v.GetDuration("redis_read_timeout"),
			WriteTimeout: v.GetDuration("redis_write_timeout"),
		},
		Kafka: Kafka{
			Brokers: pstrings.SplitList(v.GetString("kafka_brokers"), ","),
			Topic:   v.GetString("kafka_topic"),
		},
		AMQP: AMQP{
			URL:   v.GetString("amqp_url"),
			Queue: v.GetString("amqp_queue"),
		},
		SeedDefaultCenters: v.GetBool("seed_default_centers"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations the process cannot start with.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreFlatFile:
		if c.Store.DataDir == "" {
			return fmt.Errorf("VAXREG_DATA_DIR must not be empty")
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("VAXREG_DATABASE_URL is required when VAXREG_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown VAXREG_STORE %q (want %s or %s)", c.Store.Kind, StoreFlatFile, StorePostgres)
	}
	if c.Reminder.Period <= 0 {
		return fmt.Errorf("VAXREG_REMINDER_PERIOD must be positive")
	}
	return nil
}
