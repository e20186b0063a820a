package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Security Security `mapstructure:"security"`
	Engine   Engine   `mapstructure:"engine"`
	Text     Text     `mapstructure:"text"`
	Database Database `mapstructure:"database"`
	Storage  Storage  `mapstructure:"storage"`
	Kafka    Kafka    `mapstructure:"kafka"`
	Retry    Retry    `mapstructure:"retry"`
}

// Server holds HTTP server-related configuration.
type Server struct {
	HTTPPort string `mapstructure:"http_port"` // HTTP port to listen on
}

// Security holds the envelope encryption secret and the origin name
// stamped on outbound messages.
type Security struct {
	EncryptionKey string `mapstructure:"encryption_key"`
	Origin        string `mapstructure:"origin"`
}

// Engine holds tuning for the task worker and its periodic jobs.
type Engine struct {
	PollInterval      time.Duration `mapstructure:"poll_interval"`      // Queue poll interval when idle
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`   // Max wait for the worker to drain on stop
	ArchiveInterval   time.Duration `mapstructure:"archive_interval"`   // How often the archival sweep runs
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"` // How often the worker logs a heartbeat
	TemplateRefresh   time.Duration `mapstructure:"template_refresh"`   // How often campaign tables are rebuilt
	FontPath          string        `mapstructure:"font_path"`          // TTF font for image and video overlays
}

// Text holds configuration for the remote text completion service.
type Text struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Database holds database master and slave configuration.
type Database struct {
	Enabled bool           `mapstructure:"enabled"`
	Master  DatabaseNode   `mapstructure:"master"`
	Slaves  []DatabaseNode `mapstructure:"slaves"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DatabaseNode holds connection parameters for a single database node.
type DatabaseNode struct {
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	User    string `mapstructure:"user"`
	Pass    string `mapstructure:"pass"`
	Name    string `mapstructure:"name"`
	SSLMode string `mapstructure:"ssl_mode"`
}

// Storage holds configuration for the file storage backend.
type Storage struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// Kafka holds configuration for the Kafka message queue.
type Kafka struct {
	Enabled       bool     `mapstructure:"enabled"`        // Whether Kafka ingress/egress is wired
	GroupID       string   `mapstructure:"group_id"`       // Consumer group ID
	TaskTopic     string   `mapstructure:"task_topic"`     // Topic carrying inbound tasks
	EnvelopeTopic string   `mapstructure:"envelope_topic"` // Topic carrying outbound envelopes
	Brokers       []string `mapstructure:"brokers"`        // List of Kafka broker addresses
}

// Retry defines retry policy configuration.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

// DSN returns the PostgreSQL DSN string for connecting to this database node.
func (n DatabaseNode) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		n.User, n.Pass, n.Host, n.Port, n.Name, n.SSLMode,
	)
}

// mustBindEnv binds critical environment variables to Viper keys.
//
// It panics if any environment variable cannot be bound.
func mustBindEnv() {
	bindings := map[string]string{
		"security.encryption_key": "ENCRYPTION_KEY",
		"text.api_key":            "TEXT_API_KEY",
		"storage.access_key":      "STORAGE_ACCESS_KEY",
		"storage.secret_key":      "STORAGE_SECRET_KEY",
		"database.master.host":    "DB_HOST",
		"database.master.port":    "DB_PORT",
		"database.master.user":    "DB_USER",
		"database.master.pass":    "DB_PASSWORD",
		"database.master.name":    "DB_NAME",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			zlog.Logger.Panic().Err(err).Msgf("failed to bind env %s", env)
		}
	}
}

// MustLoad loads the configuration from the specified file path.
// It panics if the configuration file cannot be loaded or unmarshaled.
func MustLoad(path string) *Config {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to read config")
	}

	mustBindEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msgf("failed to unmarshal config: %v", err)
	}

	return &cfg
}
