// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	once         sync.Once
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Crypto    CryptoConfig    `mapstructure:"crypto"`
	Upload    UploadConfig    `mapstructure:"upload"`
	OSS       OSSConfig       `mapstructure:"oss"`
	SMS       SMSConfig       `mapstructure:"sms"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Business  BusinessConfig  `mapstructure:"business"`
}

// ServerConfig HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Name            string `mapstructure:"name"`
	Mode            string `mapstructure:"mode"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig database settings.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogMode         bool   `mapstructure:"log_mode"`
	SlowThreshold   int    `mapstructure:"slow_threshold"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// DSN returns the postgres connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Timezone,
	)
}

// RedisConfig Redis settings. Timeouts are in seconds.
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  int    `mapstructure:"dial_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// Addr returns host:port.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig token settings. AccessTokenExpire is in hours.
type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	AccessTokenExpire int    `mapstructure:"access_token_expire"`
	Issuer            string `mapstructure:"issuer"`
}

// AccessTokenDuration returns the token lifetime.
func (j *JWTConfig) AccessTokenDuration() time.Duration {
	return time.Duration(j.AccessTokenExpire) * time.Hour
}

// CryptoConfig password hashing settings.
type CryptoConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// UploadConfig image upload settings. Sizes are in bytes.
type UploadConfig struct {
	Driver         string `mapstructure:"driver"` // local, oss
	Dir            string `mapstructure:"dir"`
	PublicPrefix   string `mapstructure:"public_prefix"`
	ListingMaxSize int64  `mapstructure:"listing_max_size"`
	ProfileMaxSize int64  `mapstructure:"profile_max_size"`
	MaxFiles       int    `mapstructure:"max_files"`
}

// OSSConfig Aliyun OSS settings, used when upload.driver is oss.
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	Bucket          string `mapstructure:"bucket"`
	CustomDomain    string `mapstructure:"custom_domain"`
	BasePath        string `mapstructure:"base_path"`
}

// SMSConfig agent decision notifications.
type SMSConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	AccessKeyID           string `mapstructure:"access_key_id"`
	AccessKeySecret       string `mapstructure:"access_key_secret"`
	SignName              string `mapstructure:"sign_name"`
	Endpoint              string `mapstructure:"endpoint"`
	AgentApprovedTemplate string `mapstructure:"agent_approved_template"`
	AgentRejectedTemplate string `mapstructure:"agent_rejected_template"`
}

// MQTTConfig lifecycle event publishing.
type MQTTConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Broker         string `mapstructure:"broker"`
	ClientID       string `mapstructure:"client_id"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	QoS            byte   `mapstructure:"qos"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
	TopicPrefix    string `mapstructure:"topic_prefix"`
}

// LoggerConfig logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Caller     bool   `mapstructure:"caller"`
}

// MetricsConfig Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// TracingConfig OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RateLimitConfig limits for the auth endpoints. AuthWindow is in seconds.
type RateLimitConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	AuthLimit  int  `mapstructure:"auth_limit"`
	AuthWindow int  `mapstructure:"auth_window"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// CacheConfig TTLs in seconds.
type CacheConfig struct {
	PublicStatsTTL int `mapstructure:"public_stats_ttl"`
}

// SchedulerConfig background task settings. StatsInterval is in seconds.
type SchedulerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	StatsInterval int  `mapstructure:"stats_interval"`
}

// BusinessConfig domain rules.
type BusinessConfig struct {
	Booking BookingConfig `mapstructure:"booking"`
}

// BookingConfig booking lifecycle rules.
type BookingConfig struct {
	StrictTransitions bool `mapstructure:"strict_transitions"`
	ReferenceRetries  int  `mapstructure:"reference_retries"`
}

// Load reads the configuration once. An empty path searches ./configs and the
// working directory for config.yaml; a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath("./configs")
			v.AddConfigPath(".")
		}

		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return
			}
			err = nil
		}

		globalConfig = &Config{}
		err = v.Unmarshal(globalConfig)
	})

	return globalConfig, err
}

// Get returns the loaded configuration, or defaults when Load was never called.
func Get() *Config {
	if globalConfig == nil {
		globalConfig = Defaults()
	}
	return globalConfig
}

// Defaults builds a configuration from defaults only.
func Defaults() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "rental-marketplace")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 30)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "rental_marketplace")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.sqlite_path", "./data/marketplace.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.slow_threshold", 200)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_token_expire", 24)
	v.SetDefault("jwt.issuer", "rental-marketplace")

	v.SetDefault("crypto.bcrypt_cost", 10)

	v.SetDefault("upload.driver", "local")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.public_prefix", "/uploads")
	v.SetDefault("upload.listing_max_size", 5*1024*1024)
	v.SetDefault("upload.profile_max_size", 2*1024*1024)
	v.SetDefault("upload.max_files", 5)

	v.SetDefault("sms.enabled", false)
	v.SetDefault("sms.endpoint", "dysmsapi.aliyuncs.com")
	v.SetDefault("sms.agent_approved_template", "SMS_AGENT_APPROVED")
	v.SetDefault("sms.agent_rejected_template", "SMS_AGENT_REJECTED")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "rental-marketplace-api")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.connect_timeout", 10)
	v.SetDefault("mqtt.topic_prefix", "rental")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "./logs/app.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.caller", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "rental_marketplace")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "rental-marketplace")
	v.SetDefault("tracing.sample_rate", 1.0)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.auth_limit", 20)
	v.SetDefault("ratelimit.auth_window", 60)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)

	v.SetDefault("cache.public_stats_ttl", 60)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.stats_interval", 60)

	v.SetDefault("business.booking.strict_transitions", true)
	v.SetDefault("business.booking.reference_retries", 5)
}

// IsDebug reports debug mode.
func (c *Config) IsDebug() bool {
	return c.Server.Mode == "debug"
}

// IsRelease reports release mode.
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}
