package config

import (
	"errors"
	"time"
)

// Realtime definition realtime_service YAML structure
type Realtime struct {
	Port           string `mapstructure:"port"`
	GRPCHealthPort string `mapstructure:"grpc_health_port"`
	PprofAddr      string `mapstructure:"pprof_addr"`
	NodeID         string `mapstructure:"node_id"`
	// Storage mongo or memory, memory keeps everything in process for local runs
	Storage string `mapstructure:"storage"`

	JWT       JWTConfig       `mapstructure:"jwt"`
	Session   SessionConfig   `mapstructure:"session"`
	Chat      ChatConfig      `mapstructure:"chat"`
	MongoSQL  DatabaseConfig  `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Directory DatabaseConfig  `mapstructure:"directory"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Events    EventsConfig    `mapstructure:"events"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Profiles  ProfileCacheTTL `mapstructure:"profiles"`
}

// JWTConfig definition token verify setting
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// SessionConfig definition websocket session setting
type SessionConfig struct {
	PingInterval     time.Duration `mapstructure:"ping_interval"`
	HeartbeatTimeout time.Duration `mapstructure:"heartbeat_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	SendQueueSize    int           `mapstructure:"send_queue_size"`
	ReadLimit        int64         `mapstructure:"read_limit"`
}

// ChatConfig definition chat engine limits
type ChatConfig struct {
	MaxMessageLength int           `mapstructure:"max_message_length"`
	DefaultPageSize  int           `mapstructure:"default_page_size"`
	MaxPageSize      int           `mapstructure:"max_page_size"`
	AttachmentTTL    time.Duration `mapstructure:"attachment_ttl"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	RedisDB       int    `mapstructure:"redis_db"`
	RetryCount    int    `mapstructure:"retry_count"`
	RetryInterval int    `mapstructure:"retry_interval"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition minio setting, empty host disables attachment signing
type MinIOConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	BucketName    string `mapstructure:"bucket_name"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryCount    int    `mapstructure:"retry_count"`
	RetryInterval int    `mapstructure:"retry_interval"`
}

// EventsConfig choose domain event ingress: kafka, rabbitmq, none
type EventsConfig struct {
	Driver string `mapstructure:"driver"`
}

// KafkaConfig definition kafka consumer setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	GroupID       string   `mapstructure:"group_id"`
	RetryCount    int      `mapstructure:"retry_count"`
	RetryInterval int      `mapstructure:"retry_interval"`
}

// RabbitMQConfig definition rabbitmq consumer setting
type RabbitMQConfig struct {
	IP            string `mapstructure:"ip"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Queue         string `mapstructure:"queue"`
	RetryCount    int    `mapstructure:"retry_count"`
	RetryInterval int    `mapstructure:"retry_interval"`
}

// RelayConfig enable cross node push through redis pub/sub
type RelayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ProfileCacheTTL definition actor profile cache
type ProfileCacheTTL struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ApplyDefaults fill zero values with service defaults
func (c *Realtime) ApplyDefaults() {
	if c.Port == "" {
		c.Port = "8082"
	}
	if c.Session.PingInterval <= 0 {
		c.Session.PingInterval = 25 * time.Second
	}
	if c.Session.HeartbeatTimeout <= 0 {
		c.Session.HeartbeatTimeout = 60 * time.Second
	}
	if c.Session.WriteTimeout <= 0 {
		c.Session.WriteTimeout = 10 * time.Second
	}
	if c.Session.SendQueueSize <= 0 {
		c.Session.SendQueueSize = 256
	}
	if c.Session.ReadLimit <= 0 {
		c.Session.ReadLimit = 16 << 10
	}
	if c.Chat.MaxMessageLength <= 0 {
		c.Chat.MaxMessageLength = 4000
	}
	if c.Chat.DefaultPageSize <= 0 {
		c.Chat.DefaultPageSize = 50
	}
	if c.Chat.MaxPageSize <= 0 {
		c.Chat.MaxPageSize = 100
	}
	if c.Chat.AttachmentTTL <= 0 {
		c.Chat.AttachmentTTL = 15 * time.Minute
	}
	if c.Storage == "" {
		c.Storage = "mongo"
	}
	if c.Events.Driver == "" {
		c.Events.Driver = "none"
	}
	if c.Profiles.TTL <= 0 {
		c.Profiles.TTL = 10 * time.Minute
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "member_service"
	}
}

// Validate settings without a usable default, call after ApplyDefaults
func (c *Realtime) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	return nil
}
