package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Realtime
	cfg.ApplyDefaults()

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, "mongo", cfg.Storage)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, 25*time.Second, cfg.Session.PingInterval)
	assert.Equal(t, 60*time.Second, cfg.Session.HeartbeatTimeout)
	assert.Equal(t, 256, cfg.Session.SendQueueSize)
	assert.Equal(t, 50, cfg.Chat.DefaultPageSize)
	assert.Equal(t, 100, cfg.Chat.MaxPageSize)

	custom := Realtime{Port: "9000", Chat: ChatConfig{MaxPageSize: 20}}
	custom.ApplyDefaults()
	assert.Equal(t, "9000", custom.Port)
	assert.Equal(t, 20, custom.Chat.MaxPageSize)
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	var cfg Realtime
	cfg.ApplyDefaults()
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
port: "8090"
storage: memory
jwt:
  secret: "${TEST_REALTIME_SECRET}"
session:
  ping_interval: 5s
kafka:
  brokers:
    - "broker-1:9092"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "realtime_test.yaml"), []byte(yaml), 0o644))
	t.Setenv("TEST_REALTIME_SECRET", "s3cr3t")

	cfg := LoadConfig[Realtime]("realtime_test", dir)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, 5*time.Second, cfg.Session.PingInterval)
	assert.Equal(t, []string{"broker-1:9092"}, cfg.Kafka.Brokers)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig[Realtime]("realtime_missing", t.TempDir())
	assert.Error(t, err)
}

func TestEnvPrefixOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "realtime_env.yaml"), []byte("storage: mongo\nsession:\n  send_queue_size: 8\n"), 0o644))
	t.Setenv("REALTIME_STORAGE", "memory")

	cfg, err := ReadConfig[Realtime]("realtime_env", dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, 8, cfg.Session.SendQueueSize)
}

func TestGetRedisSetting(t *testing.T) {
	t.Setenv("REDIS_SENTINEL2_IP", "10.0.0.2")
	t.Setenv("REDIS_SENTINEL2_PORT", "26379")
	t.Setenv("REDIS_SENTINEL1_IP", "10.0.0.1")
	t.Setenv("REDIS_SENTINEL1_PORT", "26379")
	t.Setenv("REDIS_SENTINEL3_IP", "10.0.0.3")
	t.Setenv("REDIS_MASTER_NAME", "")

	master, addrs := GetRedisSetting()
	assert.Equal(t, "mymaster", master)
	assert.Equal(t, []string{"10.0.0.1:26379", "10.0.0.2:26379"}, addrs)
}

func TestGetPath(t *testing.T) {
	_, err := GetPath("definitely_missing_file.cfg", 2)
	assert.Error(t, err)
}
