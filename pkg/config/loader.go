package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo realtime_service 部署設定 from .env
type EnvInfo struct {
	// RealtimeService service name, also the yaml file name and health service name
	RealtimeService string
	// RealtimeServicePort overrides yaml port when set
	RealtimeServicePort     string
	RealtimeServiceYAMLPath string
	RealtimeServiceLogPath  string
	// Env local / production
	Env string
}

// EnvConfig loaded once at start up
var (
	EnvConfig = initEnv()
	envConfig EnvInfo
	once      sync.Once
)

func initEnv() EnvInfo {
	once.Do(func() {
		// 由目前目錄往上找 .env, 找不到就只用系統環境變數
		if path, err := GetPath(".env", 5); err != nil {
			log.Printf("Warning: Could not get .env path: %v", err)
		} else if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}

		envConfig = EnvInfo{
			RealtimeService:         getEnv("REALTIME_SERVICE", "realtime_service"),
			RealtimeServicePort:     os.Getenv("REALTIME_SERVICE_PORT"),
			RealtimeServiceYAMLPath: getEnv("REALTIME_SERVICE_YAML", "./deploy/config"),
			RealtimeServiceLogPath:  getEnv("REALTIME_SERVICE_LOG", "./log"),
			Env:                     getEnv("ENV", "local"),
		}
	})

	return envConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProduction pprof and debug helpers stay off
func IsProduction() bool {
	return EnvConfig.Env == "production"
}

// EnvPrefix env override prefix, REALTIME_SESSION_PING_INTERVAL overrides session.ping_interval
const EnvPrefix = "REALTIME"

// LoadConfig 加載配置, 失敗直接結束程序
func LoadConfig[T any](serviceName string, configPath string) T {
	cfg, err := ReadConfig[T](serviceName, configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

// ReadConfig 讀取 <configPath>/<serviceName>.yaml, ${} 占位符換成環境變數
func ReadConfig[T any](serviceName string, configPath string) (T, error) {
	var cfg T

	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// 自動讀取環境變數
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read %s config: %w", serviceName, err)
	}

	rawConfig, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		return cfg, fmt.Errorf("read raw config: %w", err)
	}

	// 使用 Viper 再次解析替換後的配置
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(rawConfig)))); err != nil {
		return cfg, fmt.Errorf("parse expanded config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// GetRedisSetting sentinel master name and addrs from REDIS_SENTINEL*_IP / _PORT pairs, empty when none
func GetRedisSetting() (string, []string) {
	// .env 已由 EnvConfig 載入
	var sentinelAddrs []string
	for _, kv := range os.Environ() {
		key, ip, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "REDIS_SENTINEL") || !strings.HasSuffix(key, "_IP") {
			continue
		}
		if port := os.Getenv(strings.TrimSuffix(key, "_IP") + "_PORT"); port != "" && ip != "" {
			sentinelAddrs = append(sentinelAddrs, ip+":"+port)
		}
	}
	if len(sentinelAddrs) == 0 {
		return "", nil
	}
	sort.Strings(sentinelAddrs)

	return getEnv("REDIS_MASTER_NAME", "mymaster"), sentinelAddrs
}

// GetPath use fileName loop maxCount find file path
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + ": can't find path")
}
