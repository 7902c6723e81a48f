// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/pkg/nacos"
)

// Config 是所有服务共享的配置结构。
// 本地 YAML 提供默认值，Nacos 配置中心（如果启用）可以覆盖并热更新。
type Config struct {
	App struct {
		PaymentTimeout time.Duration `yaml:"paymentTimeout"`
		FeatureFlags   struct {
			// EnableAtomicStockGate 为 true 时使用 Redis 条件扣减网关，
			// 否则退回到读-检查-写的目录服务网关（存在并发超卖窗口）。
			EnableAtomicStockGate bool `yaml:"enableAtomicStockGate"`
			// EnableSkuLock 为 true 时在库存网关外层套一把按 SKU 的分布式锁。
			EnableSkuLock bool `yaml:"enableSkuLock"`
		} `yaml:"featureFlags"`
	} `yaml:"app"`

	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Kafka struct {
			Brokers []string `yaml:"brokers"`
		} `yaml:"kafka"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Mysql struct {
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Addr     string `yaml:"addr"`
			Database string `yaml:"database"`
		} `yaml:"mysql"`
		Zookeeper struct {
			Servers []string `yaml:"servers"`
		} `yaml:"zookeeper"`
	} `yaml:"infra"`
}

var currentConfig atomic.Value // *Config

// GetCurrentConfig 返回当前生效的配置快照。
func GetCurrentConfig() *Config {
	if c, ok := currentConfig.Load().(*Config); ok {
		return c
	}
	return defaultConfig()
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.PaymentTimeout = 10 * time.Minute
	cfg.App.FeatureFlags.EnableAtomicStockGate = true
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	cfg.Infra.Kafka.Brokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Infra.Mysql.User = getEnv("MYSQL_USER", "root")
	cfg.Infra.Mysql.Password = getEnv("MYSQL_PASSWORD", "")
	cfg.Infra.Mysql.Addr = getEnv("MYSQL_ADDR", "localhost:3306")
	cfg.Infra.Mysql.Database = getEnv("MYSQL_DATABASE", "streamcart")
	cfg.Infra.Zookeeper.Servers = strings.Split(getEnv("ZK_SERVERS", "localhost:2181"), ",")
	return cfg
}

// Init 加载配置：默认值 <- 本地 YAML 文件 (CONFIG_PATH) 的顺序合并。
// Nacos 配置中心的覆盖在 StartService 中接线，因为那时才有客户端。
func Init() {
	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Logger().Fatal().Err(err).Str("path", path).Msg("failed to read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.Logger().Fatal().Err(err).Str("path", path).Msg("failed to parse config file")
		}
	}
	currentConfig.Store(cfg)
}

// watchRemoteConfig 从 Nacos 配置中心拉取配置并监听变更。
// dataId 约定为 "<serviceName>.yaml"。拉取失败只告警，不中断启动。
func watchRemoteConfig(client *nacos.Client, serviceName string) {
	dataID := serviceName + ".yaml"

	apply := func(content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		cfg := defaultConfig()
		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			logger.Logger().Error().Err(err).Str("dataId", dataID).Msg("invalid remote config, keeping current one")
			return
		}
		currentConfig.Store(cfg)
		logger.Logger().Info().Str("dataId", dataID).Msg("config reloaded from Nacos")
	}

	if content, err := client.GetConfig(dataID); err != nil {
		logger.Logger().Warn().Err(err).Str("dataId", dataID).Msg("no remote config, using local one")
	} else {
		apply(content)
	}

	if err := client.ListenConfig(dataID, apply); err != nil {
		logger.Logger().Warn().Err(err).Str("dataId", dataID).Msg("failed to listen remote config")
	}
}

// getEnv 从环境变量中读取配置，缺省时返回 fallback。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
