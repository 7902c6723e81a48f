// cmd/livestream-service/main.go
package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"streamcart/internal/pkg/bootstrap"
	"streamcart/internal/pkg/constants"
	"streamcart/internal/pkg/httpclient"
	"streamcart/internal/pkg/logger"
	"streamcart/internal/pkg/mq"
	"streamcart/internal/pkg/redis"
	"streamcart/internal/service/livestream/application"
	"streamcart/internal/service/livestream/domain/port"
	"streamcart/internal/service/livestream/infrastructure"
	"streamcart/internal/service/livestream/infrastructure/adapter"
	"streamcart/internal/service/livestream/interfaces"
	"streamcart/internal/zookeeper"
)

const serviceName = "livestream-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	// 先把不依赖服务发现的基础设施拉起来
	db, err := infrastructure.OpenMysql(cfg.Infra.Mysql.User, cfg.Infra.Mysql.Password, cfg.Infra.Mysql.Addr, cfg.Infra.Mysql.Database)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to open mysql")
	}

	redisClient, err := redis.NewClient(context.Background(), cfg.Infra.Redis.Addr)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to initialize redis client")
	}

	notificationWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, constants.NotificationTopic)
	timeoutReader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, constants.PaymentTimeoutTopic, constants.PaymentTimeoutGroupID)
	delayScheduler := adapter.NewSchedulerKafkaAdapter(cfg.Infra.Kafka.Brokers)

	var timeoutConsumer *interfaces.PaymentTimeoutConsumerAdapter
	var zkConn *zookeeper.Conn

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8086,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)
			httpClient := httpclient.NewClient(tracer, appCtx.Nacos)

			catalog := adapter.NewCatalogHTTPAdapter(httpClient)
			addressSvc := adapter.NewAddressHTTPAdapter(httpClient)
			shopSvc := adapter.NewShopHTTPAdapter(httpClient)
			orderSvc := adapter.NewOrderHTTPAdapter(httpClient)

			eventRepo := infrastructure.NewGormStreamEventRepository(db)

			redisGate, err := adapter.NewRedisStockGate(redisClient, catalog)
			if err != nil {
				logger.Logger().Fatal().Err(err).Msg("failed to load stock gate scripts")
			}
			stockGate := buildStockGate(redisGate, catalog, &zkConn)

			intakeService := application.NewOrderIntakeService(
				tracer,
				cfg.App.PaymentTimeout,
				catalog,
				stockGate,
				addressSvc,
				shopSvc,
				eventRepo,
				orderSvc,
				delayScheduler,
				adapter.NewNotificationKafkaAdapter(notificationWriter),
				redisGate, // 去重标记也存在 Redis 里
			)

			interfaces.NewIntakeHandler(intakeService, eventRepo).RegisterRoutes(appCtx.Mux)

			timeoutConsumer = interfaces.NewPaymentTimeoutConsumerAdapter(timeoutReader, intakeService)
			timeoutConsumer.Start(context.Background())
		},
		OnShutdown: []func(ctx context.Context){
			func(ctx context.Context) {
				if sqlDB, dbErr := db.DB(); dbErr == nil {
					sqlDB.Close()
				}
			},
			func(ctx context.Context) { redisClient.Close() },
			func(ctx context.Context) { notificationWriter.Close() },
			func(ctx context.Context) { delayScheduler.Close() },
			func(ctx context.Context) {
				if zkConn != nil {
					zkConn.Close()
				}
			},
			func(ctx context.Context) {
				if timeoutConsumer != nil {
					timeoutConsumer.Stop(ctx)
				}
			},
		},
	})
}

// buildStockGate 根据特性开关选择库存预占实现：
// Redis 原子扣减优先；目录服务直写是兜底；SKU 分布式锁可以叠加在两者之上。
func buildStockGate(redisGate *adapter.RedisStockGate, catalog port.LivestreamCatalog, zkConn **zookeeper.Conn) port.StockGate {
	cfg := bootstrap.GetCurrentConfig()

	var gate port.StockGate
	if cfg.App.FeatureFlags.EnableAtomicStockGate {
		gate = redisGate
	} else {
		gate = adapter.NewHTTPStockGate(catalog)
	}

	if cfg.App.FeatureFlags.EnableSkuLock {
		conn, err := zookeeper.NewConn(cfg.Infra.Zookeeper.Servers)
		if err != nil {
			logger.Logger().Fatal().Err(err).Msg("failed to connect to zookeeper")
		}
		*zkConn = conn
		gate = adapter.NewLockedStockGate(gate, adapter.NewZkSKULocker(conn))
	}
	return gate
}
