// cmd/delay-scheduler/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"streamcart/internal/pkg/bootstrap"
	"streamcart/internal/pkg/constants"
	"streamcart/internal/pkg/logger"
	"streamcart/internal/pkg/mq"
	"streamcart/internal/tracing"
)

const serviceName = "delay-scheduler"

// 支持的延迟级别。直播间口令下单只用 10 分钟这一档，
// 其余级别保留给后续需要不同延迟的业务方。
var delayLevels = map[string]time.Duration{
	"delay_topic_5s":        5 * time.Second,
	"delay_topic_1m":        1 * time.Minute,
	constants.DelayTopic10m: 10 * time.Minute,
}

var tracer = otel.Tracer(serviceName)

// Scheduler 负责单个延迟级别的轮询和到期投递。
type Scheduler struct {
	level       string
	delay       time.Duration
	brokers     []string
	kafkaReader *kafka.Reader

	// 每个真实主题一个 writer，按需创建
	kafkaWriters map[string]*kafka.Writer
	writerLock   sync.Mutex
}

func NewScheduler(brokers []string, level string, delay time.Duration) *Scheduler {
	return &Scheduler{
		level:        level,
		delay:        delay,
		brokers:      brokers,
		kafkaReader:  mq.NewKafkaReader(brokers, level, serviceName+"-group-"+level),
		kafkaWriters: make(map[string]*kafka.Writer),
	}
}

// StartPolling 按固定周期轮询，直到 ctx 取消。
func (s *Scheduler) StartPolling(ctx context.Context, interval time.Duration) error {
	logger.Ctx(ctx).Info().Str("level", s.level).Dur("interval", interval).Msg("polling scheduler started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer s.kafkaReader.Close()
	defer s.closeWriters(ctx)

	for {
		select {
		case <-ticker.C:
			s.checkAndPublish(ctx)
		case <-ctx.Done():
			logger.Ctx(ctx).Info().Str("level", s.level).Msg("polling scheduler stopped")
			return nil
		}
	}
}

// checkAndPublish 检查队头消息是否到期。
// 同一延迟级别内消息有序，队头未到期则后续消息必然也未到期。
func (s *Scheduler) checkAndPublish(parentCtx context.Context) {
	for {
		fetchCtx, cancel := context.WithTimeout(parentCtx, 500*time.Millisecond)
		msg, err := s.kafkaReader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				logger.Ctx(parentCtx).Error().Err(err).Str("level", s.level).Msg("failed to fetch message")
			}
			return
		}

		spanCtx := mq.ExtractTraceContext(parentCtx, msg.Headers)
		now := time.Now().UTC()
		deliveryTime := msg.Time.Add(s.delay)
		ctx, span := tracer.Start(spanCtx, "scheduler.CheckAndPublish", trace.WithAttributes(
			attribute.String("delay.level", s.level),
			attribute.String("delivery.time", deliveryTime.Format(time.DateTime)),
		))

		if now.Before(deliveryTime) {
			span.AddEvent("HeadMessageNotDue")
			span.End()
			return
		}

		realTopic := headerValue(msg.Headers, constants.RealTopicHeader)
		if realTopic == "" {
			logger.Ctx(ctx).Error().Str("level", s.level).Msg("message missing real-topic header, skipping")
			// 格式错误的消息也必须提交，否则会被无限重复消费
			if err := s.kafkaReader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Error().Err(err).Msg("failed to commit skipped message")
			}
			span.End()
			continue
		}

		if err := s.publish(ctx, realTopic, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("real_topic", realTopic).Msg("failed to publish to real topic")
			// 投递失败不提交 offset，等下一轮重试
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to publish to real topic")
			span.End()
			return
		}

		if err := s.kafkaReader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("level", s.level).Msg("failed to commit after publish")
			span.RecordError(err)
			span.End()
			return
		}

		logger.Ctx(ctx).Info().Str("level", s.level).Str("real_topic", realTopic).Msg("delayed message delivered")
		span.AddEvent("MessagePublishedAndCommitted", trace.WithAttributes(attribute.String("real.topic", realTopic)))
		span.End()
	}
}

func (s *Scheduler) publish(ctx context.Context, realTopic string, msg kafka.Message) error {
	s.writerLock.Lock()
	writer, exists := s.kafkaWriters[realTopic]
	if !exists {
		writer = mq.NewKafkaWriter(s.brokers, realTopic)
		s.kafkaWriters[realTopic] = writer
	}
	s.writerLock.Unlock()

	publishMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
	}
	traceCtx := mq.ExtractTraceContext(ctx, msg.Headers)
	mq.InjectTraceContext(traceCtx, &publishMsg.Headers)

	return writer.WriteMessages(ctx, publishMsg)
}

func (s *Scheduler) closeWriters(ctx context.Context) {
	s.writerLock.Lock()
	defer s.writerLock.Unlock()
	for topic, writer := range s.kafkaWriters {
		if err := writer.Close(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("failed to close writer")
		}
	}
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func main() {
	bootstrap.Init()
	logger.Init(serviceName)
	cfg := bootstrap.GetCurrentConfig()

	tp, err := tracing.InitTracerProvider(serviceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to initialize tracer provider")
	}
	defer tp.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	for level, delay := range delayLevels {
		scheduler := NewScheduler(cfg.Infra.Kafka.Brokers, level, delay)
		g.Go(func() error {
			return scheduler.StartPolling(gctx, 1*time.Second)
		})
	}

	logger.Logger().Info().Msg("all polling schedulers are running")
	if err := g.Wait(); err != nil {
		logger.Logger().Error().Err(err).Msg("scheduler exited with error")
	}
}
