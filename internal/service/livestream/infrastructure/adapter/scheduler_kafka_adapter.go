// internal/service/livestream/infrastructure/adapter/scheduler_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"streamcart/internal/pkg/constants"
	"streamcart/internal/pkg/mq"
	"streamcart/internal/service/livestream/domain"
)

// SchedulerKafkaAdapter 实现 port.DelayScheduler。
// 超时检查任务先写入 10 分钟延迟主题，由独立的调度进程到期后
// 搬运到真实业务主题，因此任务不随本进程的重启丢失。
type SchedulerKafkaAdapter struct {
	delayWriter *kafka.Writer
}

func NewSchedulerKafkaAdapter(brokers []string) *SchedulerKafkaAdapter {
	return &SchedulerKafkaAdapter{
		delayWriter: mq.NewKafkaWriter(brokers, constants.DelayTopic10m),
	}
}

// SchedulePaymentTimeout 把支付超时检查任务投入延迟队列。
func (a *SchedulerKafkaAdapter) SchedulePaymentTimeout(ctx context.Context, event *domain.PaymentTimeoutCheckEvent) error {
	taskBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: taskBytes,
		Headers: []kafka.Header{
			{Key: constants.RealTopicHeader, Value: []byte(constants.PaymentTimeoutTopic)},
		},
	}
	mq.InjectTraceContext(ctx, &msg.Headers)

	return a.delayWriter.WriteMessages(ctx, msg)
}

// Close 关闭底层的 Kafka writer。
func (a *SchedulerKafkaAdapter) Close() error {
	return a.delayWriter.Close()
}
