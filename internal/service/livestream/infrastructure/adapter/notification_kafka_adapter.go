// internal/service/livestream/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"streamcart/internal/pkg/mq"
	"streamcart/internal/service/livestream/domain"
)

// NotificationKafkaAdapter 实现 port.NotificationProducer。
// 本服务只负责把通知事件投递到主题，推送到观众端由外部推送层完成。
type NotificationKafkaAdapter struct {
	writer *kafka.Writer
}

func NewNotificationKafkaAdapter(writer *kafka.Writer) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{writer: writer}
}

func (a *NotificationKafkaAdapter) Send(ctx context.Context, event *domain.NotificationEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal notification event")
	}
	return mq.ProduceMessage(ctx, a.writer, []byte(event.UserID), eventBytes)
}

// Close 关闭底层的 Kafka writer。
func (a *NotificationKafkaAdapter) Close() error {
	return a.writer.Close()
}
