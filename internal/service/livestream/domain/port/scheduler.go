// internal/service/livestream/domain/port/scheduler.go
package port

import (
	"context"

	"streamcart/internal/service/livestream/domain"
)

// DelayScheduler 是延迟任务队列的出站端口。
// Kafka 实现把任务写入延迟主题，调度进程到期后再投递回业务主题，
// 因此任务在进程重启后依然存活。
type DelayScheduler interface {
	// SchedulePaymentTimeout 为一笔订单调度一次支付超时检查。
	// 投递即忘：调用方不等待、也不追踪这个任务。
	SchedulePaymentTimeout(ctx context.Context, event *domain.PaymentTimeoutCheckEvent) error
}

// NotificationProducer 把面向用户的通知交给外部推送层。
type NotificationProducer interface {
	Send(ctx context.Context, event *domain.NotificationEvent) error
}

// StreamEventService 记录直播间的审计事件并返回事件 ID。
// 写入失败不阻塞下单主流程，调用方使用占位 ID 继续。
type StreamEventService interface {
	CreateStreamEvent(ctx context.Context, event *domain.StreamEvent) (string, error)
}
