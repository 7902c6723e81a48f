// internal/service/livestream/interfaces/payment_timeout_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/pkg/mq"
	"streamcart/internal/service/livestream/application"
	"streamcart/internal/service/livestream/domain"
)

// PaymentTimeoutConsumerAdapter 是一个驱动适配器：
// 监听支付超时检查主题，驱动应用服务执行取消与库存恢复。
type PaymentTimeoutConsumerAdapter struct {
	reader  *kafka.Reader
	appSvc  *application.OrderIntakeService
	wg      sync.WaitGroup
	stopped atomic.Bool
}

func NewPaymentTimeoutConsumerAdapter(reader *kafka.Reader, appSvc *application.OrderIntakeService) *PaymentTimeoutConsumerAdapter {
	return &PaymentTimeoutConsumerAdapter{
		reader: reader,
		appSvc: appSvc,
	}
}

// Start 开始监听。这是一个长期运行的方法，内部起独立 goroutine。
func (a *PaymentTimeoutConsumerAdapter) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		logger.Ctx(ctx).Info().Str("topic", a.reader.Config().Topic).Msg("payment timeout consumer started")
		for {
			if a.stopped.Load() {
				return
			}
			// FetchMessage 不自动提交 offset，便于控制退出和提交时机
			msg, err := a.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || a.stopped.Load() {
					logger.Ctx(ctx).Info().Msg("payment timeout consumer shutting down")
					return
				}
				logger.Ctx(ctx).Error().Err(err).Msg("could not read message, retrying")
				time.Sleep(1 * time.Second)
				continue
			}

			newCtx := mq.ExtractTraceContext(ctx, msg.Headers)
			a.processMessage(newCtx, msg)

			// 超时检查是尽力而为的清理：无论处理结果如何都提交，
			// 失败不重试，也绝不让消费循环崩溃。
			if err := a.reader.CommitMessages(ctx, msg); err != nil {
				logger.Ctx(ctx).Error().Err(err).Msg("failed to commit messages")
			}
		}
	}()
}

// Stop 优雅地停止消费者。
func (a *PaymentTimeoutConsumerAdapter) Stop(ctx context.Context) {
	a.stopped.Store(true)
	a.reader.Close()
	a.wg.Wait()
	logger.Ctx(ctx).Info().Msg("payment timeout consumer stopped")
}

func (a *PaymentTimeoutConsumerAdapter) processMessage(ctx context.Context, msg kafka.Message) {
	var event domain.PaymentTimeoutCheckEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal payment timeout event, skipping")
		return
	}

	cancelled, err := a.appSvc.ProcessPaymentTimeout(ctx, &event)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", event.OrderID).
			Msg("payment timeout check failed, not retrying")
	}
	if cancelled {
		ordersAutoCancelledTotal.Inc()
	}
}
