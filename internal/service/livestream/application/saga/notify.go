// internal/service/livestream/application/saga/notify.go
package saga

import (
	"go.opentelemetry.io/otel/attribute"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/domain"
)

// NotifyHandler 把下单确认文案投递给推送层。
// 通知只是锦上添花：投递失败不影响已经创建成功的订单。
type NotifyHandler struct {
	NextHandler
}

func (h *NotifyHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "intake.Notify")
	defer span.End()

	minutes := int(orderCtx.PaymentTimeout.Minutes())
	message := domain.MsgOrderConfirmation(
		orderCtx.Product.ProductName,
		orderCtx.Intent.Quantity,
		domain.FormatVND(orderCtx.Product.Total(orderCtx.Intent.Quantity)),
		minutes,
	)

	event := &domain.NotificationEvent{
		LivestreamID: orderCtx.LivestreamID,
		UserID:       orderCtx.UserID,
		OrderID:      orderCtx.OrderID,
		Message:      message,
	}
	if err := orderCtx.Notifier.Send(ctx, event); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).
			Str("order_id", orderCtx.OrderID).
			Msg("failed to publish order confirmation notification")
	}

	span.SetAttributes(attribute.String("order.id", orderCtx.OrderID))
	return h.executeNext(orderCtx)
}
