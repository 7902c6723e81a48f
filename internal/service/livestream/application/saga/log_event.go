// internal/service/livestream/application/saga/log_event.go
package saga

import (
	"go.opentelemetry.io/otel/attribute"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/domain"
)

// 审计事件写入失败时使用的占位 ID，保证订单侧的关联字段永远有值。
const placeholderEventID = "event-unrecorded"

// LogEventHandler 把触发下单的原始聊天消息落成一条审计记录。
// 尽力而为：审计失败不阻塞下单，用占位 ID 继续向后走。
type LogEventHandler struct {
	NextHandler
}

func (h *LogEventHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "intake.LogStreamEvent")
	defer span.End()

	event := &domain.StreamEvent{
		LivestreamID:        orderCtx.LivestreamID,
		UserID:              orderCtx.UserID,
		LivestreamProductID: orderCtx.Product.ID,
		EventType:           domain.EventTypeOrderComment,
		Payload:             orderCtx.Intent.OriginalMessage,
	}

	eventID, err := orderCtx.EventSvc.CreateStreamEvent(ctx, event)
	if err != nil || eventID == "" {
		if err != nil {
			span.RecordError(err)
		}
		logger.Ctx(ctx).Warn().Err(err).
			Str("livestream_id", orderCtx.LivestreamID).
			Msg("stream event not recorded, proceeding with placeholder id")
		eventID = placeholderEventID
	}

	orderCtx.EventID = eventID
	orderCtx.State = domain.StateEventLogged
	span.SetAttributes(attribute.String("stream_event.id", eventID))

	return h.executeNext(orderCtx)
}
