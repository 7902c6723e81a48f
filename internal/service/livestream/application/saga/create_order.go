// internal/service/livestream/application/saga/create_order.go
package saga

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// CreateOrderHandler 向订单服务提交订单，并调度支付超时检查任务。
type CreateOrderHandler struct {
	NextHandler
}

func (h *CreateOrderHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "intake.CreateOrder")
	defer span.End()

	req := &port.CreateOrderRequest{
		UserID:               orderCtx.UserID,
		ShopID:               orderCtx.Product.ShopID,
		LivestreamID:         orderCtx.LivestreamID,
		ProductID:            orderCtx.Product.ProductID,
		VariantID:            orderCtx.Product.VariantID,
		SKU:                  orderCtx.Product.SKU,
		Quantity:             orderCtx.Intent.Quantity,
		UnitPrice:            orderCtx.Product.Price,
		ShippingAddressID:    orderCtx.BuyerAddress.ID,
		ShopAddressID:        orderCtx.ShopAddress.ID,
		CreatedFromCommentID: orderCtx.EventID,
	}

	result, err := orderCtx.OrderSvc.CreateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		return domain.NewIntakeError(domain.FailureOrderCreation, domain.MsgOrderFailed, err)
	}
	if !result.Success {
		span.SetStatus(codes.Error, "order service rejected the order")
		span.SetAttributes(attribute.String("order.reject_reason", result.Message))
		return domain.NewIntakeError(domain.FailureOrderCreation, domain.MsgOrderFailed,
			fmt.Errorf("order service rejected the order: %s", result.Message))
	}

	orderCtx.OrderID = result.OrderID
	orderCtx.OrderCode = result.OrderCode
	orderCtx.State = domain.StateOrderCreated
	span.SetAttributes(attribute.String("order.id", result.OrderID))

	// 调度支付超时检查。投递失败需要关注但不应让已创建的订单失败，
	// 这里只记录错误，后续依赖人工或对账补偿。
	timeoutEvent := &domain.PaymentTimeoutCheckEvent{
		TraceID:      trace.SpanFromContext(ctx).SpanContext().TraceID().String(),
		OrderID:      result.OrderID,
		LivestreamID: orderCtx.LivestreamID,
		UserID:       orderCtx.UserID,
		SKU:          orderCtx.Product.SKU,
		Quantity:     orderCtx.Intent.Quantity,
		CreationTime: time.Now(),
	}
	if err := orderCtx.Scheduler.SchedulePaymentTimeout(ctx, timeoutEvent); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", result.OrderID).
			Msg("failed to schedule payment timeout check")
	} else {
		span.AddEvent("Payment timeout check scheduled")
	}

	return h.executeNext(orderCtx)
}
