// internal/service/livestream/application/service.go
package application

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/application/saga"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// OrderIntakeService 是直播间口令下单的业务流程编排入口。
// 它只负责：解析意图、构造编排链、把链的结果翻译成统一的用户可见结果。
type OrderIntakeService struct {
	tracer         trace.Tracer
	paymentTimeout time.Duration

	catalog    port.LivestreamCatalog
	stockGate  port.StockGate
	addressSvc port.AddressService
	shopSvc    port.ShopService
	eventSvc   port.StreamEventService
	orderSvc   port.OrderService
	scheduler  port.DelayScheduler
	notifier   port.NotificationProducer
	deduper    port.MessageDeduper // 可选，nil 时关闭去重
}

func NewOrderIntakeService(
	tracer trace.Tracer,
	paymentTimeout time.Duration,
	catalog port.LivestreamCatalog,
	stockGate port.StockGate,
	addressSvc port.AddressService,
	shopSvc port.ShopService,
	eventSvc port.StreamEventService,
	orderSvc port.OrderService,
	scheduler port.DelayScheduler,
	notifier port.NotificationProducer,
	deduper port.MessageDeduper,
) *OrderIntakeService {
	return &OrderIntakeService{
		tracer:         tracer,
		paymentTimeout: paymentTimeout,
		catalog:        catalog,
		stockGate:      stockGate,
		addressSvc:     addressSvc,
		shopSvc:        shopSvc,
		eventSvc:       eventSvc,
		orderSvc:       orderSvc,
		scheduler:      scheduler,
		notifier:       notifier,
		deduper:        deduper,
	}
}

// HandleChatMessage 处理一条直播间聊天消息。
// 永远返回一个结构化结果：所有失败在这里折叠成 Success=false 加文案，
// 不向接口层抛出任何错误类型。
func (s *OrderIntakeService) HandleChatMessage(ctx context.Context, req *ChatMessageRequest) *domain.OrderProcessingResult {
	ctx, span := s.tracer.Start(ctx, "intake.HandleChatMessage")
	defer span.End()

	span.SetAttributes(
		attribute.String("livestream.id", req.LivestreamID),
		attribute.String("user.id", req.UserID),
	)

	intent := domain.ParseOrderIntent(req.Message)
	if !intent.IsOrderIntent {
		span.AddEvent("Message is not an order intent")
		return &domain.OrderProcessingResult{
			Success: false,
			Message: domain.MsgFormatNotRecognized,
			Intent:  &intent,
		}
	}
	span.SetAttributes(
		attribute.String("intent.sku", intent.SKU),
		attribute.Int("intent.quantity", intent.Quantity),
	)

	// 建议性的幂等防护：同一条口令在去重窗口内只处理一次。
	// 去重存储不可用时放行，保持源流程的行为。
	if s.deduper != nil {
		first, err := s.deduper.FirstSeen(ctx, req.LivestreamID, req.UserID, req.Message)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("message dedupe check failed, proceeding anyway")
		} else if !first {
			span.AddEvent("Duplicate order message suppressed")
			return &domain.OrderProcessingResult{
				Success: false,
				Message: domain.MsgDuplicateMessage,
				Intent:  &intent,
			}
		}
	}

	orderCtx := &saga.OrderContext{
		Ctx:            ctx,
		Tracer:         s.tracer,
		LivestreamID:   req.LivestreamID,
		UserID:         req.UserID,
		Intent:         &intent,
		State:          domain.StateParsed,
		PaymentTimeout: s.paymentTimeout,
		Catalog:        s.catalog,
		StockGate:      s.stockGate,
		AddressSvc:     s.addressSvc,
		ShopSvc:        s.shopSvc,
		EventSvc:       s.eventSvc,
		OrderSvc:       s.orderSvc,
		Scheduler:      s.scheduler,
		Notifier:       s.notifier,
	}

	if err := s.buildChain().Handle(orderCtx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("livestream_id", req.LivestreamID).
			Str("sku", intent.SKU).
			Msg("order intake chain failed, triggering compensation")
		span.RecordError(err)
		span.SetStatus(codes.Error, "order intake failed")

		// 链中断即补偿。预占之前的失败补偿栈为空，执行是空操作。
		orderCtx.TriggerCompensation(ctx)

		return s.failureResult(err, &intent, orderCtx.Product)
	}

	orderCtx.State = domain.StateSuccess
	confirmation := domain.MsgOrderConfirmation(
		orderCtx.Product.ProductName,
		intent.Quantity,
		domain.FormatVND(orderCtx.Product.Total(intent.Quantity)),
		int(s.paymentTimeout.Minutes()),
	)

	logger.Ctx(ctx).Info().
		Str("order_id", orderCtx.OrderID).
		Str("sku", intent.SKU).
		Int("quantity", intent.Quantity).
		Msg("order placed from livestream comment")
	span.AddEvent("Order placed, pending payment")

	return &domain.OrderProcessingResult{
		Success: true,
		Message: confirmation,
		OrderID: orderCtx.OrderID,
		Product: orderCtx.Product,
		Intent:  &intent,
	}
}

// ProcessPaymentTimeout 处理到期的支付超时检查任务。
// Pending 状态的订单被取消并恢复库存，其余状态不做任何动作。
// 返回值 cancelled 表示是否真的取消了订单；所有错误只记录，调用方不会重试。
func (s *OrderIntakeService) ProcessPaymentTimeout(ctx context.Context, event *domain.PaymentTimeoutCheckEvent) (cancelled bool, err error) {
	ctx, span := s.tracer.Start(ctx, "intake.ProcessPaymentTimeout", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", event.OrderID),
		attribute.String("user.id", event.UserID),
	)

	status, err := s.orderSvc.GetPaymentStatus(ctx, event.OrderID)
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).
			Msg("payment status check failed, giving up")
		return false, err
	}
	span.SetAttributes(attribute.String("order.payment_status", status))

	if status != port.PaymentStatusPending {
		span.AddEvent("Order no longer pending, nothing to do")
		return false, nil
	}

	logger.Ctx(ctx).Warn().Str("order_id", event.OrderID).
		Msg("order not paid within the payment window, cancelling and restoring stock")

	if err := s.orderSvc.CancelOrder(ctx, event.OrderID, "not paid within 10 minutes", "auto-cancel"); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).Msg("failed to cancel unpaid order")
		return false, err
	}

	product, err := s.catalog.GetBySKU(ctx, event.LivestreamID, event.SKU)
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", event.OrderID).
			Str("sku", event.SKU).
			Msg("cannot resolve product to restore stock")
		return true, err
	}
	if err := s.stockGate.Release(ctx, product, event.Quantity, "auto-restore"); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", event.OrderID).
			Str("sku", event.SKU).
			Int("quantity", event.Quantity).
			Msg("CRITICAL: failed to restore stock after auto-cancel")
		return true, err
	}

	span.AddEvent("Unpaid order cancelled and stock restored")
	return true, nil
}

// failureResult 把编排错误映射为用户可见的结果。
// 未归类的错误一律折叠为系统繁忙，不泄漏内部细节。
func (s *OrderIntakeService) failureResult(err error, intent *domain.OrderIntent, product *domain.LivestreamProduct) *domain.OrderProcessingResult {
	var intakeErr *domain.IntakeError
	if errors.As(err, &intakeErr) {
		return &domain.OrderProcessingResult{
			Success: false,
			Message: intakeErr.UserMessage,
			Product: product,
			Intent:  intent,
		}
	}
	return &domain.OrderProcessingResult{
		Success: false,
		Message: domain.MsgSystemBusy,
		Product: product,
		Intent:  intent,
	}
}

// buildChain 组装下单编排链。地址解析刻意放在库存预占之前，
// 保证预占之后的每一种失败都在补偿栈的覆盖范围内。
func (s *OrderIntakeService) buildChain() saga.Handler {
	chain := new(saga.ResolveProductHandler)
	chain.
		SetNext(new(saga.ResolveAddressHandler)).
		SetNext(new(saga.ReserveStockHandler)).
		SetNext(new(saga.LogEventHandler)).
		SetNext(new(saga.CreateOrderHandler)).
		SetNext(new(saga.NotifyHandler))
	return chain
}
