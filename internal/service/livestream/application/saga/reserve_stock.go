// internal/service/livestream/application/saga/reserve_stock.go
package saga

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// ReserveStockHandler 负责库存充足性校验与预占。
// 校验失败时保证对库存写入零次调用；预占成功后向补偿栈注册回滚动作。
type ReserveStockHandler struct {
	NextHandler
}

func (h *ReserveStockHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "intake.ReserveStock")
	defer span.End()

	product := orderCtx.Product
	quantity := orderCtx.Intent.Quantity
	span.SetAttributes(
		attribute.String("product.sku", product.SKU),
		attribute.Int("order.quantity", quantity),
		attribute.Int("product.stock", product.AvailableStock()),
	)

	// 充足性预校验。网关实现可能原子地再查一次，这里的校验保证
	// 数量明显不足时连一次写调用都不会发出。
	if quantity > product.AvailableStock() {
		span.AddEvent("Insufficient stock, no reservation attempted")
		return domain.NewIntakeError(
			domain.FailureInsufficientStock,
			domain.MsgInsufficientStock(product.SKU, product.AvailableStock()),
			port.ErrInsufficientStock,
		)
	}
	orderCtx.State = domain.StateStockChecked

	if err := orderCtx.StockGate.Reserve(ctx, product, quantity, "order"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock reservation failed")
		if errors.Is(err, port.ErrInsufficientStock) {
			return domain.NewIntakeError(
				domain.FailureInsufficientStock,
				domain.MsgInsufficientStock(product.SKU, product.AvailableStock()),
				err,
			)
		}
		// 写入被拒绝时什么都没有预占成功，无需补偿
		return domain.NewIntakeError(domain.FailureReservation, domain.MsgReservationFailed, err)
	}

	orderCtx.State = domain.StateStockReserved
	span.AddEvent("Stock reserved")

	// 预占已生效：注册回滚，后续任何步骤失败都要把库存补回去。
	// 回滚自身失败只记日志，不重试，也不再向上暴露。
	orderCtx.AddCompensation(func(compCtx context.Context) {
		compCtx, compSpan := orderCtx.Tracer.Start(compCtx, "intake.compensation.ReleaseStock")
		defer compSpan.End()
		compSpan.SetAttributes(attribute.String("product.sku", product.SKU))

		if err := orderCtx.StockGate.Release(compCtx, product, quantity, "rollback"); err != nil {
			compSpan.RecordError(err)
			logger.Ctx(compCtx).Error().Err(err).
				Str("sku", product.SKU).
				Int("quantity", quantity).
				Msg("CRITICAL: failed to release reserved stock during rollback")
		}
	})

	return h.executeNext(orderCtx)
}
