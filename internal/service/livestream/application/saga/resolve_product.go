// internal/service/livestream/application/saga/resolve_product.go
package saga

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// ResolveProductHandler 按 SKU 定位直播商品。
// 这是链上第一个有外部调用的步骤，此时尚无任何副作用。
type ResolveProductHandler struct {
	NextHandler
}

func (h *ResolveProductHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "intake.ResolveProduct")
	defer span.End()

	sku := orderCtx.Intent.SKU
	span.SetAttributes(
		attribute.String("livestream.id", orderCtx.LivestreamID),
		attribute.String("product.sku", sku),
	)

	product, err := orderCtx.Catalog.GetBySKU(ctx, orderCtx.LivestreamID, sku)
	if err != nil {
		if errors.Is(err, port.ErrProductNotFound) {
			span.AddEvent("Product not found for SKU")
			return domain.NewIntakeError(domain.FailureProductNotFound, domain.MsgProductNotFound(sku), err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog lookup failed")
		return domain.NewIntakeError(domain.FailureInternal, domain.MsgSystemBusy, err)
	}

	orderCtx.Product = product
	orderCtx.State = domain.StateProductResolved
	span.SetAttributes(attribute.Int("product.stock", product.Stock))

	return h.executeNext(orderCtx)
}
