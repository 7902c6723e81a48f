// internal/service/livestream/application/saga/resolve_address.go
package saga

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// ResolveAddressHandler 解析买家默认地址、店铺及店铺发货地址。
// 刻意排在库存预占之前：三者任一缺失时直接终止，不产生任何需要回滚的副作用。
type ResolveAddressHandler struct {
	NextHandler
}

func (h *ResolveAddressHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "intake.ResolveAddress")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", orderCtx.UserID),
		attribute.String("shop.id", orderCtx.Product.ShopID),
	)

	buyerAddr, err := orderCtx.AddressSvc.GetUserDefaultAddress(ctx, orderCtx.UserID)
	if err != nil {
		span.RecordError(err)
		return mapMissingInfo(err)
	}

	shop, err := orderCtx.ShopSvc.GetShopByID(ctx, orderCtx.Product.ShopID)
	if err != nil {
		span.RecordError(err)
		return mapMissingInfo(err)
	}

	shopAddr, err := orderCtx.AddressSvc.GetShopAddress(ctx, orderCtx.Product.ShopID)
	if err != nil {
		span.RecordError(err)
		return mapMissingInfo(err)
	}

	orderCtx.BuyerAddress = buyerAddr
	orderCtx.Shop = shop
	orderCtx.ShopAddress = shopAddr
	orderCtx.State = domain.StateAddressResolved
	span.AddEvent("Buyer and shop info resolved")

	return h.executeNext(orderCtx)
}

func mapMissingInfo(err error) error {
	if errors.Is(err, port.ErrAddressNotFound) || errors.Is(err, port.ErrShopNotFound) {
		return domain.NewIntakeError(domain.FailureMissingAddress, domain.MsgMissingAddress, err)
	}
	return domain.NewIntakeError(domain.FailureInternal, domain.MsgSystemBusy, err)
}
