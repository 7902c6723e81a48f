// internal/service/livestream/infrastructure/adapter/http_stock_gate.go
package adapter

import (
	"context"

	"github.com/pkg/errors"

	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// HTTPStockGate 基于目录服务的读-检查-写实现。
//
// 已知缺陷：校验与写入之间没有任何互斥，并发抢同一 SKU 时存在
// 经典的 TOCTOU 丢失更新窗口，最后一单可能超卖。需要并发正确性时
// 用 RedisStockGate（条件扣减）或 LockedStockGate（按 SKU 互斥）替换。
type HTTPStockGate struct {
	catalog port.LivestreamCatalog
}

func NewHTTPStockGate(catalog port.LivestreamCatalog) *HTTPStockGate {
	return &HTTPStockGate{catalog: catalog}
}

// Reserve 按调用方持有的库存快照计算差值并无条件写回。
func (g *HTTPStockGate) Reserve(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error {
	newStock := product.Stock - quantity
	if newStock < 0 {
		return port.ErrInsufficientStock
	}
	if err := g.catalog.UpdateStock(ctx, product.LivestreamID, product.ProductID, product.VariantID, newStock, actor); err != nil {
		return errors.Wrap(port.ErrReservationFailed, err.Error())
	}
	return nil
}

// Release 重新读取当前库存后加回 quantity。
// 回滚路径上当前值等于扣减后的值，加回后恰好恢复到预占前的水位。
func (g *HTTPStockGate) Release(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error {
	current, err := g.catalog.GetBySKU(ctx, product.LivestreamID, product.SKU)
	if err != nil {
		return errors.Wrap(err, "failed to read current stock before release")
	}
	newStock := current.Stock + quantity
	if err := g.catalog.UpdateStock(ctx, product.LivestreamID, product.ProductID, product.VariantID, newStock, actor); err != nil {
		return errors.Wrap(err, "failed to restore stock")
	}
	return nil
}
