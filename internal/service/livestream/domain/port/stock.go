// internal/service/livestream/domain/port/stock.go
package port

import (
	"context"
	"errors"

	"streamcart/internal/service/livestream/domain"
)

var (
	// ErrInsufficientStock 表示可售数量不足以满足请求。
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrReservationFailed 表示库存写入被拒绝，预占没有发生。
	ErrReservationFailed = errors.New("stock reservation failed")
)

// StockGate 是库存预占的出站端口。编排层只看到一次成败，
// 充足性校验与扣减如何组合是实现自己的事：
// HTTP 实现保留源系统的读-检查-写行为，Redis 实现是原子的条件扣减。
type StockGate interface {
	// Reserve 为 quantity 件商品预占库存。
	// 数量不足返回 ErrInsufficientStock，写入失败返回 ErrReservationFailed。
	Reserve(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error

	// Release 是 Reserve 的补偿，按数量恢复库存。
	Release(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error
}

// SKULocker 在库存网关外层提供按 SKU 的互斥，用于没有条件扣减原语的部署。
type SKULocker interface {
	// WithLock 在持有 sku 对应的锁期间执行 fn。
	WithLock(ctx context.Context, sku string, fn func() error) error
}
