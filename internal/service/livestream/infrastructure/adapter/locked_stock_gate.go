// internal/service/livestream/infrastructure/adapter/locked_stock_gate.go
package adapter

import (
	"context"
	"time"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
	"streamcart/internal/zookeeper"
)

// LockedStockGate 在任意 StockGate 实现外层按 SKU 做互斥，
// 用于目录服务没有条件扣减原语、又要求并发正确性的部署形态。
type LockedStockGate struct {
	inner  port.StockGate
	locker port.SKULocker
}

func NewLockedStockGate(inner port.StockGate, locker port.SKULocker) *LockedStockGate {
	return &LockedStockGate{inner: inner, locker: locker}
}

func (g *LockedStockGate) Reserve(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error {
	return g.locker.WithLock(ctx, product.SKU, func() error {
		// 持锁期间重读库存，保证判定基于最新值而不是调用方的快照
		current, err := refreshStock(ctx, g.inner, product)
		if err == nil && current != nil {
			product = current
		}
		return g.inner.Reserve(ctx, product, quantity, actor)
	})
}

func (g *LockedStockGate) Release(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error {
	return g.locker.WithLock(ctx, product.SKU, func() error {
		return g.inner.Release(ctx, product, quantity, actor)
	})
}

// refreshStock 尝试让内层网关基于最新库存判定。
// 只有 HTTPStockGate 需要这层保护，其余实现自身已经原子。
func refreshStock(ctx context.Context, inner port.StockGate, product *domain.LivestreamProduct) (*domain.LivestreamProduct, error) {
	httpGate, ok := inner.(*HTTPStockGate)
	if !ok {
		return nil, nil
	}
	return httpGate.catalog.GetBySKU(ctx, product.LivestreamID, product.SKU)
}

// ZkSKULocker 用 ZooKeeper 的临时顺序节点实现 port.SKULocker。
type ZkSKULocker struct {
	conn        *zookeeper.Conn
	waitTimeout time.Duration
}

func NewZkSKULocker(conn *zookeeper.Conn) *ZkSKULocker {
	return &ZkSKULocker{conn: conn, waitTimeout: 30 * time.Second}
}

func (l *ZkSKULocker) WithLock(ctx context.Context, sku string, fn func() error) error {
	lock, err := zookeeper.NewDistributedLock(l.conn, "sku-"+sku)
	if err != nil {
		return err
	}
	if err := lock.Lock(l.waitTimeout); err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("sku", sku).Msg("failed to release sku lock")
		}
	}()
	return fn()
}
