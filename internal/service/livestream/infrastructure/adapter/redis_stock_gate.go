// internal/service/livestream/infrastructure/adapter/redis_stock_gate.go
package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/pkg/redis"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

const (
	reserveScriptName = "reserve_stock"
	releaseScriptName = "release_stock"

	// 消息去重标记的有效期。超过这个窗口重复的口令被当作新订单处理。
	dedupeTTL = 2 * time.Minute
)

// RedisStockGate 用 Lua 脚本实现原子的“不足即拒绝”条件扣减，
// 关闭了读-检查-写实现中的并发超卖窗口。
// 扣减成功后把新值尽力写回目录服务，保持两边最终一致。
type RedisStockGate struct {
	redisClient *redis.Client
	catalog     port.LivestreamCatalog
}

// NewRedisStockGate 创建网关并加载所需的 Lua 脚本。
func NewRedisStockGate(redisClient *redis.Client, catalog port.LivestreamCatalog) (*RedisStockGate, error) {
	if err := redisClient.LoadScriptFromContent(reserveScriptName, reserveStockScript); err != nil {
		return nil, fmt.Errorf("failed to load reserve script: %w", err)
	}
	if err := redisClient.LoadScriptFromContent(releaseScriptName, releaseStockScript); err != nil {
		return nil, fmt.Errorf("failed to load release script: %w", err)
	}
	return &RedisStockGate{redisClient: redisClient, catalog: catalog}, nil
}

func stockKey(livestreamID, sku string) string {
	return fmt.Sprintf("livestream:stock:{%s:%s}", livestreamID, sku)
}

// Reserve 原子地执行 “stock >= quantity 则扣减” 。
// key 不存在时用调用方快照中的库存初始化，保证首次访问也有判定依据。
func (g *RedisStockGate) Reserve(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error {
	keys := []string{stockKey(product.LivestreamID, product.SKU)}
	args := []interface{}{quantity, product.Stock}

	result, err := g.redisClient.RunScript(ctx, reserveScriptName, keys, args...)
	if err != nil {
		return fmt.Errorf("reserve script failed: %w", err)
	}
	newStock, ok := result.(int64)
	if !ok {
		return fmt.Errorf("unexpected result type from reserve script: %T", result)
	}
	if newStock < 0 {
		return port.ErrInsufficientStock
	}

	g.writeThrough(ctx, product, int(newStock), actor)
	return nil
}

// Release 原子地把库存加回 quantity。
func (g *RedisStockGate) Release(ctx context.Context, product *domain.LivestreamProduct, quantity int, actor string) error {
	keys := []string{stockKey(product.LivestreamID, product.SKU)}
	args := []interface{}{quantity, product.Stock}

	result, err := g.redisClient.RunScript(ctx, releaseScriptName, keys, args...)
	if err != nil {
		return fmt.Errorf("release script failed: %w", err)
	}
	newStock, ok := result.(int64)
	if !ok {
		return fmt.Errorf("unexpected result type from release script: %T", result)
	}

	g.writeThrough(ctx, product, int(newStock), actor)
	return nil
}

// writeThrough 把权威的新库存值同步回目录服务。
// Redis 侧已经生效，这里失败只告警，等待下一次同步拉平。
func (g *RedisStockGate) writeThrough(ctx context.Context, product *domain.LivestreamProduct, newStock int, actor string) {
	if err := g.catalog.UpdateStock(ctx, product.LivestreamID, product.ProductID, product.VariantID, newStock, actor); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("sku", product.SKU).
			Int("new_stock", newStock).
			Msg("stock write-through to catalog failed, redis remains authoritative")
	}
}

// FirstSeen 用 SETNX 给 (直播间, 用户, 消息) 打一个短期去重标记。
// 仅是尽力而为的幂等防护，不提供恰好一次语义。出错时放行。
func (g *RedisStockGate) FirstSeen(ctx context.Context, livestreamID, userID, message string) (bool, error) {
	digest := sha256.Sum256([]byte(message))
	key := fmt.Sprintf("livestream:msg:{%s:%s}:%s", livestreamID, userID, hex.EncodeToString(digest[:8]))
	return g.redisClient.GetClient().SetNX(ctx, key, 1, dedupeTTL).Result()
}

var reserveStockScript = `
-- KEYS[1]: 直播间库存 key, 例如: livestream:stock:{live-1:LTBX}
-- ARGV[1]: 要扣减的数量
-- ARGV[2]: key 不存在时的初始库存（来自目录服务的快照）

local qty = tonumber(ARGV[1])

-- key 不存在时先用快照初始化
if redis.call('exists', KEYS[1]) == 0 then
    redis.call('set', KEYS[1], tonumber(ARGV[2]))
end

local stock = tonumber(redis.call('get', KEYS[1]))

-- 不足即拒绝，判定与扣减在同一脚本内，天然原子
if stock < qty then
    return -1
end

return redis.call('decrby', KEYS[1], qty)
`

var releaseStockScript = `
-- KEYS[1]: 直播间库存 key
-- ARGV[1]: 要加回的数量
-- ARGV[2]: key 不存在时的初始库存

local qty = tonumber(ARGV[1])

if redis.call('exists', KEYS[1]) == 0 then
    redis.call('set', KEYS[1], tonumber(ARGV[2]))
end

return redis.call('incrby', KEYS[1], qty)
`
