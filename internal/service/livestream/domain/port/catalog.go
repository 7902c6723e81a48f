// internal/service/livestream/domain/port/catalog.go
package port

import (
	"context"
	"errors"

	"streamcart/internal/service/livestream/domain"
)

// ErrProductNotFound 表示直播间里不存在对应 SKU 的商品。
var ErrProductNotFound = errors.New("livestream product not found")

// LivestreamCatalog 是直播商品目录服务的出站端口。
// 库存字段的权威存储在目录服务一侧，本服务不做任何本地缓存。
type LivestreamCatalog interface {
	// GetBySKU 按 SKU 查找一场直播中的商品，找不到时返回 ErrProductNotFound。
	GetBySKU(ctx context.Context, livestreamID, sku string) (*domain.LivestreamProduct, error)

	// UpdateStock 将直播间维度的库存无条件设置为 newStock。
	// 这是一个先比较后写入的原语：调用方必须自行完成充足性校验和差值计算。
	UpdateStock(ctx context.Context, livestreamID, productID, variantID string, newStock int, actor string) error
}
