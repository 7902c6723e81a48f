// internal/service/livestream/infrastructure/adapter/catalog_http_adapter.go
package adapter

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"streamcart/internal/pkg/constants"
	"streamcart/internal/pkg/httpclient"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// CatalogHTTPAdapter 实现 port.LivestreamCatalog，对接直播商品目录服务。
type CatalogHTTPAdapter struct {
	client *httpclient.Client
}

func NewCatalogHTTPAdapter(client *httpclient.Client) *CatalogHTTPAdapter {
	return &CatalogHTTPAdapter{client: client}
}

func (a *CatalogHTTPAdapter) GetBySKU(ctx context.Context, livestreamID, sku string) (*domain.LivestreamProduct, error) {
	params := url.Values{}
	params.Set("livestreamId", livestreamID)
	params.Set("sku", sku)

	var product domain.LivestreamProduct
	err := a.client.GetJSON(ctx, constants.LivestreamCatalogService, constants.CatalogProductBySkuPath, params, &product)
	if err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return nil, port.ErrProductNotFound
		}
		return nil, errors.Wrap(err, "catalog lookup failed")
	}
	return &product, nil
}

// UpdateStock 无条件把直播间库存设置为 newStock。
// 目录服务没有条件写原语，这里保留源系统的先比较后写入语义；
// 并发下的丢失更新窗口由上层的 RedisStockGate 或 SKU 锁关闭。
func (a *CatalogHTTPAdapter) UpdateStock(ctx context.Context, livestreamID, productID, variantID string, newStock int, actor string) error {
	params := url.Values{}
	params.Set("livestreamId", livestreamID)
	params.Set("productId", productID)
	if variantID != "" {
		params.Set("variantId", variantID)
	}
	params.Set("stock", strconv.Itoa(newStock))
	params.Set("actor", actor)

	if err := a.client.CallService(ctx, constants.LivestreamCatalogService, constants.CatalogUpdateStockPath, params); err != nil {
		return errors.Wrap(err, "stock update rejected")
	}
	return nil
}
