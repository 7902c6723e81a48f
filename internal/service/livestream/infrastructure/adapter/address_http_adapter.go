// internal/service/livestream/infrastructure/adapter/address_http_adapter.go
package adapter

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"streamcart/internal/pkg/constants"
	"streamcart/internal/pkg/httpclient"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// AddressHTTPAdapter 实现 port.AddressService。
type AddressHTTPAdapter struct {
	client *httpclient.Client
}

func NewAddressHTTPAdapter(client *httpclient.Client) *AddressHTTPAdapter {
	return &AddressHTTPAdapter{client: client}
}

func (a *AddressHTTPAdapter) GetUserDefaultAddress(ctx context.Context, userID string) (*domain.Address, error) {
	params := url.Values{}
	params.Set("userId", userID)

	var addr domain.Address
	err := a.client.GetJSON(ctx, constants.AddressService, constants.AddressUserDefaultPath, params, &addr)
	if err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return nil, port.ErrAddressNotFound
		}
		return nil, errors.Wrap(err, "user default address lookup failed")
	}
	return &addr, nil
}

func (a *AddressHTTPAdapter) GetShopAddress(ctx context.Context, shopID string) (*domain.Address, error) {
	params := url.Values{}
	params.Set("shopId", shopID)

	var addr domain.Address
	err := a.client.GetJSON(ctx, constants.AddressService, constants.AddressShopPath, params, &addr)
	if err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return nil, port.ErrAddressNotFound
		}
		return nil, errors.Wrap(err, "shop address lookup failed")
	}
	return &addr, nil
}

// ShopHTTPAdapter 实现 port.ShopService。
type ShopHTTPAdapter struct {
	client *httpclient.Client
}

func NewShopHTTPAdapter(client *httpclient.Client) *ShopHTTPAdapter {
	return &ShopHTTPAdapter{client: client}
}

func (a *ShopHTTPAdapter) GetShopByID(ctx context.Context, shopID string) (*domain.Shop, error) {
	params := url.Values{}
	params.Set("shopId", shopID)

	var shop domain.Shop
	err := a.client.GetJSON(ctx, constants.ShopService, constants.ShopByIDPath, params, &shop)
	if err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return nil, port.ErrShopNotFound
		}
		return nil, errors.Wrap(err, "shop lookup failed")
	}
	return &shop, nil
}
