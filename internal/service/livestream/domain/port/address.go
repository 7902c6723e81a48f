// internal/service/livestream/domain/port/address.go
package port

import (
	"context"
	"errors"

	"streamcart/internal/service/livestream/domain"
)

var (
	// ErrAddressNotFound 表示用户没有默认收货地址或店铺没有发货地址。
	ErrAddressNotFound = errors.New("address not found")
	// ErrShopNotFound 表示店铺不存在。
	ErrShopNotFound = errors.New("shop not found")
)

// AddressService 是地址服务的出站端口。
type AddressService interface {
	// GetUserDefaultAddress 查询用户的默认收货地址。
	GetUserDefaultAddress(ctx context.Context, userID string) (*domain.Address, error)

	// GetShopAddress 查询店铺的发货地址。
	GetShopAddress(ctx context.Context, shopID string) (*domain.Address, error)
}

// ShopService 是店铺服务的出站端口。
type ShopService interface {
	GetShopByID(ctx context.Context, shopID string) (*domain.Shop, error)
}
