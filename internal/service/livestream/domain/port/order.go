// internal/service/livestream/domain/port/order.go
package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// 订单服务侧的支付状态。本服务只区分 Pending 与其余状态。
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
)

// CreateOrderRequest 是提交给订单服务的下单请求。
type CreateOrderRequest struct {
	UserID               string          `json:"userId"`
	ShopID               string          `json:"shopId"`
	LivestreamID         string          `json:"livestreamId"`
	ProductID            string          `json:"productId"`
	VariantID            string          `json:"variantId,omitempty"`
	SKU                  string          `json:"sku"`
	Quantity             int             `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unitPrice"`
	ShippingAddressID    string          `json:"shippingAddressId"`
	ShopAddressID        string          `json:"shopAddressId"`
	CreatedFromCommentID string          `json:"createdFromCommentId"`
}

// CreateOrderResult 是订单服务的下单应答。
type CreateOrderResult struct {
	Success   bool   `json:"success"`
	OrderID   string `json:"orderId,omitempty"`
	OrderCode string `json:"orderCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// OrderService 是订单服务的出站端口。
type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResult, error)

	// GetPaymentStatus 查询订单的支付状态，订单不存在时返回空串。
	GetPaymentStatus(ctx context.Context, orderID string) (string, error)

	CancelOrder(ctx context.Context, orderID, reason, actor string) error
}
