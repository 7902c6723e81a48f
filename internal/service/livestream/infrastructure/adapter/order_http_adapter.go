// internal/service/livestream/infrastructure/adapter/order_http_adapter.go
package adapter

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"streamcart/internal/pkg/constants"
	"streamcart/internal/pkg/httpclient"
	"streamcart/internal/service/livestream/domain/port"
)

// OrderHTTPAdapter 实现 port.OrderService，对接订单服务。
type OrderHTTPAdapter struct {
	client *httpclient.Client
}

func NewOrderHTTPAdapter(client *httpclient.Client) *OrderHTTPAdapter {
	return &OrderHTTPAdapter{client: client}
}

func (a *OrderHTTPAdapter) CreateOrder(ctx context.Context, req *port.CreateOrderRequest) (*port.CreateOrderResult, error) {
	var result port.CreateOrderResult
	if err := a.client.PostJSON(ctx, constants.OrderService, constants.OrderCreatePath, req, &result); err != nil {
		return nil, errors.Wrap(err, "order creation call failed")
	}
	return &result, nil
}

func (a *OrderHTTPAdapter) GetPaymentStatus(ctx context.Context, orderID string) (string, error) {
	params := url.Values{}
	params.Set("orderId", orderID)

	var resp struct {
		Status string `json:"status"`
	}
	err := a.client.GetJSON(ctx, constants.OrderService, constants.OrderPaymentStatusPath, params, &resp)
	if err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return "", nil
		}
		return "", errors.Wrap(err, "payment status lookup failed")
	}
	return resp.Status, nil
}

func (a *OrderHTTPAdapter) CancelOrder(ctx context.Context, orderID, reason, actor string) error {
	params := url.Values{}
	params.Set("orderId", orderID)
	params.Set("reason", reason)
	params.Set("actor", actor)

	if err := a.client.CallService(ctx, constants.OrderService, constants.OrderCancelPath, params); err != nil {
		return errors.Wrap(err, "order cancellation call failed")
	}
	return nil
}
