// internal/service/livestream/application/saga/handler.go
package saga

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"streamcart/internal/pkg/logger"
	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// OrderContext 在下单编排的各个步骤之间传递上下文数据。
// 外部依赖全部以出站端口的形式注入，步骤实现不感知具体传输方式。
type OrderContext struct {
	Ctx    context.Context
	Tracer trace.Tracer

	// 入参
	LivestreamID string
	UserID       string
	Intent       *domain.OrderIntent

	// 各步骤沿途填充的产物
	State        domain.State
	Product      *domain.LivestreamProduct
	BuyerAddress *domain.Address
	Shop         *domain.Shop
	ShopAddress  *domain.Address
	EventID      string
	OrderID      string
	OrderCode    string

	PaymentTimeout time.Duration

	// 出站端口
	Catalog      port.LivestreamCatalog
	StockGate    port.StockGate
	AddressSvc   port.AddressService
	ShopSvc      port.ShopService
	EventSvc     port.StreamEventService
	OrderSvc     port.OrderService
	Scheduler    port.DelayScheduler
	Notifier     port.NotificationProducer

	// 补偿栈：后注册的先执行
	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation 注册一个补偿动作，压入栈顶。
func (c *OrderContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

// TriggerCompensation 按 LIFO 顺序执行所有已注册的补偿动作。
// 补偿自身的失败只记录日志，不中断其余补偿。
func (c *OrderContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Info().
		Str("livestream_id", c.LivestreamID).
		Int("count", len(c.compensations)).
		Msg("Executing compensation functions")
	for _, comp := range c.compensations {
		comp(ctx)
	}
	c.State = domain.StateRolledBack
}

// Handler 是编排链上一个步骤的抽象。
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

// NextHandler 提供链式推进的公共实现，具体步骤内嵌它。
type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}
