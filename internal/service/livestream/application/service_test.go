package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"streamcart/internal/service/livestream/domain"
	"streamcart/internal/service/livestream/domain/port"
)

// --- Mock implementations ---

type mockCatalog struct {
	product *domain.LivestreamProduct
	getErr  error
}

func (m *mockCatalog) GetBySKU(_ context.Context, _, sku string) (*domain.LivestreamProduct, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.product == nil || m.product.SKU != sku {
		return nil, port.ErrProductNotFound
	}
	cp := *m.product
	return &cp, nil
}

func (m *mockCatalog) UpdateStock(_ context.Context, _, _, _ string, newStock int, _ string) error {
	m.product.Stock = newStock
	return nil
}

type mockStockGate struct {
	reserveCalls int
	releaseCalls int
	reserveErr   error
	releaseErr   error
}

func (m *mockStockGate) Reserve(_ context.Context, _ *domain.LivestreamProduct, _ int, _ string) error {
	m.reserveCalls++
	return m.reserveErr
}

func (m *mockStockGate) Release(_ context.Context, _ *domain.LivestreamProduct, _ int, _ string) error {
	m.releaseCalls++
	return m.releaseErr
}

type mockAddressSvc struct {
	buyerErr error
	shopErr  error
}

func (m *mockAddressSvc) GetUserDefaultAddress(_ context.Context, userID string) (*domain.Address, error) {
	if m.buyerErr != nil {
		return nil, m.buyerErr
	}
	return &domain.Address{ID: "addr-1", UserID: userID}, nil
}

func (m *mockAddressSvc) GetShopAddress(_ context.Context, shopID string) (*domain.Address, error) {
	if m.shopErr != nil {
		return nil, m.shopErr
	}
	return &domain.Address{ID: "addr-shop-1"}, nil
}

type mockShopSvc struct {
	err error
}

func (m *mockShopSvc) GetShopByID(_ context.Context, shopID string) (*domain.Shop, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Shop{ID: shopID, Name: "Test Shop"}, nil
}

type mockEventSvc struct {
	err       error
	lastEvent *domain.StreamEvent
}

func (m *mockEventSvc) CreateStreamEvent(_ context.Context, event *domain.StreamEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastEvent = event
	return "evt-1", nil
}

type mockOrderSvc struct {
	createErr     error
	createResult  *port.CreateOrderResult
	lastCreateReq *port.CreateOrderRequest

	paymentStatus string
	statusErr     error

	cancelCalls int
	cancelErr   error
}

func (m *mockOrderSvc) CreateOrder(_ context.Context, req *port.CreateOrderRequest) (*port.CreateOrderResult, error) {
	m.lastCreateReq = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.createResult != nil {
		return m.createResult, nil
	}
	return &port.CreateOrderResult{Success: true, OrderID: "ord-1", OrderCode: "OC-1"}, nil
}

func (m *mockOrderSvc) GetPaymentStatus(_ context.Context, _ string) (string, error) {
	return m.paymentStatus, m.statusErr
}

func (m *mockOrderSvc) CancelOrder(_ context.Context, _, _, _ string) error {
	m.cancelCalls++
	return m.cancelErr
}

type mockScheduler struct {
	events []*domain.PaymentTimeoutCheckEvent
	err    error
}

func (m *mockScheduler) SchedulePaymentTimeout(_ context.Context, event *domain.PaymentTimeoutCheckEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

type mockNotifier struct {
	events []*domain.NotificationEvent
}

func (m *mockNotifier) Send(_ context.Context, event *domain.NotificationEvent) error {
	m.events = append(m.events, event)
	return nil
}

type mockDeduper struct {
	first bool
	err   error
}

func (m *mockDeduper) FirstSeen(_ context.Context, _, _, _ string) (bool, error) {
	return m.first, m.err
}

// --- Helpers ---

type testDeps struct {
	catalog   *mockCatalog
	stockGate *mockStockGate
	address   *mockAddressSvc
	shop      *mockShopSvc
	events    *mockEventSvc
	orders    *mockOrderSvc
	scheduler *mockScheduler
	notifier  *mockNotifier
	deduper   port.MessageDeduper
}

func newTestDeps() *testDeps {
	return &testDeps{
		catalog: &mockCatalog{
			product: &domain.LivestreamProduct{
				ID:           "lp-1",
				LivestreamID: "live-1",
				ProductID:    "p-1",
				ShopID:       "shop-1",
				SKU:          "LTBX",
				ProductName:  "Áo thun",
				Price:        decimal.RequireFromString("100000"),
				Stock:        10,
			},
		},
		stockGate: &mockStockGate{},
		address:   &mockAddressSvc{},
		shop:      &mockShopSvc{},
		events:    &mockEventSvc{},
		orders:    &mockOrderSvc{},
		scheduler: &mockScheduler{},
		notifier:  &mockNotifier{},
	}
}

func newTestService(d *testDeps) *OrderIntakeService {
	return NewOrderIntakeService(
		otel.Tracer("test"),
		10*time.Minute,
		d.catalog,
		d.stockGate,
		d.address,
		d.shop,
		d.events,
		d.orders,
		d.scheduler,
		d.notifier,
		d.deduper,
	)
}

func chatMessage(msg string) *ChatMessageRequest {
	return &ChatMessageRequest{LivestreamID: "live-1", UserID: "user-1", Message: msg}
}

// --- Tests ---

func TestHandleChatMessage_NotAnIntent(t *testing.T) {
	d := newTestDeps()
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("xin chào mọi người"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgFormatNotRecognized, result.Message)
	assert.Zero(t, d.stockGate.reserveCalls)
	assert.Nil(t, d.orders.lastCreateReq)
}

func TestHandleChatMessage_Success(t *testing.T) {
	d := newTestDeps()
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x2"))

	require.True(t, result.Success)
	assert.Equal(t, "ord-1", result.OrderID)
	assert.Equal(t, 1, d.stockGate.reserveCalls)
	assert.Zero(t, d.stockGate.releaseCalls)

	// 订单请求携带解析结果和沿途解析出的地址
	require.NotNil(t, d.orders.lastCreateReq)
	assert.Equal(t, "LTBX", d.orders.lastCreateReq.SKU)
	assert.Equal(t, 2, d.orders.lastCreateReq.Quantity)
	assert.Equal(t, "addr-1", d.orders.lastCreateReq.ShippingAddressID)
	assert.Equal(t, "evt-1", d.orders.lastCreateReq.CreatedFromCommentID)

	// 确认文案含商品名、数量和格式化后的总金额
	assert.Contains(t, result.Message, "Áo thun x2")
	assert.Contains(t, result.Message, "200,000đ")
	assert.Contains(t, result.Message, "10 phút")

	// 审计记录保存了原始消息
	require.NotNil(t, d.events.lastEvent)
	assert.Equal(t, "đặt LTBX x2", d.events.lastEvent.Payload)

	// 支付超时检查已调度
	require.Len(t, d.scheduler.events, 1)
	assert.Equal(t, "ord-1", d.scheduler.events[0].OrderID)
	assert.Equal(t, 2, d.scheduler.events[0].Quantity)

	require.Len(t, d.notifier.events, 1)
	assert.Equal(t, result.Message, d.notifier.events[0].Message)
}

func TestHandleChatMessage_ProductNotFound(t *testing.T) {
	d := newTestDeps()
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt KHONGCO x1"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgProductNotFound("KHONGCO"), result.Message)
	assert.Zero(t, d.stockGate.reserveCalls)
}

func TestHandleChatMessage_MissingAddressAbortsBeforeReservation(t *testing.T) {
	d := newTestDeps()
	d.address.buyerErr = port.ErrAddressNotFound
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x1"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgMissingAddress, result.Message)
	// 地址解析排在库存预占之前：这里不允许发生任何库存写调用
	assert.Zero(t, d.stockGate.reserveCalls)
	assert.Zero(t, d.stockGate.releaseCalls)
	assert.Nil(t, d.orders.lastCreateReq)
}

func TestHandleChatMessage_InsufficientStockNeverWrites(t *testing.T) {
	d := newTestDeps()
	d.catalog.product.Stock = 1
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x3"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgInsufficientStock("LTBX", 1), result.Message)
	// 充足性预校验失败时连一次预占调用都不该发出
	assert.Zero(t, d.stockGate.reserveCalls)
	assert.Nil(t, d.orders.lastCreateReq)
}

func TestHandleChatMessage_GateRejectsReservation(t *testing.T) {
	d := newTestDeps()
	d.stockGate.reserveErr = port.ErrInsufficientStock
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x2"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgInsufficientStock("LTBX", 10), result.Message)
	// 预占没有成功，补偿不应释放任何库存
	assert.Zero(t, d.stockGate.releaseCalls)
}

func TestHandleChatMessage_OrderCreationFailureReleasesStock(t *testing.T) {
	d := newTestDeps()
	d.orders.createErr = errors.New("order service unavailable")
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x2"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgOrderFailed, result.Message)
	// 预占已生效，失败后必须精确回补
	assert.Equal(t, 1, d.stockGate.reserveCalls)
	assert.Equal(t, 1, d.stockGate.releaseCalls)
	assert.Empty(t, d.scheduler.events)
}

func TestHandleChatMessage_OrderRejectedReleasesStock(t *testing.T) {
	d := newTestDeps()
	d.orders.createResult = &port.CreateOrderResult{Success: false, Message: "risk control"}
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x2"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgOrderFailed, result.Message)
	assert.Equal(t, 1, d.stockGate.releaseCalls)
}

func TestHandleChatMessage_AuditFailureDoesNotBlockOrder(t *testing.T) {
	d := newTestDeps()
	d.events.err = errors.New("mysql down")
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x1"))

	require.True(t, result.Success)
	require.NotNil(t, d.orders.lastCreateReq)
	assert.Equal(t, "event-unrecorded", d.orders.lastCreateReq.CreatedFromCommentID)
}

func TestHandleChatMessage_DuplicateSuppressed(t *testing.T) {
	d := newTestDeps()
	d.deduper = &mockDeduper{first: false}
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x2"))

	assert.False(t, result.Success)
	assert.Equal(t, domain.MsgDuplicateMessage, result.Message)
	assert.Zero(t, d.stockGate.reserveCalls)
}

func TestHandleChatMessage_DedupeFailureFailsOpen(t *testing.T) {
	d := newTestDeps()
	d.deduper = &mockDeduper{err: errors.New("redis down")}
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x1"))

	assert.True(t, result.Success)
}

func TestHandleChatMessage_SchedulerFailureDoesNotFailOrder(t *testing.T) {
	d := newTestDeps()
	d.scheduler.err = errors.New("kafka unavailable")
	svc := newTestService(d)

	result := svc.HandleChatMessage(context.Background(), chatMessage("đặt LTBX x1"))

	assert.True(t, result.Success)
	assert.Zero(t, d.stockGate.releaseCalls)
}

func TestProcessPaymentTimeout_PendingOrderCancelledAndRestored(t *testing.T) {
	d := newTestDeps()
	d.orders.paymentStatus = port.PaymentStatusPending
	svc := newTestService(d)

	event := &domain.PaymentTimeoutCheckEvent{
		OrderID:      "ord-1",
		LivestreamID: "live-1",
		SKU:          "LTBX",
		Quantity:     2,
	}
	cancelled, err := svc.ProcessPaymentTimeout(context.Background(), event)

	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, 1, d.orders.cancelCalls)
	assert.Equal(t, 1, d.stockGate.releaseCalls)
}

func TestProcessPaymentTimeout_PaidOrderUntouched(t *testing.T) {
	d := newTestDeps()
	d.orders.paymentStatus = port.PaymentStatusPaid
	svc := newTestService(d)

	cancelled, err := svc.ProcessPaymentTimeout(context.Background(), &domain.PaymentTimeoutCheckEvent{OrderID: "ord-1"})

	require.NoError(t, err)
	assert.False(t, cancelled)
	assert.Zero(t, d.orders.cancelCalls)
	assert.Zero(t, d.stockGate.releaseCalls)
}

func TestProcessPaymentTimeout_StatusCheckFailure(t *testing.T) {
	d := newTestDeps()
	d.orders.statusErr = errors.New("order service unavailable")
	svc := newTestService(d)

	cancelled, err := svc.ProcessPaymentTimeout(context.Background(), &domain.PaymentTimeoutCheckEvent{OrderID: "ord-1"})

	require.Error(t, err)
	assert.False(t, cancelled)
	assert.Zero(t, d.orders.cancelCalls)
}

func TestProcessPaymentTimeout_RestoreFailureStillCancelled(t *testing.T) {
	d := newTestDeps()
	d.orders.paymentStatus = port.PaymentStatusPending
	d.stockGate.releaseErr = errors.New("catalog unavailable")
	svc := newTestService(d)

	event := &domain.PaymentTimeoutCheckEvent{OrderID: "ord-1", LivestreamID: "live-1", SKU: "LTBX", Quantity: 1}
	cancelled, err := svc.ProcessPaymentTimeout(context.Background(), event)

	require.Error(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, 1, d.orders.cancelCalls)
}
