// internal/pkg/constants/constants.go
package constants

// Nacos 中注册的下游服务名。
const (
	LivestreamCatalogService = "livestream-catalog-service"
	AddressService           = "address-service"
	ShopService              = "shop-service"
	OrderService             = "order-service"
)

// 下游服务的接口路径。
const (
	CatalogProductBySkuPath = "/internal/livestream-products/by-sku"
	CatalogUpdateStockPath  = "/internal/livestream-products/stock"

	AddressUserDefaultPath = "/internal/addresses/default"
	AddressShopPath        = "/internal/addresses/shop"
	ShopByIDPath           = "/internal/shops"

	OrderCreatePath        = "/internal/orders"
	OrderPaymentStatusPath = "/internal/orders/payment-status"
	OrderCancelPath        = "/internal/orders/cancel"
)

// Kafka 主题。
const (
	DelayTopic10m         = "delay_topic_10m"
	PaymentTimeoutTopic   = "payment-timeout-check-topic"
	NotificationTopic     = "notifications"
	PaymentTimeoutGroupID = "livestream-service-payment-timeout"
	RealTopicHeader       = "real-topic"
)
