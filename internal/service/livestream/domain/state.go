// internal/service/livestream/domain/state.go
package domain

// State 描述一次下单编排所处的阶段，只沿单一方向推进。
type State string

const (
	StateReceived        State = "RECEIVED"
	StateParsed          State = "PARSED"
	StateProductResolved State = "PRODUCT_RESOLVED"
	StateAddressResolved State = "ADDRESS_RESOLVED"
	StateStockChecked    State = "STOCK_CHECKED"
	StateStockReserved   State = "STOCK_RESERVED"
	StateEventLogged     State = "EVENT_LOGGED"
	StateOrderCreated    State = "ORDER_CREATED"
	StateSuccess         State = "SUCCESS"
	StateRolledBack      State = "ROLLED_BACK"
)
