// internal/service/livestream/domain/product.go
package domain

import "github.com/shopspring/decimal"

// LivestreamProduct 是商品在一场直播中的上架快照。
// 价格和库存是直播维度的，可能与商品目录里的全局值不同。
type LivestreamProduct struct {
	ID           string          `json:"id"`
	LivestreamID string          `json:"livestreamId"`
	ProductID    string          `json:"productId"`
	VariantID    string          `json:"variantId,omitempty"`
	ShopID       string          `json:"shopId"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"productName"`
	Price        decimal.Decimal `json:"price"`
	// Stock 是直播间维度的可售库存，是本子系统唯一的判定与扣减依据。
	Stock int `json:"stock"`
	// ProductStock 是商品目录的全局库存，仅用于展示与诊断，
	// 与 Stock 之间只保证最终一致，不参与任何预占判断。
	ProductStock int `json:"productStock"`
}

// AvailableStock 返回可售数量的唯一权威值。
func (p *LivestreamProduct) AvailableStock() int {
	return p.Stock
}

// Total 计算按直播价购买 quantity 件的总金额。
func (p *LivestreamProduct) Total(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Address 是下游地址服务返回的收发货地址。
type Address struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	Province  string `json:"province"`
	IsDefault bool   `json:"isDefault"`
}

// Shop 是店铺服务返回的店铺信息。
type Shop struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}
