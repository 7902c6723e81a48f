package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderIntent_Forms(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantSKU  string
		wantQty  int
	}{
		{"dat with qty", "đặt LTBX x2", "LTBX", 2},
		{"dat without qty", "đặt LTBX", "LTBX", 1},
		{"dat star separator", "đặt LTBX*2", "LTBX", 2},
		{"order verb", "order ABC123", "ABC123", 1},
		{"order verb with qty", "order ABC123 x5", "ABC123", 5},
		{"mua with qty and filler", "mua 3 cái ABC123", "ABC123", 3},
		{"mua bare", "mua ABC123", "ABC123", 1},
		{"sku qty shorthand", "LTBX x2", "LTBX", 2},
		{"sku qty star", "LTBX*2", "LTBX", 2},
		{"sku qty no space", "ABCx2", "ABC", 2},
		{"label form", "sku: LTBX 2", "LTBX", 2},
		{"label form no qty", "sku: LTBX", "LTBX", 1},
		{"lowercase normalized", "đặt ltbx x2", "LTBX", 2},
		{"surrounding whitespace", "  đặt LTBX x2  ", "LTBX", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := ParseOrderIntent(tt.message)
			assert.True(t, intent.IsOrderIntent)
			assert.Equal(t, tt.wantSKU, intent.SKU)
			assert.Equal(t, tt.wantQty, intent.Quantity)
			assert.Equal(t, tt.message, intent.OriginalMessage)
		})
	}
}

// 尾随数字默认属于 SKU；只有显式的 x/* 分隔符才表示数量。
func TestParseOrderIntent_TrailingDigitsBelongToSKU(t *testing.T) {
	intent := ParseOrderIntent("đặt ABC123")
	assert.True(t, intent.IsOrderIntent)
	assert.Equal(t, "ABC123", intent.SKU)
	assert.Equal(t, 1, intent.Quantity)

	intent = ParseOrderIntent("đặt ABC x123")
	assert.Equal(t, "ABC", intent.SKU)
	assert.Equal(t, 123, intent.Quantity)
}

func TestParseOrderIntent_NotAnIntent(t *testing.T) {
	messages := []string{
		"",
		"xin chào mọi người",
		"sản phẩm này đẹp quá",
		"giá bao nhiêu vậy",
		"123456",
		"x2",
		"đặt",
		"mua",
	}

	for _, msg := range messages {
		intent := ParseOrderIntent(msg)
		assert.False(t, intent.IsOrderIntent, "message %q should not parse as an order", msg)
		assert.Equal(t, msg, intent.OriginalMessage)
	}
}

func TestParseOrderIntent_QuantityNeverBelowOne(t *testing.T) {
	intent := ParseOrderIntent("đặt LTBX x0")
	assert.True(t, intent.IsOrderIntent)
	assert.Equal(t, 1, intent.Quantity)
}
