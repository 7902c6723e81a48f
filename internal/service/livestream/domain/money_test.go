package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"200000", "200,000"},
		{"1234567", "1,234,567"},
		{"200000.99", "200,000"},
		{"-1500000", "-1,500,000"},
	}

	for _, tt := range tests {
		got := FormatVND(decimal.RequireFromString(tt.amount))
		assert.Equal(t, tt.want, got, "amount %s", tt.amount)
	}
}

func TestLivestreamProductTotal(t *testing.T) {
	p := &LivestreamProduct{Price: decimal.RequireFromString("100000")}
	assert.Equal(t, "200,000", FormatVND(p.Total(2)))
}
