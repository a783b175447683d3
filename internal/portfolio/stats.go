// Package portfolio aggregates investment holdings into display statistics
// and keeps them fresh in the background.
package portfolio

import "github.com/asiftp654/Bhive/internal/api"

// Summary is the aggregate view of a portfolio.
type Summary struct {
	// TotalInvested is the sum of buy price times units across holdings.
	TotalInvested float64 `json:"total_invested" yaml:"total_invested"`
	// CurrentValue is the sum of current price times units across holdings.
	CurrentValue float64 `json:"current_value" yaml:"current_value"`
	// TotalProfitLoss is the backend's reported aggregate. It is taken
	// verbatim rather than derived as CurrentValue minus TotalInvested, so
	// it reflects whatever the backend includes (fees, rounding).
	TotalProfitLoss float64 `json:"total_profit_loss" yaml:"total_profit_loss"`
	// FundCount is the number of holdings.
	FundCount int `json:"fund_count" yaml:"fund_count"`
}

// Summarize computes the aggregate statistics for a set of holdings.
func Summarize(h *api.Holdings) Summary {
	s := Summary{TotalProfitLoss: h.TotalProfitLoss, FundCount: len(h.Investments)}
	for _, inv := range h.Investments {
		s.TotalInvested += inv.BuyPrice * inv.Units
		s.CurrentValue += inv.CurrentPrice * inv.Units
	}
	return s
}
