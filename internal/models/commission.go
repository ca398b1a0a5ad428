package models

import "math"

// SuggestedCommissionRate is the default total commission as a share of
// the property price.
const SuggestedCommissionRate = 0.01

// Commission is a closed-deal financial record.
type Commission struct {
	ID              string  `json:"id"`
	BuyerName       string  `json:"buyerName"`
	SellerName      string  `json:"sellerName"`
	ContractDate    string  `json:"contractDate"`
	PropertyPrice   float64 `json:"propertyPrice"`
	TotalCommission float64 `json:"totalCommission"`
	AgentPercentage float64 `json:"agentPercentage"`
	AgentShare      float64 `json:"agentShare"`
	IsPaid          bool    `json:"isPaid"`
}

// RoundCurrency rounds an amount to the nearest whole currency unit,
// halves away from zero.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount)
}

// SuggestTotal is the default total commission for a property price.
func SuggestTotal(propertyPrice float64) float64 {
	return RoundCurrency(propertyPrice * SuggestedCommissionRate)
}

// AgentShare is the agent's cut of total at the given percentage.
func AgentShare(total, percentage float64) float64 {
	return RoundCurrency(total * percentage / 100)
}

// Recompute restores the agent share derivation. It must run after every
// change to the total or the percentage.
func (c *Commission) Recompute() {
	c.AgentShare = AgentShare(c.TotalCommission, c.AgentPercentage)
}

// CommissionSummary aggregates the commission ledger.
type CommissionSummary struct {
	PaidIncome    float64 `json:"paidIncome"`
	PendingIncome float64 `json:"pendingIncome"`
	DealCount     int     `json:"dealCount"`
	PaidCount     int     `json:"paidCount"`
}

// Summarize totals agent shares by paid state.
func Summarize(commissions []Commission) CommissionSummary {
	var s CommissionSummary
	for _, c := range commissions {
		s.DealCount++
		if c.IsPaid {
			s.PaidCount++
			s.PaidIncome += c.AgentShare
		} else {
			s.PendingIncome += c.AgentShare
		}
	}
	return s
}
