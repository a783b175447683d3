package api

import (
	"context"
	"net/url"
)

// SearchMutualFunds lists the open schemes offered by a fund family.
func (c *Client) SearchMutualFunds(ctx context.Context, fundFamily string) ([]MutualFund, error) {
	if err := c.checkVar("fund_family", fundFamily, "required", "Please select a fund family to search."); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("fund_family", fundFamily)

	var funds []MutualFund
	if err := c.get(ctx, "/mutual-funds?"+params.Encode(), &funds); err != nil {
		return nil, err
	}
	return funds, nil
}

// Investments fetches the user's holdings together with the backend's
// profit/loss aggregate.
func (c *Client) Investments(ctx context.Context) (*Holdings, error) {
	var holdings Holdings
	if err := c.get(ctx, "/mutual-funds/investments", &holdings); err != nil {
		return nil, err
	}
	return &holdings, nil
}

// CreateInvestment buys units of a scheme at the current NAV and returns the
// created holding.
func (c *Client) CreateInvestment(ctx context.Context, schemeCode, units int) (*Investment, error) {
	if err := c.validate.Var(units, "gt=0"); err != nil {
		return nil, &ValidationError{Field: "units", Message: "Units must be a positive number."}
	}

	var investment Investment
	if err := c.post(ctx, "/mutual-funds/investments", createInvestmentRequest{SchemeCode: schemeCode, Units: units}, &investment); err != nil {
		return nil, err
	}
	return &investment, nil
}
