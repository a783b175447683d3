package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMutualFunds(t *testing.T) {
	var gotFamily string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mutual-funds", r.URL.Path)
		gotFamily = r.URL.Query().Get("fund_family")
		w.Write([]byte(`[
			{"Scheme_Code": 119551, "Scheme_Name": "SBI Bluechip", "Scheme_Category": "Equity", "Net_Asset_Value": 81.5},
			{"Scheme_Code": 119552, "Scheme_Name": "SBI Small Cap", "Scheme_Category": "Equity", "Net_Asset_Value": 150.25}
		]`))
	})

	funds, err := client.SearchMutualFunds(context.Background(), "SBI Mutual Fund")
	require.NoError(t, err)

	assert.Equal(t, "SBI Mutual Fund", gotFamily)
	require.Len(t, funds, 2)
	assert.Equal(t, 119551, funds[0].SchemeCode)
	assert.Equal(t, "SBI Bluechip", funds[0].SchemeName)
	assert.InDelta(t, 81.5, funds[0].NetAssetValue, 1e-9)
}

func TestSearchMutualFunds_EmptyFamily(t *testing.T) {
	client, _ := newTestClient(t, failIfCalled(t))

	_, err := client.SearchMutualFunds(context.Background(), "")
	assert.True(t, IsValidationError(err))
}

func TestInvestments(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mutual-funds/investments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"investments": [
				{"scheme_code": 1, "scheme_name": "Fund A", "units": 5, "buy_price": 100, "current_price": 110, "profit_loss": 50}
			],
			"total_profit_loss": 50
		}`))
	})
	require.NoError(t, client.SetToken("tok"))

	holdings, err := client.Investments(context.Background())
	require.NoError(t, err)

	require.Len(t, holdings.Investments, 1)
	assert.Equal(t, "Fund A", holdings.Investments[0].SchemeName)
	assert.InDelta(t, 50, holdings.TotalProfitLoss, 1e-9)
}

func TestCreateInvestment(t *testing.T) {
	var gotBody map[string]int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mutual-funds/investments", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"scheme_code": 119551, "scheme_name": "SBI Bluechip", "units": 10, "buy_price": 81.5, "current_price": 81.5}`))
	})
	require.NoError(t, client.SetToken("tok"))

	investment, err := client.CreateInvestment(context.Background(), 119551, 10)
	require.NoError(t, err)

	assert.Equal(t, 119551, gotBody["scheme_code"])
	assert.Equal(t, 10, gotBody["units"])
	assert.Equal(t, "SBI Bluechip", investment.SchemeName)
}

func TestCreateInvestment_RejectsNonPositiveUnits(t *testing.T) {
	client, _ := newTestClient(t, failIfCalled(t))

	for _, units := range []int{0, -3} {
		_, err := client.CreateInvestment(context.Background(), 119551, units)
		assert.True(t, IsValidationError(err), "units=%d", units)
	}
}
