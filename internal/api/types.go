// Package api provides the Go client for the Bhive mutual fund backend.
//
// The client owns the session token: it is loaded from the session store at
// construction time and written back on every change, so a restarted process
// resumes the previous session.
package api

// User is the profile returned by the auth endpoints and cached locally.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// DisplayName returns the user's name, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// AuthResult is the response shape shared by signup, verify-otp and login.
// AccessToken and User are only present once the backend has issued a
// session; signup responds with just a message while verification is pending.
type AuthResult struct {
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// MutualFund is a single scheme as reported by the fund search endpoint.
// The field casing on the wire comes from the upstream NAV data provider.
type MutualFund struct {
	SchemeCode     int     `json:"Scheme_Code"`
	SchemeName     string  `json:"Scheme_Name"`
	SchemeCategory string  `json:"Scheme_Category"`
	NetAssetValue  float64 `json:"Net_Asset_Value"`
}

// Investment is a single holding in the user's portfolio.
type Investment struct {
	SchemeCode       int     `json:"scheme_code"`
	SchemeName       string  `json:"scheme_name"`
	Units            float64 `json:"units"`
	BuyPrice         float64 `json:"buy_price"`
	CurrentPrice     float64 `json:"current_price"`
	TransactionDate  string  `json:"transaction_date"`
	MutualFundFamily string  `json:"mutual_fund_family"`
	ProfitLoss       float64 `json:"profit_loss"`
}

// Holdings is the investments listing with the backend's profit/loss
// aggregate. TotalProfitLoss is reported by the backend and is treated as
// authoritative rather than recomputed from the per-holding figures.
type Holdings struct {
	Investments     []Investment `json:"investments"`
	TotalProfitLoss float64      `json:"total_profit_loss"`
}

// SessionStore persists the bearer token and the cached user profile across
// process lifetimes. Implementations must treat an absent value as empty,
// not as an error.
type SessionStore interface {
	Token() (string, error)
	SetToken(token string) error
	UserData() ([]byte, error)
	SetUserData(data []byte) error
	Reset() error
}

// Request bodies.

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   int    `json:"otp"`
}

type createInvestmentRequest struct {
	SchemeCode int `json:"scheme_code"`
	Units      int `json:"units"`
}
