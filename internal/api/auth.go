package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// Signup registers a new account. On success the backend sends a one-time
// passcode to the email address; the returned message says so.
func (c *Client) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := c.checkVar("email", email, "required,email", "Please enter a valid email address."); err != nil {
		return nil, err
	}
	// The backend rejects passwords under 8 characters; failing locally
	// saves the round trip.
	if err := c.checkVar("password", password, "required,min=8", "Password must be at least 8 characters long."); err != nil {
		return nil, err
	}

	var result AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/users/signup", signupRequest{Email: email, Password: password}, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyOTP confirms a pending signup with the emailed passcode. On success
// the backend issues a session: the token is stored before returning, so a
// caller that drops the result is still logged in.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	if err := c.checkVar("email", email, "required,email", "Email is required for OTP verification."); err != nil {
		return nil, err
	}
	if err := c.checkVar("otp", otp, "required,len=6,numeric", "Please enter a valid 6-digit OTP code."); err != nil {
		return nil, err
	}
	code, err := strconv.Atoi(otp)
	if err != nil {
		return nil, &ValidationError{Field: "otp", Message: "OTP must be a valid number."}
	}

	var result AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/users/verify-otp", verifyOTPRequest{Email: email, OTP: code}, &result, false); err != nil {
		return nil, err
	}
	if result.AccessToken != "" {
		if err := c.SetToken(result.AccessToken); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// Login authenticates with email and password. The issued token is stored
// before returning, same as VerifyOTP.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := c.checkVar("email", email, "required,email", "Please enter a valid email address."); err != nil {
		return nil, err
	}
	if err := c.checkVar("password", password, "required", "Password is required."); err != nil {
		return nil, err
	}

	var result AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/users/login", loginRequest{Email: email, Password: password}, &result, false); err != nil {
		return nil, err
	}
	if result.AccessToken != "" {
		if err := c.SetToken(result.AccessToken); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// Logout clears the token and the cached profile. It is purely local: the
// backend holds no revocable session state, so no network call is made.
func (c *Client) Logout() error {
	c.token = ""
	return errors.Join(c.store.SetToken(""), c.store.SetUserData(nil))
}
