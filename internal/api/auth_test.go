package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failIfCalled returns a handler that fails the test when the backend is
// reached; used to prove local validation short-circuits.
func failIfCalled(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call to %s %s", r.Method, r.URL.Path)
	}
}

func TestSignup_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message": "User created successfully. Please check your email for OTP."}`))
	})

	result, err := client.Signup(context.Background(), "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	assert.Equal(t, "/users/signup", gotPath)
	assert.Equal(t, "alice@example.com", gotBody["email"])
	assert.Equal(t, "hunter2hunter2", gotBody["password"])
	assert.Contains(t, result.Message, "check your email")
	assert.False(t, client.IsAuthenticated())
}

func TestSignup_LocalValidation(t *testing.T) {
	client, _ := newTestClient(t, failIfCalled(t))

	_, err := client.Signup(context.Background(), "not-an-email", "longenough")
	assert.True(t, IsValidationError(err))

	_, err = client.Signup(context.Background(), "a@b.com", "short")
	assert.True(t, IsValidationError(err))
}

func TestVerifyOTP_StoresTokenBeforeReturning(t *testing.T) {
	var gotBody struct {
		Email string `json:"email"`
		OTP   int    `json:"otp"`
	}
	client, s := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/verify-otp", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"access_token": "tok-1", "user": {"email": "a@b.com", "name": "A"}}`))
	})

	result, err := client.VerifyOTP(context.Background(), "a@b.com", "123456")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", gotBody.Email)
	assert.Equal(t, 123456, gotBody.OTP)
	require.NotNil(t, result.User)

	// Token side effect happened even if the caller drops the result.
	assert.True(t, client.IsAuthenticated())
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
}

func TestVerifyOTP_LocalValidation(t *testing.T) {
	client, _ := newTestClient(t, failIfCalled(t))

	cases := []struct {
		name  string
		email string
		otp   string
	}{
		{"missing email", "", "123456"},
		{"missing otp", "a@b.com", ""},
		{"too short", "a@b.com", "12345"},
		{"too long", "a@b.com", "1234567"},
		{"non numeric", "a@b.com", "12a456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.VerifyOTP(context.Background(), tc.email, tc.otp)
			assert.True(t, IsValidationError(err))
			assert.False(t, client.IsAuthenticated())
		})
	}
}

func TestLogin_Success(t *testing.T) {
	client, s := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		w.Write([]byte(`{"access_token": "tok-login", "user": {"email": "a@b.com"}}`))
	})

	result, err := client.Login(context.Background(), "a@b.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, result.User)

	assert.True(t, client.IsAuthenticated())
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-login", tok)
}

func TestLogin_BackendError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Invalid email or password"}`))
	})

	_, err := client.Login(context.Background(), "a@b.com", "wrong-password")
	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid email or password", reqErr.Message)
	assert.False(t, client.IsAuthenticated())
}

func TestLogout_ClearsTokenAndProfile(t *testing.T) {
	client, s := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "tok", "user": {"email": "a@b.com"}}`))
	})

	_, err := client.Login(context.Background(), "a@b.com", "password1")
	require.NoError(t, err)
	require.NoError(t, client.SetUserData(&User{Email: "a@b.com"}))

	require.NoError(t, client.Logout())

	assert.False(t, client.IsAuthenticated())
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
	user, err := client.UserData()
	require.NoError(t, err)
	assert.Nil(t, user)
}
