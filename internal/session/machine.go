// Package session tracks the authentication lifecycle of the client: whether
// a visitor is unauthenticated, mid-signup awaiting OTP confirmation, or
// authenticated. It is presentation-agnostic; a UI binds through the Events
// interface.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/asiftp654/Bhive/internal/api"
	"github.com/asiftp654/Bhive/internal/portfolio"
)

// State is the authentication state of the session.
type State int

const (
	// Unauthenticated is the initial state: no valid session.
	Unauthenticated State = iota
	// PendingVerification means a signup succeeded and an OTP confirmation
	// is outstanding for the pending email.
	PendingVerification
	// Authenticated means a session token and user profile are held.
	Authenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case PendingVerification:
		return "pending-verification"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Level classifies a user-facing notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Events receives callbacks from the state machine. Implementations bind the
// machine to a presentation layer; all methods are called from the goroutine
// driving the transition.
type Events interface {
	// StateChanged fires on every transition, after the new state is set.
	StateChanged(from, to State)
	// PortfolioUpdated fires whenever fresh holdings have been fetched.
	PortfolioUpdated(summary portfolio.Summary, holdings []api.Investment)
	// Notify surfaces a transient user-facing message.
	Notify(level Level, message string)
}

// NopEvents discards all callbacks.
type NopEvents struct{}

func (NopEvents) StateChanged(_, _ State)                                  {}
func (NopEvents) PortfolioUpdated(_ portfolio.Summary, _ []api.Investment) {}
func (NopEvents) Notify(_ Level, _ string)                                 {}

// Gateway is the backend surface the machine drives. *api.Client satisfies
// it.
type Gateway interface {
	Signup(ctx context.Context, email, password string) (*api.AuthResult, error)
	VerifyOTP(ctx context.Context, email, otp string) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Logout() error
	Investments(ctx context.Context) (*api.Holdings, error)
	IsAuthenticated() bool
	UserData() (*api.User, error)
	SetUserData(user *api.User) error
}

// Manager is the session state machine. All failures leave the state
// unchanged; no state is terminal.
type Manager struct {
	gw     Gateway
	events Events
	logger *slog.Logger

	mu           sync.Mutex
	state        State
	user         *api.User
	pendingEmail string
	summary      portfolio.Summary
	holdings     []api.Investment
}

// NewManager creates a session manager in the Unauthenticated state. A nil
// events sink and a nil logger are both valid.
func NewManager(gw Gateway, events Events, logger *slog.Logger) *Manager {
	if events == nil {
		events = NopEvents{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{gw: gw, events: events, logger: logger, state: Unauthenticated}
}

// Start determines the initial state by probing the gateway. A token with a
// cached profile resumes the session and triggers a portfolio load; a token
// without a profile is treated as an invalid session and cleared.
func (m *Manager) Start(ctx context.Context) {
	if !m.gw.IsAuthenticated() {
		return
	}
	user, err := m.gw.UserData()
	if err == nil && user != nil {
		m.mu.Lock()
		m.user = user
		m.mu.Unlock()
		m.transition(Authenticated)
		m.loadPortfolio(ctx)
		return
	}
	if err != nil {
		m.logger.Error("failed to read cached profile", "err", err)
	}
	m.logger.Warn("session token present without cached profile, clearing session")
	if err := m.gw.Logout(); err != nil {
		m.logger.Error("failed to clear stale session", "err", err)
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated user, or nil.
func (m *Manager) CurrentUser() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// PendingEmail returns the email awaiting OTP confirmation, or "".
func (m *Manager) PendingEmail() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingEmail
}

// Portfolio returns the most recently loaded summary and holdings.
func (m *Manager) Portfolio() (portfolio.Summary, []api.Investment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary, m.holdings
}

// Active reports whether the session is authenticated. Together with
// Refresh it satisfies portfolio.Source.
func (m *Manager) Active() bool {
	return m.State() == Authenticated
}

// Login authenticates and, on success, caches the profile and loads the
// portfolio. On failure the state is unchanged and the error is surfaced.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	result, err := m.gw.Login(ctx, email, password)
	if err != nil {
		return m.fail("login failed", err)
	}
	return m.establish(ctx, result, fmt.Sprintf("Welcome back, %s!", result.User.DisplayName()))
}

// Signup registers an account and moves to PendingVerification on success.
func (m *Manager) Signup(ctx context.Context, email, password string) error {
	result, err := m.gw.Signup(ctx, email, password)
	if err != nil {
		return m.fail("signup failed", err)
	}

	m.mu.Lock()
	m.pendingEmail = email
	m.mu.Unlock()
	m.transition(PendingVerification)

	message := result.Message
	if message == "" {
		message = "Account created. Please check your email for the OTP."
	}
	m.events.Notify(LevelInfo, message)
	return nil
}

// BeginVerification marks an email as awaiting OTP confirmation without a
// preceding signup call, e.g. when resuming verification from another
// process.
func (m *Manager) BeginVerification(email string) {
	m.mu.Lock()
	m.pendingEmail = email
	m.mu.Unlock()
	m.transition(PendingVerification)
}

// Verify confirms the pending signup with the emailed passcode. Malformed
// codes are rejected locally: the gateway is never invoked and the state
// stays PendingVerification.
func (m *Manager) Verify(ctx context.Context, otp string) error {
	m.mu.Lock()
	email := m.pendingEmail
	m.mu.Unlock()

	if email == "" {
		err := &api.ValidationError{Field: "email", Message: "Email not found. Please try signing up again."}
		m.events.Notify(LevelError, err.Message)
		m.transition(Unauthenticated)
		return err
	}

	if !validOTP(otp) {
		err := &api.ValidationError{Field: "otp", Message: "Please enter a valid 6-digit OTP code."}
		m.events.Notify(LevelError, err.Message)
		return err
	}

	result, err := m.gw.VerifyOTP(ctx, email, otp)
	if err != nil {
		return m.fail("otp verification failed", err)
	}

	m.mu.Lock()
	m.pendingEmail = ""
	m.mu.Unlock()
	return m.establish(ctx, result, fmt.Sprintf("Account verified successfully! Welcome, %s!", result.User.DisplayName()))
}

// Abandon cancels a pending verification, e.g. on navigating back to signup
// or login.
func (m *Manager) Abandon() {
	m.mu.Lock()
	m.pendingEmail = ""
	m.mu.Unlock()
	m.transition(Unauthenticated)
}

// Logout clears the session. Gateway failures are swallowed: local state is
// cleared regardless.
func (m *Manager) Logout() {
	if err := m.gw.Logout(); err != nil {
		m.logger.Error("logout cleanup failed", "err", err)
	}

	m.mu.Lock()
	m.user = nil
	m.pendingEmail = ""
	m.summary = portfolio.Summary{}
	m.holdings = nil
	m.mu.Unlock()
	m.transition(Unauthenticated)
	m.events.Notify(LevelSuccess, "Logged out successfully!")
}

// Reload re-fetches holdings and republishes statistics. It is idempotent
// and never changes session state.
func (m *Manager) Reload(ctx context.Context) error {
	m.events.Notify(LevelInfo, "Refreshing portfolio data...")
	if err := m.loadPortfolio(ctx); err != nil {
		return m.fail("portfolio reload failed", err)
	}
	m.events.Notify(LevelSuccess, "Portfolio refreshed successfully!")
	return nil
}

// Refresh is the silent variant of Reload used by the background refresher:
// failures are logged, never notified.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.loadPortfolio(ctx)
}

// establish completes a successful login or verification: token is already
// stored by the gateway, so cache the profile, enter Authenticated and load
// the portfolio.
func (m *Manager) establish(ctx context.Context, result *api.AuthResult, welcome string) error {
	if result.User == nil {
		err := errors.New("auth response missing user profile")
		return m.fail("authentication failed", err)
	}
	if err := m.gw.SetUserData(result.User); err != nil {
		m.logger.Error("failed to cache profile", "err", err)
	}

	m.mu.Lock()
	m.user = result.User
	m.mu.Unlock()
	m.transition(Authenticated)
	m.events.Notify(LevelSuccess, welcome)

	// Entry into Authenticated always triggers a portfolio load; a failure
	// here is logged but does not undo the login.
	if err := m.loadPortfolio(ctx); err != nil {
		m.logger.Error("failed to load portfolio", "err", err)
	}
	return nil
}

func (m *Manager) loadPortfolio(ctx context.Context) error {
	holdings, err := m.gw.Investments(ctx)
	if err != nil {
		return err
	}
	summary := portfolio.Summarize(holdings)

	m.mu.Lock()
	m.summary = summary
	m.holdings = holdings.Investments
	m.mu.Unlock()

	m.events.PortfolioUpdated(summary, holdings.Investments)
	return nil
}

// transition sets the state and fires StateChanged if it actually changed.
func (m *Manager) transition(to State) {
	m.mu.Lock()
	from := m.state
	m.state = to
	m.mu.Unlock()
	if from != to {
		m.events.StateChanged(from, to)
	}
}

// fail surfaces an error to the user and leaves the state unchanged.
func (m *Manager) fail(msg string, err error) error {
	m.logger.Error(msg, "err", err)
	m.events.Notify(LevelError, userMessage(err))
	return err
}

// userMessage maps an error to the single user-visible message.
func userMessage(err error) string {
	var valErr *api.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return "An unexpected error occurred. Please try again."
}

func validOTP(otp string) bool {
	if len(otp) != 6 {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
