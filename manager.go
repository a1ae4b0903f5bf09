package session

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/goliatone/go-print"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusUnauthenticated is the initial and signed-out state.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusAuthenticating is the transient state while an identity
	// operation is in flight.
	StatusAuthenticating Status = "authenticating"
	// StatusAuthenticated means the identity service reports a signed-in
	// principal.
	StatusAuthenticated Status = "authenticated"
)

// sessionTransitions is the allowed transition graph. resetPassword never
// appears here: it is a side operation that leaves the state untouched.
var sessionTransitions = map[Status]map[Status]struct{}{
	StatusUnauthenticated: {
		StatusAuthenticating: {},
		StatusAuthenticated:  {}, // restore of a pre-existing principal
	},
	StatusAuthenticating: {
		StatusAuthenticated:   {},
		StatusUnauthenticated: {},
	},
	StatusAuthenticated: {
		StatusUnauthenticated: {},
	},
}

// Snapshot is an immutable view of the session state handed to listeners
// and returned by Snapshot(). CurrentUser is a deep copy.
type Snapshot struct {
	Status        Status       `json:"status"`
	Authenticated bool         `json:"authenticated"`
	Busy          bool         `json:"busy"`
	CurrentUser   *UserProfile `json:"current_user,omitempty"`
	LastError     string       `json:"last_error,omitempty"`
	LastSuccess   string       `json:"last_success,omitempty"`
}

const (
	msgRegistered = "Account created"
	msgSignedIn   = "Signed in"
	msgResetSent  = "Password reset email sent"
)

var (
	errNoUserID     = errors.New("identity service returned no user id")
	errNilPrincipal = errors.New("identity service returned no principal")
)

// Manager owns the process-wide session state and mediates every identity
// operation against the remote identity service. One instance per process,
// constructed at startup; call Restore to re-hydrate a pre-existing remote
// session.
type Manager struct {
	identity IdentityService
	profiles ProfileStore

	mu          sync.Mutex
	status      Status
	busy        bool
	currentUID  string
	current     *UserProfile
	lastError   string
	lastSuccess string

	listener Listener
	logger   Logger
	now      func() time.Time
	sleep    func(time.Duration)
	debug    bool

	hydrateAttempts int
	hydrateBackoff  time.Duration
}

// Option customizes manager construction.
type Option func(*Manager)

// WithLogger overrides the default stdout logger.
func WithLogger(logger Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithListener registers the single state-change consumer. The listener is
// invoked outside the manager lock, after every mutation.
func WithListener(listener Listener) Option {
	return func(m *Manager) {
		m.listener = listener
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithHydrationRetry tunes the bounded retry applied to profile hydration.
// Attempts below 1 are treated as 1.
func WithHydrationRetry(attempts int, backoff time.Duration) Option {
	return func(m *Manager) {
		if attempts < 1 {
			attempts = 1
		}
		m.hydrateAttempts = attempts
		m.hydrateBackoff = backoff
	}
}

// WithDebug enables pretty-printed state dumps on every change.
func WithDebug(debug bool) Option {
	return func(m *Manager) {
		m.debug = debug
	}
}

// NewManager returns a new session Manager.
func NewManager(identity IdentityService, profiles ProfileStore, opts ...Option) *Manager {
	m := &Manager{
		identity:        identity,
		profiles:        profiles,
		status:          StatusUnauthenticated,
		logger:          defLogger{},
		now:             time.Now,
		sleep:           time.Sleep,
		hydrateAttempts: 3,
		hydrateBackoff:  500 * time.Millisecond,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Restore probes the identity service for a pre-existing signed-in
// principal and, when one exists, marks the session authenticated and
// starts hydration without any re-authentication prompt. Returns whether a
// session was restored. Intended to run once, right after construction.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	principal, err := m.identity.CurrentPrincipal(ctx)
	if err != nil {
		m.logger.Warn("session restore probe failed", "error", err)
		return false, Classify(err)
	}

	if principal == nil || reflect.ValueOf(principal).IsZero() {
		return false, nil
	}

	m.mu.Lock()
	m.transition(StatusAuthenticated)
	m.currentUID = principal.UID()
	m.mu.Unlock()

	m.hydrate(principal.UID())
	m.notify()

	return true, nil
}

// Register creates a new account and its profile document, then signs the
// session in. The duplicate pre-check is advisory: a transient pre-check
// failure never blocks registration, the create call enforces uniqueness
// authoritatively.
func (m *Manager) Register(ctx context.Context, email, password, displayName, gradeLevel string) (string, error) {
	email = NormalizeEmail(email)

	if err := m.begin(true); err != nil {
		return "", err
	}

	methods, err := m.identity.ListSignInMethods(ctx, email)
	if err != nil {
		m.logger.Warn("duplicate pre-check failed, proceeding to create", "email", email, "error", err)
	} else if len(methods) > 0 {
		return m.fail(ErrEmailInUse, true)
	}

	userID, err := m.identity.CreateAccount(ctx, email, password)
	if err != nil {
		return m.fail(err, true)
	}
	if userID == "" {
		return m.fail(errNoUserID, true)
	}

	doc := NewProfileDocument(email, displayName, gradeLevel, m.now())
	if err := m.profiles.PutProfile(ctx, userID, doc); err != nil {
		return m.fail(err, true)
	}

	m.completeAuth(userID, msgRegistered)
	m.hydrate(userID)

	return msgRegistered, nil
}

// SignIn verifies credentials against the identity service and, on
// success, marks the session authenticated and hydrates the profile.
func (m *Manager) SignIn(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	if err := m.begin(true); err != nil {
		return "", err
	}

	principal, err := m.identity.VerifyCredentials(ctx, email, password)
	if err != nil {
		return m.fail(err, true)
	}

	if principal == nil || reflect.ValueOf(principal).IsZero() {
		return m.fail(errNilPrincipal, true)
	}

	m.completeAuth(principal.UID(), msgSignedIn)
	m.hydrate(principal.UID())

	return msgSignedIn, nil
}

// ResetPassword asks the identity service to dispatch a reset email. The
// authentication state is never touched.
func (m *Manager) ResetPassword(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	if err := m.begin(false); err != nil {
		return "", err
	}

	if err := m.identity.SendPasswordReset(ctx, email); err != nil {
		return m.fail(err, false)
	}

	m.mu.Lock()
	m.busy = false
	m.lastSuccess = msgResetSent
	m.mu.Unlock()
	m.notify()

	return msgResetSent, nil
}

// SignOut drops the remote principal and resets the local session. There
// is no failure path: the local reset happens regardless of remote
// acknowledgement.
func (m *Manager) SignOut(ctx context.Context) {
	m.identity.SignOut(ctx)

	m.mu.Lock()
	m.transition(StatusUnauthenticated)
	m.currentUID = ""
	m.current = nil
	m.lastError = ""
	m.lastSuccess = ""
	m.mu.Unlock()

	m.notify()
}

// ClearMessages drops both messages. Callers invoke it whenever the user
// edits an input field, so at most one stale message is ever visible.
func (m *Manager) ClearMessages() {
	m.mu.Lock()
	m.lastError = ""
	m.lastSuccess = ""
	m.mu.Unlock()

	m.notify()
}

// Snapshot returns an immutable copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// IsBusy reports whether an identity operation is in flight.
func (m *Manager) IsBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// IsAuthenticated reports whether the identity service has a signed-in
// principal for this session.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusAuthenticated
}

// CurrentUser returns a copy of the hydrated profile, or nil while loading
// or signed out.
func (m *Manager) CurrentUser() *UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// begin starts an identity operation: rejects when one is already in
// flight, raises the busy flag, and clears both messages. transient moves
// the state machine into Authenticating; resetPassword passes false.
func (m *Manager) begin(transient bool) error {
	m.mu.Lock()

	if m.busy {
		m.mu.Unlock()
		return ErrOperationInFlight
	}

	m.busy = true
	m.lastError = ""
	m.lastSuccess = ""
	if transient && m.status == StatusUnauthenticated {
		m.transition(StatusAuthenticating)
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

// fail classifies the error, records its user-facing message, and drops
// the busy flag. Authentication state rolls back to Unauthenticated for
// transient operations and is left alone otherwise.
func (m *Manager) fail(err error, transient bool) (string, error) {
	classified := Classify(err)

	m.mu.Lock()
	m.busy = false
	m.lastError = UserMessage(classified)
	if transient && m.status == StatusAuthenticating {
		m.transition(StatusUnauthenticated)
	}
	m.mu.Unlock()

	m.notify()
	return "", classified
}

// completeAuth marks the session authenticated for the given user id. The
// profile projection arrives asynchronously via hydration.
func (m *Manager) completeAuth(userID, message string) {
	m.mu.Lock()
	m.transition(StatusAuthenticated)
	m.currentUID = userID
	m.current = nil
	m.busy = false
	m.lastSuccess = message
	m.mu.Unlock()

	m.notify()
}

// transition moves the state machine. Callers hold the lock. An attempt
// outside the transition graph is a programming error and is logged, not
// applied.
func (m *Manager) transition(target Status) {
	if m.status == target {
		return
	}

	if allowed, ok := sessionTransitions[m.status]; ok {
		if _, exists := allowed[target]; exists {
			m.status = target
			return
		}
	}

	m.logger.Error("invalid session state transition", "from", m.status, "to", target)
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Status:        m.status,
		Authenticated: m.status == StatusAuthenticated,
		Busy:          m.busy,
		CurrentUser:   m.current.Clone(),
		LastError:     m.lastError,
		LastSuccess:   m.lastSuccess,
	}
}

// notify hands the current snapshot to the listener, outside the lock.
func (m *Manager) notify() {
	m.mu.Lock()
	snap := m.snapshotLocked()
	listener := m.listener
	m.mu.Unlock()

	if m.debug {
		m.logger.Debug("session state\n%s", print.MaybePrettyJSON(snap))
	}

	if listener != nil {
		listener(snap)
	}
}
