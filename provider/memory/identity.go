package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"

	"github.com/examvault/go-session"
)

// Identity is an in-memory IdentityService used by tests and the example
// program. Passwords are bcrypt-hashed and user identifiers are derived
// deterministically from the email where possible, so repeated runs see
// stable IDs.
type Identity struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by normalized email
	current  *principal
}

type account struct {
	uid          string
	email        string
	passwordHash string
}

type principal struct {
	uid   string
	email string
}

func (p principal) UID() string   { return p.uid }
func (p principal) Email() string { return p.email }

var _ session.IdentityService = (*Identity)(nil)

// NewIdentity returns an empty in-memory identity service.
func NewIdentity() *Identity {
	return &Identity{
		accounts: map[string]*account{},
	}
}

// CreateAccount enforces the same policies the remote service applies:
// unique emails, minimally well-formed addresses, passwords of at least
// six characters.
func (i *Identity) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email = session.NormalizeEmail(email)

	if !strings.Contains(email, "@") {
		return "", session.ErrInvalidEmail
	}

	if len(password) < 6 {
		return "", session.ErrWeakPassword
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.accounts[email]; exists {
		return "", session.ErrEmailInUse
	}

	hash, err := session.HashPassword(password)
	if err != nil {
		return "", err
	}

	uid := newUserID(email)
	i.accounts[email] = &account{
		uid:          uid,
		email:        email,
		passwordHash: hash,
	}
	i.current = &principal{uid: uid, email: email}

	return uid, nil
}

// VerifyCredentials checks the password and installs the principal.
func (i *Identity) VerifyCredentials(ctx context.Context, email, password string) (session.Principal, error) {
	email = session.NormalizeEmail(email)

	i.mu.Lock()
	defer i.mu.Unlock()

	acct, exists := i.accounts[email]
	if !exists {
		return nil, session.ErrNoSuchUser
	}

	if err := session.ComparePasswordAndHash(password, acct.passwordHash); err != nil {
		return nil, err
	}

	i.current = &principal{uid: acct.uid, email: acct.email}
	return *i.current, nil
}

// ListSignInMethods reports ["password"] for registered emails.
func (i *Identity) ListSignInMethods(ctx context.Context, email string) ([]string, error) {
	email = session.NormalizeEmail(email)

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.accounts[email]; exists {
		return []string{"password"}, nil
	}
	return nil, nil
}

// SendPasswordReset succeeds for registered emails only.
func (i *Identity) SendPasswordReset(ctx context.Context, email string) error {
	email = session.NormalizeEmail(email)

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.accounts[email]; !exists {
		return session.ErrNoSuchUser
	}
	return nil
}

// CurrentPrincipal returns the signed-in principal, or (nil, nil).
func (i *Identity) CurrentPrincipal(ctx context.Context) (session.Principal, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.current == nil {
		return nil, nil
	}
	return *i.current, nil
}

// SignOut drops the current principal.
func (i *Identity) SignOut(ctx context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.current = nil
}

func newUserID(email string) string {
	if id, err := hashid.NewUUID(email); err == nil {
		return id.String()
	}
	return uuid.New().String()
}
