package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/examvault/go-session"
)

// TestPrincipal is a simple Principal implementation for tests.
type TestPrincipal struct {
	uid   string
	email string
}

func (p TestPrincipal) UID() string   { return p.uid }
func (p TestPrincipal) Email() string { return p.email }

// MockIdentityService implements session.IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) CreateAccount(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityService) VerifyCredentials(ctx context.Context, email, password string) (session.Principal, error) {
	args := m.Called(ctx, email, password)
	principal, _ := args.Get(0).(session.Principal)
	return principal, args.Error(1)
}

func (m *MockIdentityService) ListSignInMethods(ctx context.Context, email string) ([]string, error) {
	args := m.Called(ctx, email)
	methods, _ := args.Get(0).([]string)
	return methods, args.Error(1)
}

func (m *MockIdentityService) SendPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityService) CurrentPrincipal(ctx context.Context) (session.Principal, error) {
	args := m.Called(ctx)
	principal, _ := args.Get(0).(session.Principal)
	return principal, args.Error(1)
}

func (m *MockIdentityService) SignOut(ctx context.Context) {
	m.Called(ctx)
}

// MockProfileStore implements session.ProfileStore
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) GetProfile(ctx context.Context, userID string) (*session.ProfileDocument, error) {
	args := m.Called(ctx, userID)
	doc, _ := args.Get(0).(*session.ProfileDocument)
	return doc, args.Error(1)
}

func (m *MockProfileStore) PutProfile(ctx context.Context, userID string, doc session.ProfileDocument) error {
	args := m.Called(ctx, userID, doc)
	return args.Error(0)
}
