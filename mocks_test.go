package users_test

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockIdentity implements users.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Active() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockLogger implements users.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockTokenService implements users.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssuePair(identity users.Identity) (users.TokenPair, error) {
	args := m.Called(identity)
	return args.Get(0).(users.TokenPair), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (users.AuthClaims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(users.AuthClaims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenService) Refresh(refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *users.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

// MockUsers mocks the Users store. The embedded interface covers the
// generic repository surface the tests never touch.
type MockUsers struct {
	users.Users
	mock.Mock
}

func (m *MockUsers) Register(ctx context.Context, user *users.User) (*users.User, error) {
	args := m.Called(ctx, user)
	if record, ok := args.Get(0).(*users.User); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *users.User) (*users.User, error) {
	args := m.Called(ctx, tx, user)
	if record, ok := args.Get(0).(*users.User); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	if record, ok := args.Get(0).(*users.User); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*users.User, error) {
	args := m.Called(ctx, tx, email)
	if record, ok := args.Get(0).(*users.User); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetAccountByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if record, ok := args.Get(0).(*users.User); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetAccountByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, tx, id)
	if record, ok := args.Get(0).(*users.User); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) UpdateFields(ctx context.Context, record *users.User, columns ...string) (*users.User, error) {
	args := m.Called(ctx, record, columns)
	if updated, ok := args.Get(0).(*users.User); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) UpdateFieldsTx(ctx context.Context, tx bun.IDB, record *users.User, columns ...string) (*users.User, error) {
	args := m.Called(ctx, tx, record, columns)
	if updated, ok := args.Get(0).(*users.User); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRepositoryManager implements users.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() users.Users {
	args := m.Called()
	return args.Get(0).(users.Users)
}
