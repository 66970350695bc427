package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

type failingRepo struct {
	repository.UserRepository
	createErr error
	getErr    error
	user      *domain.User
}

func (r *failingRepo) Create(context.Context, *domain.User) error { return r.createErr }

func (r *failingRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.user, nil
}

func newService(repo repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{UserRepo: repo, Dispatcher: dispatcher})
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(repository.NewMemoryUserRepository(), nil)

	user, err := svc.RegisterUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	token, err := svc.LoginUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(repository.NewMemoryUserRepository(), nil)

	_, err := svc.RegisterUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, "a@x.com", "secret2")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// the first registration still logs in
	_, err = svc.LoginUser(ctx, "a@x.com", "secret1")
	assert.NoError(t, err)
}

func TestRegister_StoreError(t *testing.T) {
	storeErr := errors.New("insert user: connection refused")
	svc := newService(&failingRepo{createErr: storeErr}, nil)

	_, err := svc.RegisterUser(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, storeErr)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := newService(repository.NewMemoryUserRepository(), nil)
	_, err := svc.RegisterUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := svc.LoginUser(ctx, "a@x.com", "nope")
	_, unknownEmail := svc.LoginUser(ctx, "b@x.com", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_StoreError(t *testing.T) {
	svc := newService(&failingRepo{getErr: errors.New("db down")}, nil)

	_, err := svc.LoginUser(context.Background(), "a@x.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MalformedStoredHash(t *testing.T) {
	svc := newService(&failingRepo{user: &domain.User{ID: "u1", Email: "a@x.com", PasswordHash: "plain"}}, nil)

	_, err := svc.LoginUser(context.Background(), "a@x.com", "plain")
	assert.ErrorIs(t, err, auth.ErrMalformedHash)
}

func TestLogin_EmptySecret(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Auth.JWTSecret = ""
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: repository.NewMemoryUserRepository()})

	_, err := svc.RegisterUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.LoginUser(ctx, "a@x.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrSigning)
}

func TestAuthService_PublishesAuditEvents(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core), metrics).RegisterHandlers()

	svc := newService(repository.NewMemoryUserRepository(), dispatcher)
	_, err := svc.RegisterUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	_, err = svc.LoginUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	_, err = svc.LoginUser(ctx, "a@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Events[string(events.EventUserRegistered)])
	assert.Equal(t, int64(1), snap.Events[string(events.EventUserLoggedIn)])
	assert.Equal(t, int64(1), snap.Events[string(events.EventLoginFailed)])

	assert.Equal(t, 1, logs.FilterMessage("LoginFailed").Len())
	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			assert.NotContains(t, field.String, "secret1")
			assert.NotContains(t, field.String, "$2a$")
		}
	}
}

func TestAuthService_HandlerFailureDoesNotFailLogin(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventUserLoggedIn, func(context.Context, events.Event) error {
		return errors.New("audit sink unavailable")
	})

	svc := newService(repository.NewMemoryUserRepository(), dispatcher)
	_, err := svc.RegisterUser(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.LoginUser(ctx, "a@x.com", "secret1")
	assert.NoError(t, err)
}
