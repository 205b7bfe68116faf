package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/offer-service/internal/config"
	"github.com/spec-kit/offer-service/internal/domain"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

func newAuthService(f *fixture) *AuthService {
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:          f.store.Users(),
		PasswordResetRepo: f.store.PasswordResets(),
		Dispatcher:        f.dispatcher,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{DisplayName: "Carol", Email: " Carol@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", session.User.Email)
	assert.Equal(t, domain.RoleUser, session.User.Role)
	assert.NotEqual(t, "s3cret-pass", session.User.PasswordHash)

	identity, err := svc.TokenManager().VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, identity.ID)
	assert.Equal(t, []string{"user_registered"}, f.auditActions())

	login, err := svc.Login(ctx, "carol@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "carol@example.com", "wrong-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{DisplayName: "Alice 2", Email: "ALICE@example.com", Password: "long-enough"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = svc.Register(ctx, RegisterInput{DisplayName: "Dan", Email: "dan@example.com", Password: "short"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.ToDomainError(err).Details, "password")

	_, err = svc.Register(ctx, RegisterInput{Email: "bad", Password: "long-enough"})
	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "displayName")
	assert.Contains(t, details, "email")
}

func TestSeededUsersWithoutPasswordCannotLogin(t *testing.T) {
	f := newFixture(t)
	_, err := newAuthService(f).Login(context.Background(), "alice@example.com", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)
	ctx := context.Background()

	reset, err := svc.RequestPasswordReset(ctx, " Alice@Example.com ")
	require.NoError(t, err)
	require.NotNil(t, reset)
	assert.Equal(t, "alice", reset.UserID)
	assert.NotEmpty(t, reset.Token)

	err = svc.ConfirmPasswordReset(ctx, reset.Token, "short")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.ToDomainError(err).Details, "password")

	require.NoError(t, svc.ConfirmPasswordReset(ctx, reset.Token, "brand-new-pass"))
	session, err := svc.Login(ctx, "alice@example.com", "brand-new-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.User.ID)

	err = svc.ConfirmPasswordReset(ctx, reset.Token, "another-pass")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.ToDomainError(err).Details, "token")

	assert.Equal(t, []string{"password_reset_requested", "password_reset_completed"}, f.auditActions())
	for _, e := range f.store.AuditEntries() {
		for _, v := range e.Payload {
			s, ok := v.(string)
			assert.False(t, ok && strings.Contains(s, reset.Token))
		}
	}
}

func TestPasswordResetUnknownEmailAndExpiry(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)
	ctx := context.Background()

	reset, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, reset)
	assert.Empty(t, f.auditActions())

	_, err = svc.RequestPasswordReset(ctx, "not-an-email")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	reset, err = svc.RequestPasswordReset(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), reset.ExpiresAt)

	now = now.Add(31 * time.Minute)
	err = svc.ConfirmPasswordReset(ctx, reset.Token, "brand-new-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	err = svc.ConfirmPasswordReset(ctx, "made-up", "brand-new-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}
