package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/config"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/ids"
	"github.com/spec-kit/offer-service/internal/repository"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
	"github.com/spec-kit/offer-service/pkg/util/validation"
)

// AuthService coordinates registration, login and password reset flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	DisplayName string `json:"displayName" validate:"required,max=80"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type resetRequestInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type resetConfirmInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// PasswordReset is an issued reset token. Token is the only copy of the secret.
type PasswordReset struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Session is an issued access token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   cfg.Auth.PasswordResetTTL(),
		now:        time.Now,
	}
}

// Register creates a user-role account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, "user")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           ids.New(),
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken()
		}
		return nil, storeError(err, "user")
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserRegistered,
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		ActorID:    &user.ID,
		Source:     domain.AuditSourceAPI,
		Payload:    map[string]any{"email": user.Email},
	})
	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, storeError(err, "user")
	}
	if user.PasswordHash == "" || auth.ComparePassword(user.PasswordHash, password) != nil {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}
	return s.issue(user)
}

// RequestPasswordReset issues a single-use reset token for the account behind email.
// An unknown email returns nil and no error, so callers cannot probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*PasswordReset, error) {
	input := resetRequestInput{Email: strings.ToLower(strings.TrimSpace(email))}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if s.resets == nil {
		return nil, apperrors.NewInternalError(errors.New("password reset store not configured"))
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil, nil
		}
		return nil, storeError(err, "user")
	}

	secret := ids.New()
	token := &domain.PasswordResetToken{
		ID:        ids.NewSortable(),
		UserID:    user.ID,
		TokenHash: hashResetToken(secret),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, storeError(err, "password reset")
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventPasswordResetRequested,
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		ActorID:    &user.ID,
		Source:     domain.AuditSourceAPI,
		Payload:    map[string]any{"expiresAt": token.ExpiresAt.UTC().Format(time.RFC3339)},
	})
	return &PasswordReset{UserID: user.ID, Token: secret, ExpiresAt: token.ExpiresAt}, nil
}

// ConfirmPasswordReset redeems token and sets a new password. Unknown, used and expired
// tokens are rejected alike.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	input := resetConfirmInput{Token: strings.TrimSpace(token), Password: newPassword}
	if err := validation.Struct(input); err != nil {
		return err
	}
	if s.resets == nil {
		return apperrors.NewInternalError(errors.New("password reset store not configured"))
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	redeemed, err := s.resets.Consume(ctx, hashResetToken(input.Token), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidationError("invalid reset token", map[string]any{"token": "invalid or expired"})
		}
		return storeError(err, "password reset")
	}
	if err := s.users.UpdatePassword(ctx, redeemed.UserID, hash); err != nil {
		return storeError(err, "user")
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventPasswordResetCompleted,
		EntityType: domain.EntityUser,
		EntityID:   redeemed.UserID,
		ActorID:    &redeemed.UserID,
		Source:     domain.AuditSourceAPI,
	})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func emailTaken() error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": "already registered"})
}

func hashResetToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
