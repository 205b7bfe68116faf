package dto

import (
	"time"

	"github.com/spec-kit/offer-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=80"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest payload for initiating reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

// PasswordResetConfirmRequest payload for confirming reset.
type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetResponse acknowledges a reset request. Token fields are only filled when
// token exposure is enabled for development.
type PasswordResetResponse struct {
	Status    string     `json:"status"`
	Token     string     `json:"resetToken,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UpdateProfileRequest is the body of PATCH /me.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
}

// SetRoleRequest is the body of PUT /admin/users/:id/role.
type SetRoleRequest struct {
	Role domain.Role `json:"role" validate:"required"`
}

// UserResponse is the public view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Role        domain.Role `json:"role"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
