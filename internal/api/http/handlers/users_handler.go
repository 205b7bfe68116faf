package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/offer-service/internal/api/dto"
	"github.com/spec-kit/offer-service/internal/service"
)

// UsersHandler exposes registration, login and password reset.
type UsersHandler struct {
	auth             *service.AuthService
	exposeResetToken bool
}

// NewUsersHandler constructs handler. exposeResetToken echoes reset tokens in responses.
func NewUsersHandler(authService *service.AuthService, exposeResetToken bool) *UsersHandler {
	return &UsersHandler{auth: authService, exposeResetToken: exposeResetToken}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, authResponse(session))
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, authResponse(session))
}

// RequestPasswordReset handles POST /auth/password/reset/request. The response is the
// same whether or not the email is registered.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	reset, err := h.auth.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	resp := dto.PasswordResetResponse{Status: "reset_requested"}
	if h.exposeResetToken && reset != nil {
		resp.Token = reset.Token
		resp.ExpiresAt = &reset.ExpiresAt
	}
	return data(c, http.StatusAccepted, resp)
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.PasswordResetResponse{Status: "password_reset"})
}

func authResponse(s *service.Session) dto.AuthResponse {
	return dto.AuthResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: dto.NewUserResponse(s.User)}
}
