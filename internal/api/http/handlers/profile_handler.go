package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/offer-service/internal/api/dto"
	"github.com/spec-kit/offer-service/internal/auth"
	"github.com/spec-kit/offer-service/internal/service"
)

// ProfileHandler serves the caller's own profile and admin user management.
type ProfileHandler struct {
	users *service.UserService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(users *service.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// GetProfile GET /me.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.users.GetOwnProfile(c.UserContext(), principal(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile PATCH /me.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	if err := authorize(c, auth.ActionUpdateOwnProfile, ownResource(c)); err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateOwnProfile(c.UserContext(), principal(c), req.DisplayName)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// ListUsers GET /admin/users.
func (h *ProfileHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListAllUsers(c.UserContext(), principal(c), limitParam(c))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return data(c, http.StatusOK, items)
}

// SetRole PUT /admin/users/:id/role.
func (h *ProfileHandler) SetRole(c *fiber.Ctx) error {
	if err := authorize(c, auth.ActionChangeUserRole, auth.Resource{}); err != nil {
		return err
	}
	var req dto.SetRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.SetUserRole(c.UserContext(), principal(c), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}
