package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/repository"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

func newMiddlewareApp(t *testing.T, users UserLookup) (*fiber.App, *TokenManager) {
	t.Helper()
	tm := NewTokenManager("secret", 5)
	mw := NewAuthMiddleware(tm, users, zap.NewNop())
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
	}})
	app.Get("/whoami", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"id": p.ID, "role": p.Role, "role_ok": p.RoleErr == nil})
	})
	return app, tm
}

func TestAuthMiddlewareRejectsMissingOrBadTokens(t *testing.T) {
	app, _ := newMiddlewareApp(t, repository.NewInMemoryStore().Users())

	for name, header := range map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"bad token":  "Bearer nope",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareLoadsPrincipal(t *testing.T) {
	store := repository.NewInMemoryStore()
	require.NoError(t, store.Users().Create(context.Background(), &domain.User{ID: "root", Email: "root@example.com", Role: domain.RoleAdmin}))
	app, tm := newMiddlewareApp(t, store.Users())

	token, _, err := tm.GenerateToken("root", "root@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareCarriesRoleLookupFailure(t *testing.T) {
	failing := lookupFunc(func(context.Context, string) (*domain.User, error) {
		return nil, repository.ErrUnavailable
	})
	app, tm := newMiddlewareApp(t, failing)
	token, _, err := tm.GenerateToken("alice", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, decodeJSON(resp, &body))
	assert.Equal(t, false, body["role_ok"])
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}
