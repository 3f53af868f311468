package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-entry/internal/domain"
	apperrors "github.com/spec-kit/gym-entry/pkg/util"
)

func newTestApp(tm *TokenManager, gates ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	handlers := []fiber.Handler{NewAuthMiddleware(tm).Handle}
	handlers = append(handlers, gates...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(principal.SubjectID + ":" + string(principal.Role))
	})
	app.Get("/", handlers...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware_AttachesPrincipal(t *testing.T) {
	tm := NewTokenManager("session-secret", 15)
	token, _, err := tm.GenerateToken("U1", domain.RoleClient)
	require.NoError(t, err)

	status, body := doRequest(t, newTestApp(tm), "Bearer "+token)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "U1:client", body)
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	tm := NewTokenManager("session-secret", 15)
	app := newTestApp(tm)

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		status, body := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, status, header)
		assert.Equal(t, "UNAUTHORIZED", body, header)
	}
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("session-secret", 15)
	app := newTestApp(tm, RequireStaff())

	clientToken, _, err := tm.GenerateToken("U1", domain.RoleClient)
	require.NoError(t, err)
	coachToken, _, err := tm.GenerateToken("C1", domain.RoleCoach)
	require.NoError(t, err)

	status, body := doRequest(t, app, "Bearer "+clientToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body)

	status, body = doRequest(t, app, "Bearer "+coachToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "C1:coach", body)
}
