package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(stub authServiceStub, userID uuid.UUID) http.Handler {
	h := NewAuthHandler(stub, CookieSettings{AccessMaxAge: 15 * time.Minute, RefreshMaxAge: time.Hour})
	r := newRouter()
	r.POST("/login", h.Login)
	r.POST("/refresh", h.RefreshToken)
	r.POST("/logout", h.Logout)
	r.GET("/me", asUser(userID), h.GetMe)
	r.POST("/change-password", asUser(userID), h.ChangePassword)
	return r
}

func authOK(user *entities.User) *entities.AuthResponse {
	return &entities.AuthResponse{AccessToken: "access", RefreshToken: "refresh", User: user}
}

func TestAuthHandler_Login(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Email: "jane@example.com", PasswordHash: "secret-hash", Role: entities.UserRoleMember}
	r := newAuthRouter(authServiceStub{
		loginFn: func(_ context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
			if input.Password != "secret123" {
				return nil, domainerrors.ErrInvalidCredentials
			}
			return authOK(user), nil
		},
	}, user.ID)

	w := doJSON(r, http.MethodPost, "/login", `{"email":"jane@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.Equal(t, "access", decodeBody(t, w)["accessToken"])
	cookies := strings.Join(w.Header().Values("Set-Cookie"), ";")
	assert.Contains(t, cookies, middleware.AccessTokenCookie+"=access")
	assert.Contains(t, cookies, middleware.RefreshTokenCookie+"=refresh")
	assert.Contains(t, cookies, "HttpOnly")

	w = doJSON(r, http.MethodPost, "/login", `{"email":"jane@example.com","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, decodeBody(t, w)["code"])

	w = doJSON(r, http.MethodPost, "/login", `{"email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	var got string
	r := newAuthRouter(authServiceStub{
		refreshFn: func(_ context.Context, token string) (*entities.AuthResponse, error) {
			got = token
			if token == "revoked" {
				return nil, domainerrors.ErrTokenRevoked
			}
			return authOK(&entities.User{}), nil
		},
	}, uuid.New())

	w := doJSON(r, http.MethodPost, "/refresh", `{"refreshToken":"from-body"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-body", got)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "from-cookie"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-cookie", got)

	w = doJSON(r, http.MethodPost, "/refresh", `{"refreshToken":"revoked"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/refresh", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked string
	r := newAuthRouter(authServiceStub{
		logoutFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}, uuid.New())

	w := doJSON(r, http.MethodPost, "/logout", `{"refreshToken":"r1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", revoked)
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), ";"), "Max-Age=0")
}

func TestAuthHandler_MeAndChangePassword(t *testing.T) {
	userID := uuid.New()
	r := newAuthRouter(authServiceStub{
		meFn: func(_ context.Context, id uuid.UUID) (*entities.User, error) {
			return &entities.User{ID: id, Email: "jane@example.com"}, nil
		},
		changeFn: func(_ context.Context, _ uuid.UUID, input *entities.ChangePasswordInput) error {
			if input.CurrentPassword != "old-pass1" {
				return domainerrors.ErrInvalidCredentials
			}
			return nil
		},
	}, userID)

	w := doJSON(r, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), decodeBody(t, w)["user"].(map[string]interface{})["id"])

	w = doJSON(r, http.MethodPost, "/change-password", `{"currentPassword":"old-pass1","newPassword":"new-pass1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/change-password", `{"currentPassword":"wrong","newPassword":"new-pass1"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/change-password", `{"currentPassword":"old-pass1","newPassword":"short"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
