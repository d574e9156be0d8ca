package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"novastay/internal/database"
	"novastay/internal/domain"
	"novastay/internal/middleware"
	"novastay/internal/pkg/jwt"
	"novastay/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenTestDB("auth_handler_" + t.Name())
	require.NoError(t, err)

	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(repository.NewStaffRepository(db), tokens)
	h := NewHandler(svc)

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterPublicRoutes(v1)
	h.RegisterProtectedRoutes(v1.Group("", middleware.JWTAuth(tokens)))
	return r, svc
}

func doJSONRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestLoginAndMe(t *testing.T) {
	r, svc := setupTestRouter(t)
	_, err := svc.CreateStaff(context.Background(), "desk@novastay.test", "Front Desk", "correct-horse", domain.RoleFrontDesk)
	require.NoError(t, err)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "desk@novastay.test", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var login struct {
		Data struct {
			AccessToken string      `json:"access_token"`
			ExpiresIn   int         `json:"expires_in"`
			Staff       StaffPublic `json:"staff"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Data.AccessToken)
	assert.Equal(t, 3600, login.Data.ExpiresIn)
	assert.Equal(t, "front_desk", login.Data.Staff.Role)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/auth/me", login.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"email":"desk@novastay.test"`)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_LockoutOverHTTP(t *testing.T) {
	r, svc := setupTestRouter(t)
	_, err := svc.CreateStaff(context.Background(), "desk@novastay.test", "Front Desk", "correct-horse", domain.RoleFrontDesk)
	require.NoError(t, err)

	bad := LoginRequest{Email: "desk@novastay.test", Password: "wrong-horse"}
	for i := 0; i < maxFailedLoginAttempts-1; i++ {
		rr := doJSONRequest(r, http.MethodPost, "/api/v1/auth/login", "", bad)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/auth/login", "", bad)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "desk@novastay.test", Password: "correct-horse"})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
