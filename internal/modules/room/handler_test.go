package room

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"novastay/internal/database"
	"novastay/internal/middleware"
	"novastay/internal/pkg/jwt"
	"novastay/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenTestDB("room_handler_" + t.Name())
	require.NoError(t, err)

	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(repository.NewRoomRepository(db), repository.NewReservationRepository(db), repository.NewTransactor(db))

	r := gin.New()
	v1 := r.Group("/api/v1", middleware.JWTAuth(tokens))
	NewHandler(svc).RegisterRoutes(v1, middleware.AdminOnly())
	return r, tokens
}

func doJSONRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func roomBody(number int) RoomRequest {
	return RoomRequest{
		Number:           number,
		FloorNumber:      1,
		Type:             "double",
		Status:           "available",
		HasBalcony:       true,
		PricePerNightUSD: 120,
	}
}

func TestRoomHandler_AdminWrites(t *testing.T) {
	r, tokens := setupTestRouter(t)
	admin, _ := tokens.GenerateToken(1, "admin")
	desk, _ := tokens.GenerateToken(2, "front_desk")

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/rooms", desk, roomBody(101))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/rooms", admin, roomBody(101))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/rooms", admin, roomBody(101))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROOM_EXISTS")

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/rooms?type=double,suite&has_balcony=true", desk, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data struct {
			Rooms []struct {
				Number int `json:"number"`
			} `json:"rooms"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data.Rooms, 1)
	assert.Equal(t, 101, body.Data.Rooms[0].Number)
}

func TestRoomHandler_Availability(t *testing.T) {
	r, tokens := setupTestRouter(t)
	admin, _ := tokens.GenerateToken(1, "admin")

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/rooms", admin, roomBody(101))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/rooms/1/availability?from=2026-05-01&to=2026-05-08", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"free":[{"from":"2026-05-01","to":"2026-05-08"}]`)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/rooms/1/availability?from=2026-05-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/rooms/9/availability?from=2026-05-01&to=2026-05-08", admin, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoomHandler_ValidationErrors(t *testing.T) {
	r, tokens := setupTestRouter(t)
	admin, _ := tokens.GenerateToken(1, "admin")

	body := roomBody(0)
	body.Type = "penthouse"
	rr := doJSONRequest(r, http.MethodPost, "/api/v1/rooms", admin, body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"field":"number"`)
	assert.Contains(t, rr.Body.String(), `"field":"type"`)
}
