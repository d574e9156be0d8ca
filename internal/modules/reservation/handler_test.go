package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"novastay/internal/database"
	"novastay/internal/domain"
	"novastay/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	events *recordingPublisher
	guest  *domain.Guest
	room   *domain.Room
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenTestDB("reservation_handler_" + t.Name())
	require.NoError(t, err)

	ctx := context.Background()
	guests := repository.NewGuestRepository(db)
	rooms := repository.NewRoomRepository(db)

	g := &domain.Guest{
		FirstName:   "Lina",
		MiddleName:  "Sami",
		LastName:    "Khoury",
		Nationality: "LB",
		DateOfBirth: time.Date(1988, 2, 10, 0, 0, 0, 0, time.UTC),
		PhoneNumber: "+96171000000",
	}
	require.NoError(t, guests.Create(ctx, g))
	rm := &domain.Room{Number: 12, FloorNumber: 1, Type: domain.RoomDouble, Status: domain.RoomAvailable, PricePerNightUSD: 100}
	require.NoError(t, rooms.Create(ctx, rm))

	events := &recordingPublisher{}
	svc := NewService(repository.NewReservationRepository(db), guests, rooms, repository.NewTransactor(db), nil, events)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return &testEnv{router: r, events: events, guest: g, room: rm}
}

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Reservation  ReservationResponse   `json:"reservation"`
		Reservations []ReservationResponse `json:"reservations"`
	} `json:"data"`
	Error struct {
		Code    string         `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func dateFromToday(days int) string {
	return domain.DateOf(time.Now()).AddDate(0, 0, days).Format(domain.DateLayout)
}

func (e *testEnv) body(from, to int) ReservationRequest {
	discount := 15.0
	return ReservationRequest{
		GuestID:             e.guest.ID,
		RoomID:              e.room.ID,
		CheckInBookingDate:  dateFromToday(from),
		CheckOutBookingDate: dateFromToday(to),
		DiscountRate:        &discount,
	}
}

func TestReservationHandler_CreateAndConflicts(t *testing.T) {
	env := setupTestRouter(t)

	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/reservations", env.body(1, 4))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode(t, rr).Data.Reservation
	assert.Equal(t, 300.0, created.BaseAmountUSD)
	assert.Equal(t, 255.0, created.FinalAmountUSD)
	assert.Equal(t, 3, created.Nights)
	assert.Equal(t, domain.ReservationCreated, created.Status)
	require.NotNil(t, created.Guest)
	assert.Equal(t, "Lina Sami Khoury", created.Guest.Name)
	assert.NotEmpty(t, created.ConfirmationCode)

	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/reservations", env.body(2, 5))
	require.Equal(t, http.StatusConflict, rr.Code)
	conflict := decode(t, rr)
	assert.Equal(t, "ROOM_CONFLICT", conflict.Error.Code)
	assert.Contains(t, string(conflict.Error.Details), fmt.Sprintf(`"reservation_id":%d`, created.ID))

	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/reservations", env.body(4, 6))
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	assert.Equal(t, []string{domain.EventReservationCreated, domain.EventReservationCreated}, env.events.events)
}

func TestReservationHandler_Lifecycle(t *testing.T) {
	env := setupTestRouter(t)

	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/reservations", env.body(0, 2))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := decode(t, rr).Data.Reservation.ID
	base := fmt.Sprintf("/api/v1/reservations/%d", id)

	rr = doJSONRequest(env.router, http.MethodPost, base+"/check-out", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", decode(t, rr).Error.Code)

	rr = doJSONRequest(env.router, http.MethodPost, base+"/check-in", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, domain.ReservationCheckedIn, decode(t, rr).Data.Reservation.Status)

	// the next guest may not arrive on the departure day while this one is in house
	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/reservations", env.body(2, 3))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSONRequest(env.router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "GUEST_CHECKED_IN", decode(t, rr).Error.Code)

	rr = doJSONRequest(env.router, http.MethodPost, base+"/pay", gin.H{"payment_method": "credit_card"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decode(t, rr).Data.Reservation.IsPaid)

	rr = doJSONRequest(env.router, http.MethodPost, base+"/check-out", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	out := decode(t, rr).Data.Reservation
	assert.Equal(t, domain.ReservationCheckedOut, out.Status)
	assert.NotNil(t, out.CheckedOutAt)

	rr = doJSONRequest(env.router, http.MethodPost, base+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSONRequest(env.router, http.MethodGet, "/api/v1/reservations?status=checked_out&is_paid=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode(t, rr).Data.Reservations
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	rr = doJSONRequest(env.router, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(env.router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReservationHandler_Validation(t *testing.T) {
	env := setupTestRouter(t)

	body := env.body(3, 3)
	body.PaymentMethod = "barter"
	rr := doJSONRequest(env.router, http.MethodPost, "/api/v1/reservations", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	res := decode(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	assert.Contains(t, string(res.Error.Details), `"field":"check_out_booking_date"`)
	assert.Contains(t, string(res.Error.Details), `"field":"payment_method"`)

	body = env.body(1, 2)
	body.GuestID = 4242
	rr = doJSONRequest(env.router, http.MethodPost, "/api/v1/reservations", body)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(env.router, http.MethodGet, "/api/v1/reservations?check_in_from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReservationHandler_Quote(t *testing.T) {
	env := setupTestRouter(t)

	path := fmt.Sprintf("/api/v1/reservations/quote?room_id=%d&check_in=%s&check_out=%s&discount_rate=10",
		env.room.ID, dateFromToday(1), dateFromToday(3))
	rr := doJSONRequest(env.router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res struct {
		Data Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Data.Nights)
	assert.Equal(t, 200.0, res.Data.BaseAmountUSD)
	assert.Equal(t, 180.0, res.Data.FinalAmountUSD)

	rr = doJSONRequest(env.router, http.MethodGet, "/api/v1/reservations/quote?room_id=1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
