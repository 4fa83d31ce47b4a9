package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"ticketing/app"
	"ticketing/attendance"
	"ticketing/entity"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	validToken = "valid-token"
	userID     = "user-1"
)

type testServer struct {
	echo    *echo.Echo
	auth    *authServiceMock
	events  *eventServiceMock
	tickets *ticketServiceMock
}

func newTestServer(t *testing.T, attendanceEnabled bool) *testServer {
	t.Helper()

	s := &testServer{
		auth:    &authServiceMock{},
		events:  &eventServiceMock{},
		tickets: &ticketServiceMock{},
	}
	s.auth.On("VerifyToken", validToken).Return(userID, nil).Maybe()
	s.auth.On("VerifyToken", "").
		Return("", &app.Error{Kind: app.KindAuthentication, Message: "Missing authorization token"}).Maybe()

	s.echo = NewRouter(RouterConfig{
		Auth:              s.auth,
		Events:            s.events,
		Tickets:           s.tickets,
		AttendanceEnabled: attendanceEnabled,
	})

	t.Cleanup(func() {
		s.auth.AssertExpectations(t)
		s.events.AssertExpectations(t)
		s.tickets.AssertExpectations(t)
	})

	return s
}

func (s *testServer) do(t *testing.T, method, path, body string, authenticated bool) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authenticated {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+validToken)
	}
	rec := httptest.NewRecorder()

	s.echo.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}

	return rec.Code, decoded
}

var (
	createdAt = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	alice = entity.User{
		ID:        userID,
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: createdAt,
	}

	concert = entity.Event{
		ID:        "event-1",
		Title:     "Concert",
		Date:      time.Date(2030, 6, 1, 19, 0, 0, 0, time.UTC),
		Location:  "Hall",
		Price:     decimal.RequireFromString("25.50"),
		CreatorID: userID,
		CreatedAt: createdAt,
		Creator:   alice.Summary(),
	}
)

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	code, body := s.do(t, http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Events API is running fine!", body["message"])
}

func TestLanding(t *testing.T) {
	s := newTestServer(t, false)

	code, body := s.do(t, http.MethodGet, "/", "", false)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Welcome to the Events API!", body["message"])
	endpoints, ok := body["endpoints"].(map[string]any)
	require.True(t, ok, "endpoints: %v", body["endpoints"])
	assert.Contains(t, endpoints["tickets"], "/tickets/my")
	assert.Contains(t, endpoints["auth"], "/auth/signup")
}

func TestUnknownEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	code, body := s.do(t, http.MethodGet, "/nowhere", "", false)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Endpoint not found", body["error"])
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, false)

	code, body := s.do(t, http.MethodGet, "/tickets/my", "", false)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Missing authorization token", body["error"])

	s.auth.On("VerifyToken", "forged").
		Return("", &app.Error{Kind: app.KindAuthentication, Message: "Invalid or expired token"}).Once()

	req := httptest.NewRequest(http.MethodGet, "/tickets/my", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	testCases := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		" Bearer abc ": "abc",
		"Basic abc":    "",
		"abc":          "",
		"":             "",
	}

	for header, expected := range testCases {
		assert.Equal(t, expected, bearerToken(header), header)
	}
}

func TestSignup(t *testing.T) {
	s := newTestServer(t, false)
	s.auth.On("Signup", mock.Anything, "alice", "alice@example.com", "secret").
		Return(app.Session{Token: "token", User: alice}, nil).Once()

	code, body := s.do(t, http.MethodPost, "/auth/signup",
		`{"username":"alice","email":"alice@example.com","password":"secret"}`, false)

	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "token", body["access_token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "2030-01-01T12:00:00Z", user["created_at"])
	assert.NotContains(t, user, "password_hash")
}

func TestSignup_conflict(t *testing.T) {
	s := newTestServer(t, false)
	s.auth.On("Signup", mock.Anything, "alice", "alice@example.com", "secret").
		Return(app.Session{}, &app.Error{Kind: app.KindConflict, Message: "Email already registered"}).Once()

	code, body := s.do(t, http.MethodPost, "/auth/signup",
		`{"username":"alice","email":"alice@example.com","password":"secret"}`, false)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email already registered", body["error"])
}

func TestSignup_malformedBody(t *testing.T) {
	s := newTestServer(t, false)

	code, body := s.do(t, http.MethodPost, "/auth/signup", `{"username":`, false)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestLogin_invalidCredentials(t *testing.T) {
	s := newTestServer(t, false)
	s.auth.On("Login", mock.Anything, "alice@example.com", "wrong").
		Return(app.Session{}, &app.Error{Kind: app.KindAuthentication, Message: "Invalid credentials"}).Once()

	code, body := s.do(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"wrong"}`, false)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestUpdateProfile_statusCodes(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"ok", nil, http.StatusOK},
		{"empty", &app.Error{Kind: app.KindValidation, Message: "Username cannot be empty"}, http.StatusUnprocessableEntity},
		{"taken", &app.Error{Kind: app.KindConflict, Message: "Username already taken"}, http.StatusUnprocessableEntity},
		{"missing user", &app.Error{Kind: app.KindNotFound, Message: "User not found"}, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, false)
			s.auth.On("UpdateProfile", mock.Anything, userID, "alicia").Return(alice, tc.err).Once()

			code, _ := s.do(t, http.MethodPatch, "/auth/update-profile", `{"username":"alicia"}`, true)

			assert.Equal(t, tc.expected, code)
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t, false)
	s.auth.On("DeleteAccount", mock.Anything, userID).Return(nil).Once()

	code, body := s.do(t, http.MethodDelete, "/auth/account", "", true)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Account deleted", body["message"])
}

func TestListEvents(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("List", mock.Anything).Return([]entity.Event{concert}, nil).Once()

	code, body := s.do(t, http.MethodGet, "/events/", "", false)

	require.Equal(t, http.StatusOK, code)
	events := body["events"].([]any)
	require.Len(t, events, 1)

	e := events[0].(map[string]any)
	assert.Equal(t, "event-1", e["id"])
	assert.Equal(t, 25.5, e["price"])
	assert.Equal(t, "2030-06-01T19:00:00Z", e["date"])
	assert.Equal(t, "", e["description"])
	assert.Equal(t, "alice", e["creator"].(map[string]any)["username"])
}

func TestListEvents_empty(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("List", mock.Anything).Return([]entity.Event{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[]}`, rec.Body.String())
}

func TestGetEvent_notFound(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("Get", mock.Anything, "missing").
		Return(entity.Event{}, &app.Error{Kind: app.KindNotFound, Message: "Event not found"}).Once()

	code, body := s.do(t, http.MethodGet, "/events/missing", "", false)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Event not found", body["error"])
}

func TestCreateEvent(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("Create", mock.Anything, userID, mock.MatchedBy(func(in app.CreateEventInput) bool {
		return in.Title == "Concert" &&
			in.Description == nil &&
			in.Price != nil && in.Price.Equal(decimal.RequireFromString("25.5"))
	})).Return(concert, nil).Once()

	code, body := s.do(t, http.MethodPost, "/events",
		`{"title":"Concert","date":"2030-06-01T19:00:00","location":"Hall","price":25.5}`, true)

	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Event created successfully", body["message"])
	assert.Equal(t, "event-1", body["event"].(map[string]any)["id"])
}

func TestCreateEvent_requiresAuth(t *testing.T) {
	s := newTestServer(t, false)

	code, _ := s.do(t, http.MethodPost, "/events", `{"title":"Concert"}`, false)

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestEventPrice_mustBeANumber(t *testing.T) {
	testCases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/events", `{"title":"Concert","date":"2030-06-01","location":"Hall","price":"25.5"}`},
		{http.MethodPost, "/events", `{"title":"Concert","date":"2030-06-01","location":"Hall","price":true}`},
		{http.MethodPatch, "/events/event-1", `{"price":"10"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.body, func(t *testing.T) {
			s := newTestServer(t, false)

			code, body := s.do(t, tc.method, tc.path, tc.body, true)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "Price must be a number >= 0", body["error"])
		})
	}
}

func TestUpdateEvent_nullPriceIsNotProvided(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("Update", mock.Anything, userID, "event-1", mock.MatchedBy(func(in app.UpdateEventInput) bool {
		return in.Price == nil
	})).Return(concert, nil).Once()

	code, _ := s.do(t, http.MethodPatch, "/events/event-1", `{"price":null}`, true)

	assert.Equal(t, http.StatusOK, code)
}

func TestUpdateEvent_partial(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("Update", mock.Anything, userID, "event-1", mock.MatchedBy(func(in app.UpdateEventInput) bool {
		return in.Title != nil && *in.Title == "Opera" &&
			in.Date == nil && in.Location == nil && in.Price == nil
	})).Return(concert, nil).Once()

	code, body := s.do(t, http.MethodPatch, "/events/event-1", `{"title":"Opera"}`, true)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Event updated successfully", body["message"])
}

func TestUpdateEvent_forbidden(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("Update", mock.Anything, userID, "event-1", mock.Anything).
		Return(entity.Event{}, &app.Error{Kind: app.KindAuthorization, Message: "Not authorized"}).Once()

	code, body := s.do(t, http.MethodPatch, "/events/event-1", `{"price":-1}`, true)

	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not authorized", body["error"])
}

func TestDeleteEvent(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("Delete", mock.Anything, userID, "event-1").Return(nil).Once()

	code, body := s.do(t, http.MethodDelete, "/events/event-1", "", true)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Event deleted successfully", body["message"])
}

func TestAttendance(t *testing.T) {
	disabled := newTestServer(t, false)
	code, _ := disabled.do(t, http.MethodGet, "/events/event-1/attendance", "", true)
	assert.Equal(t, http.StatusNotFound, code)

	enabled := newTestServer(t, true)
	enabled.events.On("Attendance", mock.Anything, userID, "event-1").
		Return(attendance.Summary{Pending: 2, Confirmed: 3, Canceled: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/events/event-1/attendance", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+validToken)
	rec := httptest.NewRecorder()
	enabled.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"attendance":{"pending":2,"confirmed":3,"canceled":1,"total":6}}`, rec.Body.String())
}

func TestIssueTicket(t *testing.T) {
	ticket := entity.Ticket{
		ID:            "ticket-1",
		UserID:        userID,
		EventID:       concert.ID,
		Status:        entity.StatusPending,
		PaymentStatus: entity.PaymentUnpaid,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		User:          alice.Summary(),
		Event:         concert.Summary(),
	}

	s := newTestServer(t, false)
	s.tickets.On("Issue", mock.Anything, userID, concert.ID).Return(ticket, nil).Once()

	code, body := s.do(t, http.MethodPost, "/tickets", `{"event_id":"event-1"}`, true)

	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Ticket created successfully", body["message"])

	got := body["ticket"].(map[string]any)
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, "unpaid", got["payment_status"])
	assert.Equal(t, "alice", got["user"].(map[string]any)["username"])
	assert.Equal(t, 25.5, got["event"].(map[string]any)["price"])
}

func TestIssueTicket_duplicate(t *testing.T) {
	s := newTestServer(t, false)
	s.tickets.On("Issue", mock.Anything, userID, concert.ID).
		Return(entity.Ticket{}, &app.Error{Kind: app.KindConflict, Message: "Ticket already exists"}).Once()

	code, body := s.do(t, http.MethodPost, "/tickets", `{"event_id":"event-1"}`, true)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Ticket already exists", body["error"])
}

func TestTicketTransitions(t *testing.T) {
	s := newTestServer(t, false)
	s.tickets.On("Confirm", mock.Anything, userID, "ticket-1").
		Return(entity.Ticket{ID: "ticket-1", Status: entity.StatusConfirmed, PaymentStatus: entity.PaymentPaid}, nil).Once()
	s.tickets.On("Cancel", mock.Anything, userID, "ticket-1").
		Return(entity.Ticket{}, &app.Error{Kind: app.KindAuthorization, Message: "Not authorized"}).Once()

	code, body := s.do(t, http.MethodPatch, "/tickets/ticket-1/confirm", "", true)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ticket confirmed successfully", body["message"])

	code, body = s.do(t, http.MethodPatch, "/tickets/ticket-1/cancel", "", true)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not authorized", body["error"])
}

func TestListMyTickets(t *testing.T) {
	s := newTestServer(t, false)
	s.tickets.On("ListMine", mock.Anything, userID).Return([]entity.Ticket{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/tickets/my", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+validToken)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tickets":[]}`, rec.Body.String())
}

func TestInternalErrorsAreHidden(t *testing.T) {
	s := newTestServer(t, false)
	s.events.On("List", mock.Anything).Return([]entity.Event(nil), errors.New("connection refused")).Once()

	code, body := s.do(t, http.MethodGet, "/events", "", false)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestCorrelationID(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerKeyCorrelationID, "abc")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(headerKeyCorrelationID))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.True(t, strings.HasPrefix(rec.Header().Get(headerKeyCorrelationID), "gen_"))
}
