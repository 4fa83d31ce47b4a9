package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"ticketing/app"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createEventRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Date        string          `json:"date"`
	Location    string          `json:"location"`
	Price       json.RawMessage `json:"price"`
}

type updateEventRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Date        *string         `json:"date"`
	Location    *string         `json:"location"`
	Price       json.RawMessage `json:"price"`
}

// parsePrice accepts a JSON number or null. Quoted numbers are rejected.
func parsePrice(raw json.RawMessage) (*decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	invalid := &echo.HTTPError{
		Code:    http.StatusBadRequest,
		Message: "Price must be a number >= 0",
	}

	var number json.Number
	if raw[0] == '"' || json.Unmarshal(raw, &number) != nil {
		return nil, invalid
	}

	price, err := decimal.NewFromString(number.String())
	if err != nil {
		invalid.Internal = err
		return nil, invalid
	}

	return &price, nil
}

type eventsResponse struct {
	Events []eventResponse `json:"events"`
}

type eventEnvelope struct {
	Message string        `json:"message,omitempty"`
	Event   eventResponse `json:"event"`
}

func (h handler) ListEvents(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	response := eventsResponse{Events: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		response.Events = append(response.Events, newEventResponse(e))
	}

	return c.JSON(http.StatusOK, response)
}

func (h handler) GetEvent(c echo.Context) error {
	e, err := h.events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, eventEnvelope{Event: newEventResponse(e)})
}

func (h handler) CreateEvent(c echo.Context) error {
	var request createEventRequest
	if err := c.Bind(&request); err != nil {
		return badRequest(err)
	}

	price, err := parsePrice(request.Price)
	if err != nil {
		return err
	}

	e, err := h.events.Create(c.Request().Context(), currentUserID(c), app.CreateEventInput{
		Title:       request.Title,
		Description: request.Description,
		Date:        request.Date,
		Location:    request.Location,
		Price:       price,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, eventEnvelope{
		Message: "Event created successfully",
		Event:   newEventResponse(e),
	})
}

func (h handler) UpdateEvent(c echo.Context) error {
	var request updateEventRequest
	if err := c.Bind(&request); err != nil {
		return badRequest(err)
	}

	price, err := parsePrice(request.Price)
	if err != nil {
		return err
	}

	e, err := h.events.Update(c.Request().Context(), currentUserID(c), c.Param("id"), app.UpdateEventInput{
		Title:       request.Title,
		Description: request.Description,
		Date:        request.Date,
		Location:    request.Location,
		Price:       price,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, eventEnvelope{
		Message: "Event updated successfully",
		Event:   newEventResponse(e),
	})
}

func (h handler) DeleteEvent(c echo.Context) error {
	if err := h.events.Delete(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Event deleted successfully"})
}

func (h handler) GetAttendance(c echo.Context) error {
	summary, err := h.events.Attendance(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]attendanceResponse{
		"attendance": newAttendanceResponse(summary),
	})
}
