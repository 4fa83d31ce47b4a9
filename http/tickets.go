package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type issueTicketRequest struct {
	EventID string `json:"event_id"`
}

type ticketEnvelope struct {
	Message string         `json:"message"`
	Ticket  ticketResponse `json:"ticket"`
}

type ticketsResponse struct {
	Tickets []ticketResponse `json:"tickets"`
}

func (h handler) IssueTicket(c echo.Context) error {
	var request issueTicketRequest
	if err := c.Bind(&request); err != nil {
		return badRequest(err)
	}

	ticket, err := h.tickets.Issue(c.Request().Context(), currentUserID(c), request.EventID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, ticketEnvelope{
		Message: "Ticket created successfully",
		Ticket:  newTicketResponse(ticket),
	})
}

func (h handler) ConfirmTicket(c echo.Context) error {
	ticket, err := h.tickets.Confirm(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ticketEnvelope{
		Message: "Ticket confirmed successfully",
		Ticket:  newTicketResponse(ticket),
	})
}

func (h handler) CancelTicket(c echo.Context) error {
	ticket, err := h.tickets.Cancel(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ticketEnvelope{
		Message: "Ticket canceled successfully",
		Ticket:  newTicketResponse(ticket),
	})
}

func (h handler) ListMyTickets(c echo.Context) error {
	tickets, err := h.tickets.ListMine(c.Request().Context(), currentUserID(c))
	if err != nil {
		return toHTTPError(err)
	}

	response := ticketsResponse{Tickets: make([]ticketResponse, 0, len(tickets))}
	for _, t := range tickets {
		response.Tickets = append(response.Tickets, newTicketResponse(t))
	}

	return c.JSON(http.StatusOK, response)
}
