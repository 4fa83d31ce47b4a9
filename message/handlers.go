package message

import (
	"context"
	"fmt"
	"ticketing/entity"
	"ticketing/event"
)

type AttendanceRecorder interface {
	Record(ctx context.Context, eventID, ticketID string, status entity.TicketStatus) error
	Clear(ctx context.Context, eventID string) error
}

type Handler struct {
	attendance AttendanceRecorder
}

func NewHandler(a AttendanceRecorder) Handler {
	return Handler{
		attendance: a,
	}
}

func (h Handler) RecordTicketIssued(ctx context.Context, e *event.TicketIssued) error {
	if err := h.attendance.Record(ctx, e.EventID, e.TicketID, entity.TicketStatus(e.Status)); err != nil {
		return fmt.Errorf("recording issued ticket: %w", err)
	}

	return nil
}

func (h Handler) RecordTicketConfirmed(ctx context.Context, e *event.TicketConfirmed) error {
	if err := h.attendance.Record(ctx, e.EventID, e.TicketID, entity.StatusConfirmed); err != nil {
		return fmt.Errorf("recording confirmed ticket: %w", err)
	}

	return nil
}

func (h Handler) RecordTicketCanceled(ctx context.Context, e *event.TicketCanceled) error {
	if err := h.attendance.Record(ctx, e.EventID, e.TicketID, entity.StatusCanceled); err != nil {
		return fmt.Errorf("recording canceled ticket: %w", err)
	}

	return nil
}

func (h Handler) ClearEvent(ctx context.Context, e *event.EventDeleted) error {
	if err := h.attendance.Clear(ctx, e.EventID); err != nil {
		return fmt.Errorf("clearing attendance: %w", err)
	}

	return nil
}
