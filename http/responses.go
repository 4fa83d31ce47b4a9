package http

import (
	"ticketing/attendance"
	"ticketing/entity"
	"time"
)

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

type userSummaryResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func newUserSummaryResponse(u entity.UserSummary) userSummaryResponse {
	return userSummaryResponse{
		ID:       u.ID,
		Username: u.Username,
	}
}

type eventResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Date        time.Time           `json:"date"`
	Location    string              `json:"location"`
	Price       float64             `json:"price"`
	CreatorID   string              `json:"creator_id"`
	CreatedAt   time.Time           `json:"created_at"`
	Creator     userSummaryResponse `json:"creator"`
}

func newEventResponse(e entity.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Location:    e.Location,
		Price:       e.Price.InexactFloat64(),
		CreatorID:   e.CreatorID,
		CreatedAt:   e.CreatedAt.UTC(),
		Creator:     newUserSummaryResponse(e.Creator),
	}
}

type eventSummaryResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
}

type ticketResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	EventID       string               `json:"event_id"`
	Status        string               `json:"status"`
	PaymentStatus string               `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	User          userSummaryResponse  `json:"user"`
	Event         eventSummaryResponse `json:"event"`
}

func newTicketResponse(t entity.Ticket) ticketResponse {
	return ticketResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		EventID:       t.EventID,
		Status:        string(t.Status),
		PaymentStatus: string(t.PaymentStatus),
		CreatedAt:     t.CreatedAt.UTC(),
		UpdatedAt:     t.UpdatedAt.UTC(),
		User:          newUserSummaryResponse(t.User),
		Event: eventSummaryResponse{
			ID:       t.Event.ID,
			Title:    t.Event.Title,
			Date:     t.Event.Date.UTC(),
			Location: t.Event.Location,
			Price:    t.Event.Price.InexactFloat64(),
		},
	}
}

type attendanceResponse struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Canceled  int64 `json:"canceled"`
	Total     int64 `json:"total"`
}

func newAttendanceResponse(s attendance.Summary) attendanceResponse {
	return attendanceResponse{
		Pending:   s.Pending,
		Confirmed: s.Confirmed,
		Canceled:  s.Canceled,
		Total:     s.Total(),
	}
}
