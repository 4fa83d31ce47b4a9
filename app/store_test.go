package app

import (
	"context"
	"maps"
	"slices"
	"sync"
	"ticketing/entity"
	"time"
)

type txMarker struct{}

// memStore is an in-memory stand-in for PostgreSQL. Transactions are
// serialized by a single lock and rolled back by restoring a snapshot.
type memStore struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	users       map[string]entity.User
	events      map[string]entity.Event
	tickets     map[string]entity.Ticket
	eventOrder  []string
	ticketOrder []string
	outbox      []any
}

func (s memState) clone() memState {
	return memState{
		users:       maps.Clone(s.users),
		events:      maps.Clone(s.events),
		tickets:     maps.Clone(s.tickets),
		eventOrder:  slices.Clone(s.eventOrder),
		ticketOrder: slices.Clone(s.ticketOrder),
		outbox:      slices.Clone(s.outbox),
	}
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			users:   map[string]entity.User{},
			events:  map[string]entity.Event{},
			tickets: map[string]entity.Ticket{},
		},
	}
}

func (s *memStore) Transact(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.state = snapshot
		return err
	}

	return nil
}

func (s *memStore) lock(ctx context.Context) func() {
	if ctx.Value(txMarker{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) Publish(ctx context.Context, event any) error {
	defer s.lock(ctx)()
	s.state.outbox = append(s.state.outbox, event)
	return nil
}

func (s *memStore) published() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.outbox)
}

func (s *memStore) ticketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.tickets)
}

type memUsers struct{ s *memStore }

func (r memUsers) Add(ctx context.Context, user entity.User) error {
	defer r.s.lock(ctx)()
	for _, u := range r.s.state.users {
		switch {
		case u.ID == user.ID:
			return entity.ErrConflict
		case u.Email == user.Email:
			return entity.ErrEmailTaken
		case u.Username == user.Username:
			return entity.ErrUsernameTaken
		}
	}
	r.s.state.users[user.ID] = user
	return nil
}

func (r memUsers) Get(ctx context.Context, id string) (entity.User, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.state.users[id]
	if !ok {
		return entity.User{}, entity.ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.find(ctx, func(u entity.User) bool { return u.Email == email })
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	return r.find(ctx, func(u entity.User) bool { return u.Username == username })
}

func (r memUsers) find(ctx context.Context, match func(entity.User) bool) (entity.User, error) {
	defer r.s.lock(ctx)()
	for _, u := range r.s.state.users {
		if match(u) {
			return u, nil
		}
	}
	return entity.User{}, entity.ErrNotFound
}

func (r memUsers) UpdateUsername(ctx context.Context, id, username string) error {
	defer r.s.lock(ctx)()
	u, ok := r.s.state.users[id]
	if !ok {
		return entity.ErrNotFound
	}
	for _, other := range r.s.state.users {
		if other.ID != id && other.Username == username {
			return entity.ErrUsernameTaken
		}
	}
	u.Username = username
	r.s.state.users[id] = u
	return nil
}

func (r memUsers) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	st := &r.s.state
	if _, ok := st.users[id]; !ok {
		return entity.ErrNotFound
	}
	for tid, t := range st.tickets {
		if t.UserID == id || st.events[t.EventID].CreatorID == id {
			delete(st.tickets, tid)
		}
	}
	for eid, e := range st.events {
		if e.CreatorID == id {
			delete(st.events, eid)
		}
	}
	delete(st.users, id)
	return nil
}

type memEvents struct{ s *memStore }

func (r memEvents) Add(ctx context.Context, e entity.Event) error {
	defer r.s.lock(ctx)()
	st := &r.s.state
	if _, ok := st.users[e.CreatorID]; !ok {
		return entity.ErrNotFound
	}
	if _, ok := st.events[e.ID]; ok {
		return entity.ErrConflict
	}
	st.events[e.ID] = e
	st.eventOrder = append(st.eventOrder, e.ID)
	return nil
}

func (r memEvents) Get(ctx context.Context, id string) (entity.Event, error) {
	defer r.s.lock(ctx)()
	return r.get(id)
}

func (r memEvents) get(id string) (entity.Event, error) {
	e, ok := r.s.state.events[id]
	if !ok {
		return entity.Event{}, entity.ErrNotFound
	}
	e.Creator = r.s.state.users[e.CreatorID].Summary()
	return e, nil
}

func (r memEvents) List(ctx context.Context) ([]entity.Event, error) {
	defer r.s.lock(ctx)()
	events := []entity.Event{}
	for _, id := range r.s.state.eventOrder {
		if e, err := r.get(id); err == nil {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r memEvents) Update(ctx context.Context, e entity.Event) error {
	defer r.s.lock(ctx)()
	current, ok := r.s.state.events[e.ID]
	if !ok {
		return entity.ErrNotFound
	}
	current.Title = e.Title
	current.Description = e.Description
	current.Date = e.Date
	current.Location = e.Location
	current.Price = e.Price
	r.s.state.events[e.ID] = current
	return nil
}

func (r memEvents) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	st := &r.s.state
	if _, ok := st.events[id]; !ok {
		return entity.ErrNotFound
	}
	for tid, t := range st.tickets {
		if t.EventID == id {
			delete(st.tickets, tid)
		}
	}
	delete(st.events, id)
	return nil
}

type memTickets struct{ s *memStore }

func (r memTickets) Add(ctx context.Context, ticket entity.Ticket) error {
	defer r.s.lock(ctx)()
	st := &r.s.state
	if _, ok := st.users[ticket.UserID]; !ok {
		return entity.ErrNotFound
	}
	if _, ok := st.events[ticket.EventID]; !ok {
		return entity.ErrNotFound
	}
	for _, t := range st.tickets {
		if t.ID == ticket.ID || (t.UserID == ticket.UserID && t.EventID == ticket.EventID) {
			return entity.ErrConflict
		}
	}
	st.tickets[ticket.ID] = ticket
	st.ticketOrder = append(st.ticketOrder, ticket.ID)
	return nil
}

func (r memTickets) Get(ctx context.Context, id string) (entity.Ticket, error) {
	defer r.s.lock(ctx)()
	return r.get(id)
}

func (r memTickets) get(id string) (entity.Ticket, error) {
	st := &r.s.state
	t, ok := st.tickets[id]
	if !ok {
		return entity.Ticket{}, entity.ErrNotFound
	}
	t.User = st.users[t.UserID].Summary()
	t.Event = st.events[t.EventID].Summary()
	return t, nil
}

func (r memTickets) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, t := range r.s.state.tickets {
		if t.UserID == userID && t.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r memTickets) UpdateStatus(
	ctx context.Context,
	id string,
	status entity.TicketStatus,
	paymentStatus entity.PaymentStatus,
	updatedAt time.Time,
) error {
	defer r.s.lock(ctx)()
	t, ok := r.s.state.tickets[id]
	if !ok {
		return entity.ErrNotFound
	}
	t.Status = status
	t.PaymentStatus = paymentStatus
	t.UpdatedAt = updatedAt
	r.s.state.tickets[id] = t
	return nil
}

func (r memTickets) ListByUser(ctx context.Context, userID string) ([]entity.Ticket, error) {
	defer r.s.lock(ctx)()
	tickets := []entity.Ticket{}
	for _, id := range r.s.state.ticketOrder {
		t, err := r.get(id)
		if err == nil && t.UserID == userID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}
