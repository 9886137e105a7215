package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/pkg/events"
	"cinema-pegasus/pkg/ticketpdf"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the database. Repositories hand out
// copies so that callers cannot mutate rows behind the fake's back.
type memStore struct {
	films      map[int64]entity.Film
	rooms      map[int64]string
	seats      map[int64]entity.Seat
	screenings map[int64]entity.Screening
	users      map[int64]entity.User
	orders     map[int64]entity.Order
	tickets    map[int64]entity.Ticket
	nextID     int64

	// locks records FindByIDForUpdate calls on screenings, in order
	locks []int64
}

func newMemStore() *memStore {
	return &memStore{
		films:      map[int64]entity.Film{},
		rooms:      map[int64]string{},
		seats:      map[int64]entity.Seat{},
		screenings: map[int64]entity.Screening{},
		users:      map[int64]entity.User{},
		orders:     map[int64]entity.Order{},
		tickets:    map[int64]entity.Ticket{},
		nextID:     1000,
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextID = s.nextID
	for k, v := range s.films {
		c.films[k] = v
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.seats {
		c.seats[k] = v
	}
	for k, v := range s.screenings {
		c.screenings[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.tickets {
		c.tickets[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:      &fakeUserRepo{st: s},
		Film:      &fakeFilmRepo{st: s},
		Seat:      &fakeSeatRepo{st: s},
		Screening: &fakeScreeningRepo{st: s},
		Order:     &fakeOrderRepo{st: s},
		Ticket:    &fakeTicketRepo{st: s},
	}
}

// ---- fixtures ----

// fixture: room 1 with seats A1..A4, room 2 with seat B1, one film, a user
// with id 1 and another with id 2.
func seededStore(now time.Time) *memStore {
	st := newMemStore()
	st.rooms[1] = "Sala 1"
	st.rooms[2] = "Sala 2"
	for i := int64(1); i <= 4; i++ {
		st.seats[i] = entity.Seat{ID: i, RoomID: 1, Row: "A", Number: int32(i)}
	}
	st.seats[5] = entity.Seat{ID: 5, RoomID: 2, Row: "B", Number: 1}

	st.films[1] = entity.Film{ID: 1, Title: "Dune", Director: "Villeneuve", PosterURL: "https://img.test/dune.png"}
	st.users[1] = entity.User{ID: 1, FirstName: "Mario", LastName: "Rossi", Email: "mario@test.it"}
	st.users[2] = entity.User{ID: 2, FirstName: "Luigi", LastName: "Verdi", Email: "luigi@test.it"}

	st.screenings[10] = entity.Screening{ID: 10, FilmID: 1, RoomID: 1, StartsAt: now.Add(48 * time.Hour), Price: decimal.RequireFromString("8.50")}
	st.screenings[11] = entity.Screening{ID: 11, FilmID: 1, RoomID: 1, StartsAt: now.Add(72 * time.Hour), Price: decimal.RequireFromString("9.00")}
	st.screenings[12] = entity.Screening{ID: 12, FilmID: 1, RoomID: 1, StartsAt: now.Add(-2 * time.Hour), Price: decimal.RequireFromString("7.00")}
	st.screenings[13] = entity.Screening{ID: 13, FilmID: 1, RoomID: 2, StartsAt: now.Add(24 * time.Hour), Price: decimal.RequireFromString("6.00")}
	return st
}

// addOrder inserts an order of userID for screeningID holding seatIDs
func (s *memStore) addOrder(userID, screeningID int64, seatIDs ...int64) (int64, []int64) {
	orderID := s.id()
	s.orders[orderID] = entity.Order{ID: orderID, UserID: userID, ScreeningID: screeningID, PurchasedAt: time.Unix(0, 0)}

	var ticketIDs []int64
	for _, seatID := range seatIDs {
		id := s.id()
		s.tickets[id] = entity.Ticket{ID: id, ScreeningID: screeningID, UserID: userID, SeatID: seatID, OrderID: orderID}
		ticketIDs = append(ticketIDs, id)
	}
	return orderID, ticketIDs
}

func (s *memStore) ticketsOf(orderID int64) []entity.Ticket {
	var out []entity.Ticket
	for _, t := range s.tickets {
		if t.OrderID == orderID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) detail(t entity.Ticket) *entity.TicketDetail {
	screening := s.screenings[t.ScreeningID]
	film := s.films[screening.FilmID]
	seat := s.seats[t.SeatID]
	user := s.users[t.UserID]
	order := s.orders[t.OrderID]
	return &entity.TicketDetail{
		Ticket:        t,
		FilmTitle:     film.Title,
		FilmPosterURL: film.PosterURL,
		RoomName:      s.rooms[screening.RoomID],
		StartsAt:      screening.StartsAt,
		Price:         screening.Price,
		SeatRow:       seat.Row,
		SeatNumber:    seat.Number,
		PDFURL:        order.PDFURL,
		UserFirstName: user.FirstName,
		UserLastName:  user.LastName,
	}
}

// ---- transaction runner ----

type fakeTx struct {
	st *memStore
	// failures are returned, in order, by the next InTx calls before fn runs
	failures []error
	// commitErr is returned after fn succeeded, as a failing COMMIT would
	commitErr error
	attempts  int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	f.attempts++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return err
	}

	snapshot := f.st.clone()
	if err := fn(f.st.repository()); err != nil {
		f.st.restore(snapshot)
		return err
	}
	if f.commitErr != nil {
		f.st.restore(snapshot)
		return fmt.Errorf("commit transaction: %w", f.commitErr)
	}
	return nil
}

// ---- side-effect fakes ----

type fakeRenderer struct {
	calls [][]ticketpdf.TicketInfo
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, orderID int64, tickets []ticketpdf.TicketInfo) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(tickets) == 0 {
		return nil, ticketpdf.ErrNoTickets
	}
	f.calls = append(f.calls, tickets)
	return []byte("%PDF-1.3 fake"), nil
}

type fakeUploader struct {
	publicIDs []string
	err       error
}

func (f *fakeUploader) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.publicIDs = append(f.publicIDs, publicID)
	return "https://cdn.test/pdf_biglietti/" + publicID + ".pdf", nil
}

type fakePublisher struct {
	events []events.OrderEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// ---- order service harness ----

type orderHarness struct {
	st        *memStore
	tx        *fakeTx
	renderer  *fakeRenderer
	uploader  *fakeUploader
	publisher *fakePublisher
	now       time.Time
	svc       OrderService
}

func newOrderHarness() *orderHarness {
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	st := seededStore(now)
	h := &orderHarness{
		st:        st,
		tx:        &fakeTx{st: st},
		renderer:  &fakeRenderer{},
		uploader:  &fakeUploader{},
		publisher: &fakePublisher{},
		now:       now,
	}
	h.svc = NewOrderService(OrderDeps{
		Tx:        h.tx,
		Repo:      st.repository(),
		Renderer:  h.renderer,
		Uploader:  h.uploader,
		Publisher: h.publisher,
		Now:       func() time.Time { return now },
	}, zap.NewNop())
	return h
}

// ---- repositories ----

type fakeUserRepo struct{ st *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = r.st.id()
	r.st.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

type fakeFilmRepo struct {
	st    *memStore
	calls int
}

func (r *fakeFilmRepo) FindAll(ctx context.Context) ([]*entity.Film, error) {
	r.calls++
	var out []*entity.Film
	for _, f := range r.st.films {
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeFilmRepo) FindByID(ctx context.Context, id int64) (*entity.Film, error) {
	r.calls++
	f, ok := r.st.films[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *fakeFilmRepo) Genres(ctx context.Context) ([]string, error) {
	r.calls++
	return []string{"Azione", "Avventura"}, nil
}

type fakeSeatRepo struct{ st *memStore }

func (r *fakeSeatRepo) FindByRoom(ctx context.Context, roomID int64) ([]*entity.Seat, error) {
	var out []*entity.Seat
	for _, s := range r.st.seats {
		if s.RoomID == roomID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *fakeSeatRepo) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Seat, error) {
	var out []*entity.Seat
	for _, id := range ids {
		if s, ok := r.st.seats[id]; ok {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeSeatRepo) FindOccupiedByScreening(ctx context.Context, screeningID int64) ([]*entity.Seat, error) {
	var out []*entity.Seat
	for _, t := range r.st.tickets {
		if t.ScreeningID == screeningID {
			s := r.st.seats[t.SeatID]
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeScreeningRepo struct{ st *memStore }

func (r *fakeScreeningRepo) FindByID(ctx context.Context, id int64) (*entity.Screening, error) {
	s, ok := r.st.screenings[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeScreeningRepo) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Screening, error) {
	r.st.locks = append(r.st.locks, id)
	return r.FindByID(ctx, id)
}

func (r *fakeScreeningRepo) FindByFilm(ctx context.Context, filmID int64, from *time.Time) ([]*entity.ScreeningDetail, error) {
	var out []*entity.ScreeningDetail
	for _, s := range r.st.screenings {
		if s.FilmID != filmID {
			continue
		}
		if from != nil && !s.StartsAt.After(*from) {
			continue
		}
		out = append(out, &entity.ScreeningDetail{
			Screening: s,
			FilmTitle: r.st.films[s.FilmID].Title,
			RoomName:  r.st.rooms[s.RoomID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

type fakeOrderRepo struct{ st *memStore }

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	order.ID = r.st.id()
	r.st.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, orderID, userID int64) (*entity.Order, error) {
	return r.FindByIDForUser(ctx, orderID, userID)
}

func (r *fakeOrderRepo) FindByIDForUser(ctx context.Context, orderID, userID int64) (*entity.Order, error) {
	o, ok := r.st.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, nil
	}
	return &o, nil
}

func (r *fakeOrderRepo) FindByUser(ctx context.Context, userID int64) ([]*entity.OrderDetail, error) {
	var out []*entity.OrderDetail
	for _, o := range r.st.orders {
		if o.UserID != userID {
			continue
		}
		s := r.st.screenings[o.ScreeningID]
		out = append(out, &entity.OrderDetail{
			Order:     o,
			FilmID:    s.FilmID,
			FilmTitle: r.st.films[s.FilmID].Title,
			RoomName:  r.st.rooms[s.RoomID],
			StartsAt:  s.StartsAt,
			Price:     s.Price,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) FindPDFURLsByUser(ctx context.Context, userID int64) ([]string, error) {
	var out []string
	for _, o := range r.st.orders {
		if o.UserID == userID && o.PDFURL != nil {
			out = append(out, *o.PDFURL)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeOrderRepo) UpdatePDFURL(ctx context.Context, orderID int64, pdfURL string) error {
	o, ok := r.st.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}
	o.PDFURL = &pdfURL
	r.st.orders[orderID] = o
	return nil
}

func (r *fakeOrderRepo) UpdateScreening(ctx context.Context, orderID, screeningID int64) error {
	o, ok := r.st.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}
	o.ScreeningID = screeningID
	r.st.orders[orderID] = o
	return nil
}

// Delete cascades to tickets like the schema does
func (r *fakeOrderRepo) Delete(ctx context.Context, orderID int64) error {
	if _, ok := r.st.orders[orderID]; !ok {
		return fmt.Errorf("order %d not found", orderID)
	}
	delete(r.st.orders, orderID)
	for id, t := range r.st.tickets {
		if t.OrderID == orderID {
			delete(r.st.tickets, id)
		}
	}
	return nil
}

type fakeTicketRepo struct{ st *memStore }

func (r *fakeTicketRepo) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	for _, t := range tickets {
		t.ID = r.st.id()
		r.st.tickets[t.ID] = *t
	}
	return nil
}

func (r *fakeTicketRepo) FindByIDForUser(ctx context.Context, ticketID, userID int64) (*entity.Ticket, error) {
	t, ok := r.st.tickets[ticketID]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeTicketRepo) FindByOrder(ctx context.Context, orderID int64) ([]*entity.Ticket, error) {
	var out []*entity.Ticket
	for _, t := range r.st.ticketsOf(orderID) {
		t := t
		out = append(out, &t)
	}
	return out, nil
}

func (r *fakeTicketRepo) FindOccupiedSeatIDs(ctx context.Context, screeningID int64, excludeOrderID *int64) ([]int64, error) {
	var out []int64
	for _, t := range r.st.tickets {
		if t.ScreeningID != screeningID {
			continue
		}
		if excludeOrderID != nil && t.OrderID == *excludeOrderID {
			continue
		}
		out = append(out, t.SeatID)
	}
	return out, nil
}

func (r *fakeTicketRepo) Reassign(ctx context.Context, ticket *entity.Ticket) error {
	if _, ok := r.st.tickets[ticket.ID]; !ok {
		return fmt.Errorf("ticket %d not found", ticket.ID)
	}
	r.st.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, ticketID int64) error {
	if _, ok := r.st.tickets[ticketID]; !ok {
		return fmt.Errorf("ticket %d not found", ticketID)
	}
	delete(r.st.tickets, ticketID)
	return nil
}

func (r *fakeTicketRepo) FindDetailsByOrder(ctx context.Context, orderID int64) ([]*entity.TicketDetail, error) {
	var out []*entity.TicketDetail
	for _, t := range r.st.ticketsOf(orderID) {
		out = append(out, r.st.detail(t))
	}
	return out, nil
}

func (r *fakeTicketRepo) FindDetailsByOrders(ctx context.Context, orderIDs []int64) ([]*entity.TicketDetail, error) {
	var out []*entity.TicketDetail
	for _, id := range orderIDs {
		details, _ := r.FindDetailsByOrder(ctx, id)
		out = append(out, details...)
	}
	return out, nil
}

func (r *fakeTicketRepo) FindDetailsByUser(ctx context.Context, userID int64) ([]*entity.TicketDetail, error) {
	var out []*entity.TicketDetail
	for _, t := range r.st.tickets {
		if t.UserID == userID {
			out = append(out, r.st.detail(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
	revoked  []string
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	if r.sessions == nil {
		r.sessions = map[string]*entity.Session{}
	}
	r.sessions[session.Token.String()] = session
	return nil
}

func (r *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	s, ok := r.sessions[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	r.revoked = append(r.revoked, token)
	if s, ok := r.sessions[token]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}
