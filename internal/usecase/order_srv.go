package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/internal/dto/request"
	"cinema-pegasus/internal/dto/response"
	"cinema-pegasus/pkg/database"
	"cinema-pegasus/pkg/events"
	"cinema-pegasus/pkg/mailer"
	"cinema-pegasus/pkg/storage"
	"cinema-pegasus/pkg/ticketpdf"
	"cinema-pegasus/pkg/utils"

	"go.uber.org/zap"
)

type OrderService interface {
	Purchase(ctx context.Context, userID int64, req *request.PurchaseRequest) (*response.PurchaseResponse, error)
	ListOrders(ctx context.Context, userID int64) (*response.OrderListResponse, error)
	RemoveTicket(ctx context.Context, userID, ticketID int64) (*response.OrderUpdateResponse, error)
	RemoveSeat(ctx context.Context, userID, orderID int64, req *request.RemoveSeatRequest) (*response.OrderUpdateResponse, error)
	AddSeat(ctx context.Context, userID, orderID int64, req *request.TicketRequest) (*response.OrderUpdateResponse, error)
	ChangeSeats(ctx context.Context, userID int64, req *request.ChangeSeatsRequest) (*response.OrderUpdateResponse, error)
	ChangeScreening(ctx context.Context, userID int64, req *request.ChangeScreeningRequest) (*response.OrderUpdateResponse, error)
	DeleteOrder(ctx context.Context, userID, orderID int64) error
}

// TxRunner runs fn with repositories bound to a single transaction
type TxRunner interface {
	InTx(ctx context.Context, fn func(repo *repository.Repository) error) error
}

type TicketRenderer interface {
	Render(ctx context.Context, orderID int64, tickets []ticketpdf.TicketInfo) ([]byte, error)
}

// OrderDeps groups the collaborators of the order service
type OrderDeps struct {
	Tx         TxRunner
	Repo       *repository.Repository
	Renderer   TicketRenderer
	Uploader   storage.Uploader
	Mailer     mailer.Mailer
	Publisher  events.Publisher
	Background *Background // tracks confirmation mails still in flight
	Location   *time.Location
	Now        func() time.Time
}

type orderService struct {
	tx         TxRunner
	repo       *repository.Repository
	renderer   TicketRenderer
	uploader   storage.Uploader
	mailer     mailer.Mailer
	publisher  events.Publisher
	background *Background
	location   *time.Location
	now        func() time.Time
	log        *zap.Logger
}

func NewOrderService(deps OrderDeps, log *zap.Logger) OrderService {
	s := &orderService{
		tx:         deps.Tx,
		repo:       deps.Repo,
		renderer:   deps.Renderer,
		uploader:   deps.Uploader,
		mailer:     deps.Mailer,
		publisher:  deps.Publisher,
		background: deps.Background,
		location:   deps.Location,
		now:        deps.Now,
		log:        log.With(zap.String("service", "order")),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.mailer == nil {
		s.mailer = mailer.Noop{}
	}
	if s.publisher == nil {
		s.publisher = events.Noop{}
	}
	if s.background == nil {
		s.background = NewBackground()
	}
	return s
}

func (s *orderService) Purchase(ctx context.Context, userID int64, req *request.PurchaseRequest) (*response.PurchaseResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Purchase validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	var (
		order   *entity.Order
		tickets []*entity.Ticket
		pdfURL  string
	)

	err := s.runTx(ctx, "purchase", func(repo *repository.Repository) error {
		screening, err := s.lockFutureScreening(ctx, repo, req.ScreeningID)
		if err != nil {
			return err
		}

		seatIDs := make([]int64, len(req.Tickets))
		for i, t := range req.Tickets {
			seatIDs[i] = t.SeatID
		}
		if _, err := reserveSeats(ctx, repo, screening, seatIDs, nil); err != nil {
			return err
		}

		order = &entity.Order{
			UserID:      userID,
			ScreeningID: screening.ID,
			PurchasedAt: s.now(),
		}
		if err := repo.Order.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		tickets = make([]*entity.Ticket, len(req.Tickets))
		for i, t := range req.Tickets {
			tickets[i] = &entity.Ticket{
				ScreeningID:    screening.ID,
				UserID:         userID,
				SeatID:         t.SeatID,
				OrderID:        order.ID,
				GuestFirstName: cleanName(t.GuestFirstName),
				GuestLastName:  cleanName(t.GuestLastName),
			}
		}
		if err := repo.Ticket.CreateBatch(ctx, tickets); err != nil {
			return fmt.Errorf("create tickets: %w", err)
		}

		pdfURL, err = s.regeneratePDF(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ticketIDs := ticketIDsOf(tickets)

	s.log.Info("Order purchased",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("screening_id", order.ScreeningID),
		zap.Int("tickets", len(tickets)),
	)

	s.publish(ctx, events.OrderCreated, order, ticketIDs, pdfURL)
	s.sendConfirmation(ctx, userID, order.ID, pdfURL)

	return &response.PurchaseResponse{
		OrderID:   order.ID,
		TicketIDs: ticketIDs,
		PDFURLs:   []string{pdfURL},
	}, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID int64) (*response.OrderListResponse, error) {
	orders, err := s.repo.Order.FindByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list orders", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("list orders: %w", err)
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	details, err := s.repo.Ticket.FindDetailsByOrders(ctx, ids)
	if err != nil {
		s.log.Error("Failed to load order tickets", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("list order tickets: %w", err)
	}

	byOrder := make(map[int64][]*entity.TicketDetail, len(orders))
	for _, d := range details {
		byOrder[d.OrderID] = append(byOrder[d.OrderID], d)
	}

	resp := &response.OrderListResponse{Orders: make([]response.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o, byOrder[o.ID]))
	}

	return resp, nil
}

func (s *orderService) RemoveTicket(ctx context.Context, userID, ticketID int64) (*response.OrderUpdateResponse, error) {
	var result *response.OrderUpdateResponse
	var order *entity.Order

	err := s.runTx(ctx, "remove ticket", func(repo *repository.Repository) error {
		ticket, err := repo.Ticket.FindByIDForUser(ctx, ticketID, userID)
		if err != nil {
			return fmt.Errorf("find ticket: %w", err)
		}
		if ticket == nil {
			return fmt.Errorf("ticket %w", ErrNotFound)
		}

		order, err = s.lockOrder(ctx, repo, ticket.OrderID, userID)
		if err != nil {
			return err
		}

		result, err = s.removeFromOrder(ctx, repo, order, ticket.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Ticket removed", zap.Int64("ticket_id", ticketID), zap.Int64("order_id", order.ID))
	s.publish(ctx, events.OrderUpdated, order, result.TicketIDs, result.PDFURL)

	return result, nil
}

func (s *orderService) RemoveSeat(ctx context.Context, userID, orderID int64, req *request.RemoveSeatRequest) (*response.OrderUpdateResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	var result *response.OrderUpdateResponse
	var order *entity.Order

	err := s.runTx(ctx, "remove seat", func(repo *repository.Repository) error {
		var err error
		order, err = s.lockOrder(ctx, repo, orderID, userID)
		if err != nil {
			return err
		}

		tickets, err := repo.Ticket.FindByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("load order tickets: %w", err)
		}

		var ticketID int64
		for _, t := range tickets {
			if t.SeatID == req.SeatID {
				ticketID = t.ID
				break
			}
		}
		if ticketID == 0 {
			return fmt.Errorf("ticket %w", ErrNotFound)
		}

		result, err = s.removeFromOrder(ctx, repo, order, ticketID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Seat removed from order", zap.Int64("order_id", orderID), zap.Int64("seat_id", req.SeatID))
	s.publish(ctx, events.OrderUpdated, order, result.TicketIDs, result.PDFURL)

	return result, nil
}

// removeFromOrder deletes one ticket of a locked order. The order must keep
// at least one ticket.
func (s *orderService) removeFromOrder(ctx context.Context, repo *repository.Repository, order *entity.Order, ticketID int64) (*response.OrderUpdateResponse, error) {
	if _, err := s.lockFutureScreening(ctx, repo, order.ScreeningID); err != nil {
		return nil, err
	}

	tickets, err := repo.Ticket.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load order tickets: %w", err)
	}
	if len(tickets) <= 1 {
		return nil, ErrLastTicket
	}

	if err := repo.Ticket.Delete(ctx, ticketID); err != nil {
		return nil, fmt.Errorf("delete ticket: %w", err)
	}

	remaining := make([]int64, 0, len(tickets)-1)
	for _, t := range tickets {
		if t.ID != ticketID {
			remaining = append(remaining, t.ID)
		}
	}

	pdfURL, err := s.regeneratePDF(ctx, repo, order.ID)
	if err != nil {
		return nil, err
	}

	return &response.OrderUpdateResponse{OrderID: order.ID, TicketIDs: remaining, PDFURL: pdfURL}, nil
}

func (s *orderService) AddSeat(ctx context.Context, userID, orderID int64, req *request.TicketRequest) (*response.OrderUpdateResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	var result *response.OrderUpdateResponse
	var order *entity.Order

	err := s.runTx(ctx, "add seat", func(repo *repository.Repository) error {
		var err error
		order, err = s.lockOrder(ctx, repo, orderID, userID)
		if err != nil {
			return err
		}

		screening, err := s.lockFutureScreening(ctx, repo, order.ScreeningID)
		if err != nil {
			return err
		}

		existing, err := repo.Ticket.FindByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("load order tickets: %w", err)
		}
		if len(existing) >= request.MaxTicketsPerOrder {
			return fmt.Errorf("%w: an order holds at most %d tickets", ErrInvalidInput, request.MaxTicketsPerOrder)
		}

		if _, err := reserveSeats(ctx, repo, screening, []int64{req.SeatID}, nil); err != nil {
			return err
		}

		ticket := &entity.Ticket{
			ScreeningID:    screening.ID,
			UserID:         userID,
			SeatID:         req.SeatID,
			OrderID:        order.ID,
			GuestFirstName: cleanName(req.GuestFirstName),
			GuestLastName:  cleanName(req.GuestLastName),
		}
		if err := repo.Ticket.CreateBatch(ctx, []*entity.Ticket{ticket}); err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}

		pdfURL, err := s.regeneratePDF(ctx, repo, order.ID)
		if err != nil {
			return err
		}

		result = &response.OrderUpdateResponse{
			OrderID:   order.ID,
			TicketIDs: append(ticketIDsOf(existing), ticket.ID),
			PDFURL:    pdfURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Seat added to order", zap.Int64("order_id", orderID), zap.Int64("seat_id", req.SeatID))
	s.publish(ctx, events.OrderUpdated, order, result.TicketIDs, result.PDFURL)

	return result, nil
}

func (s *orderService) ChangeSeats(ctx context.Context, userID int64, req *request.ChangeSeatsRequest) (*response.OrderUpdateResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	var result *response.OrderUpdateResponse
	var order *entity.Order

	err := s.runTx(ctx, "change seats", func(repo *repository.Repository) error {
		var err error
		order, err = s.lockOrder(ctx, repo, req.OrderID, userID)
		if err != nil {
			return err
		}

		screening, err := s.lockFutureScreening(ctx, repo, order.ScreeningID)
		if err != nil {
			return err
		}

		result, err = s.moveTickets(ctx, repo, order, screening, req.NewSeats)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order seats changed", zap.Int64("order_id", req.OrderID))
	s.publish(ctx, events.OrderUpdated, order, result.TicketIDs, result.PDFURL)

	return result, nil
}

func (s *orderService) ChangeScreening(ctx context.Context, userID int64, req *request.ChangeScreeningRequest) (*response.OrderUpdateResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	var result *response.OrderUpdateResponse
	var order *entity.Order

	err := s.runTx(ctx, "change screening", func(repo *repository.Repository) error {
		var err error
		order, err = s.lockOrder(ctx, repo, req.OrderID, userID)
		if err != nil {
			return err
		}

		// lock both screenings in id order so two opposite moves cannot deadlock
		ids := []int64{order.ScreeningID, req.NewScreeningID}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		locked := make(map[int64]*entity.Screening, 2)
		for _, id := range ids {
			if _, ok := locked[id]; ok {
				continue
			}
			screening, err := s.lockFutureScreening(ctx, repo, id)
			if err != nil {
				return err
			}
			locked[id] = screening
		}

		target := locked[req.NewScreeningID]
		result, err = s.moveTickets(ctx, repo, order, target, req.NewSeats)
		if err != nil {
			return err
		}

		if order.ScreeningID != target.ID {
			if err := repo.Order.UpdateScreening(ctx, order.ID, target.ID); err != nil {
				return fmt.Errorf("move order: %w", err)
			}
			order.ScreeningID = target.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order moved to new screening",
		zap.Int64("order_id", req.OrderID),
		zap.Int64("screening_id", req.NewScreeningID),
	)
	s.publish(ctx, events.OrderUpdated, order, result.TicketIDs, result.PDFURL)

	return result, nil
}

// moveTickets reassigns every ticket of order, in id order, to newSeats of
// target. The order's own tickets never block its new seats.
func (s *orderService) moveTickets(
	ctx context.Context,
	repo *repository.Repository,
	order *entity.Order,
	target *entity.Screening,
	newSeats []request.TicketRequest,
) (*response.OrderUpdateResponse, error) {
	tickets, err := repo.Ticket.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load order tickets: %w", err)
	}
	if len(tickets) != len(newSeats) {
		return nil, fmt.Errorf("%w: %d seats for %d tickets", ErrSeatCountMismatch, len(newSeats), len(tickets))
	}

	seatIDs := make([]int64, len(newSeats))
	for i, seat := range newSeats {
		seatIDs[i] = seat.SeatID
	}

	exclude := order.ID
	if _, err := reserveSeats(ctx, repo, target, seatIDs, &exclude); err != nil {
		return nil, err
	}

	for i, ticket := range tickets {
		ticket.ScreeningID = target.ID
		ticket.SeatID = newSeats[i].SeatID
		if newSeats[i].GuestFirstName != nil {
			ticket.GuestFirstName = cleanName(newSeats[i].GuestFirstName)
		}
		if newSeats[i].GuestLastName != nil {
			ticket.GuestLastName = cleanName(newSeats[i].GuestLastName)
		}
		if err := repo.Ticket.Reassign(ctx, ticket); err != nil {
			return nil, fmt.Errorf("reassign ticket: %w", err)
		}
	}

	pdfURL, err := s.regeneratePDF(ctx, repo, order.ID)
	if err != nil {
		return nil, err
	}

	return &response.OrderUpdateResponse{
		OrderID:   order.ID,
		TicketIDs: ticketIDsOf(tickets),
		PDFURL:    pdfURL,
	}, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	var order *entity.Order

	err := s.runTx(ctx, "delete order", func(repo *repository.Repository) error {
		var err error
		order, err = s.lockOrder(ctx, repo, orderID, userID)
		if err != nil {
			return err
		}

		if _, err := s.lockFutureScreening(ctx, repo, order.ScreeningID); err != nil {
			return err
		}

		// tickets go with the order through ON DELETE CASCADE
		if err := repo.Order.Delete(ctx, order.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Order deleted", zap.Int64("order_id", orderID), zap.Int64("user_id", userID))
	s.publish(ctx, events.OrderDeleted, order, nil, "")

	return nil
}

// runTx runs fn in a transaction, retrying once on serialization failure
// or deadlock, and maps seat constraint violations to ErrSeatTaken.
func (s *orderService) runTx(ctx context.Context, op string, fn func(repo *repository.Repository) error) error {
	err := s.tx.InTx(ctx, fn)
	if err != nil && database.IsRetryable(err) {
		s.log.Warn("Retrying transaction", zap.String("operation", op), zap.Error(err))
		err = s.tx.InTx(ctx, fn)
	}

	switch {
	case err == nil:
		return nil
	case repository.IsSeatConflict(err):
		s.log.Warn("Seat conflict", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%w: a requested seat was sold meanwhile", ErrSeatTaken)
	case isDomainError(err):
		s.log.Warn(op+" rejected", zap.Error(err))
		return err
	default:
		s.log.Error(op+" failed", zap.Error(err))
		return err
	}
}

func (s *orderService) lockFutureScreening(ctx context.Context, repo *repository.Repository, screeningID int64) (*entity.Screening, error) {
	screening, err := repo.Screening.FindByIDForUpdate(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("lock screening: %w", err)
	}
	if screening == nil {
		return nil, fmt.Errorf("screening %w", ErrNotFound)
	}
	if screening.IsPast(s.now()) {
		return nil, ErrPastScreening
	}
	return screening, nil
}

func (s *orderService) lockOrder(ctx context.Context, repo *repository.Repository, orderID, userID int64) (*entity.Order, error) {
	order, err := repo.Order.FindByIDForUpdate(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}
	return order, nil
}

// regeneratePDF renders every ticket of the order, uploads the document and
// stores its URL on the order. It runs inside the mutation's transaction.
func (s *orderService) regeneratePDF(ctx context.Context, repo *repository.Repository, orderID int64) (string, error) {
	details, err := repo.Ticket.FindDetailsByOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("load tickets for pdf: %w", err)
	}

	infos := make([]ticketpdf.TicketInfo, len(details))
	for i, d := range details {
		infos[i] = toTicketInfo(d)
	}

	data, err := s.renderer.Render(ctx, orderID, infos)
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	publicID := fmt.Sprintf("ticket%d%s", orderID, s.now().In(s.location).Format("20060102150405"))
	url, err := s.uploader.UploadPDF(ctx, data, publicID)
	if err != nil {
		return "", fmt.Errorf("upload pdf: %w", err)
	}

	if err := repo.Order.UpdatePDFURL(ctx, orderID, url); err != nil {
		return "", fmt.Errorf("save pdf url: %w", err)
	}

	return url, nil
}

func (s *orderService) publish(ctx context.Context, eventType string, order *entity.Order, ticketIDs []int64, pdfURL string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := s.publisher.Publish(ctx, events.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		ScreeningID: order.ScreeningID,
		TicketIDs:   ticketIDs,
		PDFURL:      pdfURL,
		OccurredAt:  s.now().UTC(),
	})
	if err != nil {
		s.log.Warn("Failed to publish order event",
			zap.Error(err),
			zap.String("type", eventType),
			zap.Int64("order_id", order.ID),
		)
	}
}

// sendConfirmation mails the buyer in the background; a failure is logged
// and never reaches the client.
func (s *orderService) sendConfirmation(ctx context.Context, userID, orderID int64, pdfURL string) {
	if _, disabled := s.mailer.(mailer.Noop); disabled {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.background.Go(func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		user, err := s.repo.User.FindByID(ctx, userID)
		if err != nil || user == nil {
			s.log.Warn("Confirmation skipped, user not loaded", zap.Error(err), zap.Int64("user_id", userID))
			return
		}

		details, err := s.repo.Ticket.FindDetailsByOrder(ctx, orderID)
		if err != nil || len(details) == 0 {
			s.log.Warn("Confirmation skipped, tickets not loaded", zap.Error(err), zap.Int64("order_id", orderID))
			return
		}

		seats := make([]string, len(details))
		for i, d := range details {
			seats[i] = fmt.Sprintf("%s%d", d.SeatRow, d.SeatNumber)
		}

		err = s.mailer.SendOrderConfirmation(ctx, user.Email, mailer.OrderConfirmation{
			OrderID:   orderID,
			FirstName: user.FirstName,
			FilmTitle: details[0].FilmTitle,
			RoomName:  details[0].RoomName,
			StartsAt:  details[0].StartsAt.In(s.location).Format("02/01/2006 15:04"),
			Seats:     seats,
			PDFURL:    pdfURL,
		})
		if err != nil {
			s.log.Warn("Failed to send order confirmation", zap.Error(err), zap.Int64("order_id", orderID))
		}
	})
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrSeatTaken, ErrPastScreening,
		ErrLastTicket, ErrSeatCountMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func ticketIDsOf(tickets []*entity.Ticket) []int64 {
	ids := make([]int64, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	return ids
}

// cleanName trims a guest name; blank means no guest name
func cleanName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
