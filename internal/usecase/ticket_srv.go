package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/internal/dto/response"

	"go.uber.org/zap"
)

type TicketService interface {
	ListTickets(ctx context.Context, userID int64) (*response.TicketListResponse, error)
	ListPDFs(ctx context.Context, userID int64) (*response.PDFListResponse, error)
	GetPDFURL(ctx context.Context, userID, ticketID int64) (*response.PDFURLResponse, error)
}

type ticketService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewTicketService(repo *repository.Repository, now func() time.Time, log *zap.Logger) TicketService {
	if now == nil {
		now = time.Now
	}
	return &ticketService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) ListTickets(ctx context.Context, userID int64) (*response.TicketListResponse, error) {
	details, err := s.repo.Ticket.FindDetailsByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list tickets", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	now := s.now()
	resp := &response.TicketListResponse{
		Upcoming: []response.TicketResponse{},
		Past:     []response.TicketResponse{},
	}
	for _, d := range details {
		if d.StartsAt.After(now) {
			resp.Upcoming = append(resp.Upcoming, toTicketResponse(d))
		} else {
			resp.Past = append(resp.Past, toTicketResponse(d))
		}
	}

	return resp, nil
}

func (s *ticketService) ListPDFs(ctx context.Context, userID int64) (*response.PDFListResponse, error) {
	urls, err := s.repo.Order.FindPDFURLsByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list ticket PDFs", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("list pdfs: %w", err)
	}
	if urls == nil {
		urls = []string{}
	}
	return &response.PDFListResponse{PDFURLs: urls}, nil
}

func (s *ticketService) GetPDFURL(ctx context.Context, userID, ticketID int64) (*response.PDFURLResponse, error) {
	ticket, err := s.repo.Ticket.FindByIDForUser(ctx, ticketID, userID)
	if err != nil {
		s.log.Error("Failed to find ticket", zap.Error(err), zap.Int64("ticket_id", ticketID))
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket %w", ErrNotFound)
	}

	order, err := s.repo.Order.FindByIDForUser(ctx, ticket.OrderID, userID)
	if err != nil {
		s.log.Error("Failed to find order", zap.Error(err), zap.Int64("order_id", ticket.OrderID))
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil || order.PDFURL == nil || *order.PDFURL == "" {
		return nil, fmt.Errorf("pdf %w", ErrNotFound)
	}

	return &response.PDFURLResponse{PDFURL: *order.PDFURL}, nil
}
