package usecase

import (
	"context"
	"fmt"

	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/internal/dto/response"

	"go.uber.org/zap"
)

type SeatService interface {
	GetSeats(ctx context.Context, screeningID int64) ([]response.SeatResponse, error)
	GetOccupied(ctx context.Context, screeningID int64) ([]response.OccupiedSeatResponse, error)
}

type seatService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSeatService(repo *repository.Repository, log *zap.Logger) SeatService {
	return &seatService{
		repo: repo,
		log:  log.With(zap.String("service", "seat")),
	}
}

// GetSeats lists every seat of the screening's room, by row then number
func (s *seatService) GetSeats(ctx context.Context, screeningID int64) ([]response.SeatResponse, error) {
	screening, err := s.repo.Screening.FindByID(ctx, screeningID)
	if err != nil {
		s.log.Error("Failed to get screening", zap.Error(err), zap.Int64("screening_id", screeningID))
		return nil, fmt.Errorf("get screening: %w", err)
	}
	if screening == nil {
		return nil, fmt.Errorf("screening %w", ErrNotFound)
	}

	seats, err := s.repo.Seat.FindByRoom(ctx, screening.RoomID)
	if err != nil {
		s.log.Error("Failed to get seats", zap.Error(err), zap.Int64("room_id", screening.RoomID))
		return nil, fmt.Errorf("get seats: %w", err)
	}

	out := make([]response.SeatResponse, 0, len(seats))
	for _, seat := range seats {
		out = append(out, response.SeatResponse{ID: seat.ID, Row: seat.Row, Number: seat.Number})
	}
	return out, nil
}

func (s *seatService) GetOccupied(ctx context.Context, screeningID int64) ([]response.OccupiedSeatResponse, error) {
	seats, err := s.repo.Seat.FindOccupiedByScreening(ctx, screeningID)
	if err != nil {
		s.log.Error("Failed to get occupied seats", zap.Error(err), zap.Int64("screening_id", screeningID))
		return nil, fmt.Errorf("get occupied seats: %w", err)
	}

	out := make([]response.OccupiedSeatResponse, 0, len(seats))
	for _, seat := range seats {
		out = append(out, response.OccupiedSeatResponse{Row: seat.Row, Number: seat.Number})
	}
	return out, nil
}
