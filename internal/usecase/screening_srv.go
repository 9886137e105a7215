package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/internal/dto/response"

	"go.uber.org/zap"
)

type ScreeningService interface {
	// GetUpcoming lists the film's screenings that have not started yet
	GetUpcoming(ctx context.Context, filmID int64) (*response.ScreeningListResponse, error)
	GetByFilm(ctx context.Context, filmID int64) ([]response.ScreeningResponse, error)
}

type screeningService struct {
	repo repository.ScreeningRepository
	now  func() time.Time
	log  *zap.Logger
}

func NewScreeningService(repo repository.ScreeningRepository, now func() time.Time, log *zap.Logger) ScreeningService {
	if now == nil {
		now = time.Now
	}
	return &screeningService{
		repo: repo,
		now:  now,
		log:  log.With(zap.String("service", "screening")),
	}
}

func (s *screeningService) GetUpcoming(ctx context.Context, filmID int64) (*response.ScreeningListResponse, error) {
	now := s.now()
	screenings, err := s.list(ctx, filmID, &now)
	if err != nil {
		return nil, err
	}
	return &response.ScreeningListResponse{Screenings: screenings}, nil
}

func (s *screeningService) GetByFilm(ctx context.Context, filmID int64) ([]response.ScreeningResponse, error) {
	return s.list(ctx, filmID, nil)
}

func (s *screeningService) list(ctx context.Context, filmID int64, from *time.Time) ([]response.ScreeningResponse, error) {
	rows, err := s.repo.FindByFilm(ctx, filmID, from)
	if err != nil {
		s.log.Error("Failed to get screenings", zap.Error(err), zap.Int64("film_id", filmID))
		return nil, fmt.Errorf("get screenings: %w", err)
	}

	out := make([]response.ScreeningResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toScreeningResponse(row))
	}
	return out, nil
}
