package usecase

import (
	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/pkg/cache"
	"cinema-pegasus/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Film      FilmService
	Screening ScreeningService
	Seat      SeatService
	Order     OrderService
	Ticket    TicketService
}

// Deps are the infrastructure pieces built in main and shared by services
type Deps struct {
	Cache cache.Cache
	Order OrderDeps
}

func NewService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) *Service {
	orderDeps := deps.Order
	if orderDeps.Tx == nil {
		orderDeps.Tx = repo
	}
	if orderDeps.Repo == nil {
		orderDeps.Repo = repo
	}

	return &Service{
		Auth:      NewAuthService(repo, config.Session, log),
		Film:      NewFilmService(repo.Film, deps.Cache, log),
		Screening: NewScreeningService(repo.Screening, orderDeps.Now, log),
		Seat:      NewSeatService(repo, log),
		Order:     NewOrderService(orderDeps, log),
		Ticket:    NewTicketService(repo, orderDeps.Now, log),
	}
}
