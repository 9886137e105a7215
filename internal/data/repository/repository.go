package repository

import (
	"context"

	"cinema-pegasus/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db  database.PgxIface
	log *zap.Logger

	User      UserRepository
	Session   SessionRepository
	Film      FilmRepository
	Seat      SeatRepository
	Screening ScreeningRepository
	Order     OrderRepository
	Ticket    TicketRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := bind(db, log)
	repo.db = db
	return repo
}

func bind(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		log:       log,
		User:      NewUserRepository(q, log),
		Session:   NewSessionRepository(q, log),
		Film:      NewFilmRepository(q, log),
		Seat:      NewSeatRepository(q, log),
		Screening: NewScreeningRepository(q, log),
		Order:     NewOrderRepository(q, log),
		Ticket:    NewTicketRepository(q, log),
	}
}

// InTx runs fn with a Repository whose every member shares one
// transaction. fn's error rolls the whole unit back.
func (r *Repository) InTx(ctx context.Context, fn func(repo *Repository) error) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(bind(tx, r.log))
	})
}
