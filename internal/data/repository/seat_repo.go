package repository

import (
	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/pkg/database"
	"context"
	"fmt"

	"go.uber.org/zap"
)

type SeatRepository interface {
	FindByRoom(ctx context.Context, roomID int64) ([]*entity.Seat, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*entity.Seat, error)
	// FindOccupiedByScreening returns the seats sold for a screening
	FindOccupiedByScreening(ctx context.Context, screeningID int64) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSeatRepository(db database.Querier, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) FindByRoom(ctx context.Context, roomID int64) ([]*entity.Seat, error) {
	query := `
		SELECT id_posto, id_sala, fila, numero
		FROM posto
		WHERE id_sala = $1
		ORDER BY fila, numero
	`

	seats, err := r.query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to find seats by room",
			zap.Error(err),
			zap.Int64("room_id", roomID),
		)
		return nil, fmt.Errorf("failed to find seats: %w", err)
	}

	return seats, nil
}

func (r *seatRepository) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id_posto, id_sala, fila, numero
		FROM posto
		WHERE id_posto = ANY($1)
	`

	seats, err := r.query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find seats by IDs",
			zap.Error(err),
			zap.Int64s("seat_ids", ids),
		)
		return nil, fmt.Errorf("failed to find seats: %w", err)
	}

	return seats, nil
}

func (r *seatRepository) FindOccupiedByScreening(ctx context.Context, screeningID int64) ([]*entity.Seat, error) {
	query := `
		SELECT p.id_posto, p.id_sala, p.fila, p.numero
		FROM biglietto b
		INNER JOIN posto p ON p.id_posto = b.id_posto
		WHERE b.id_proiezione = $1
		ORDER BY p.fila, p.numero
	`

	seats, err := r.query(ctx, query, screeningID)
	if err != nil {
		r.log.Error("Failed to find occupied seats",
			zap.Error(err),
			zap.Int64("screening_id", screeningID),
		)
		return nil, fmt.Errorf("failed to find occupied seats: %w", err)
	}

	return seats, nil
}

func (r *seatRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Seat, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		if err := rows.Scan(&seat.ID, &seat.RoomID, &seat.Row, &seat.Number); err != nil {
			return nil, err
		}
		seats = append(seats, &seat)
	}

	return seats, rows.Err()
}

