package repository

import (
	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/pkg/database"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScreeningRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Screening, error)
	// FindByIDForUpdate locks the screening row until the transaction ends.
	// Every ticket write for a screening takes this lock first.
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Screening, error)
	FindByFilm(ctx context.Context, filmID int64, from *time.Time) ([]*entity.ScreeningDetail, error)
}

type screeningRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewScreeningRepository(db database.Querier, log *zap.Logger) ScreeningRepository {
	return &screeningRepository{
		db:  db,
		log: log.With(zap.String("repository", "screening")),
	}
}

func (r *screeningRepository) FindByID(ctx context.Context, id int64) (*entity.Screening, error) {
	return r.findByID(ctx, id, false)
}

func (r *screeningRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Screening, error) {
	return r.findByID(ctx, id, true)
}

func (r *screeningRepository) findByID(ctx context.Context, id int64, lock bool) (*entity.Screening, error) {
	query := `
		SELECT id_proiezione, id_film, id_sala, data_ora, costo
		FROM proiezione
		WHERE id_proiezione = $1
	`
	if lock {
		query += ` FOR UPDATE`
	}

	var s entity.Screening
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.FilmID,
		&s.RoomID,
		&s.StartsAt,
		&s.Price,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screening by ID",
			zap.Error(err),
			zap.Int64("screening_id", id),
			zap.Bool("lock", lock),
		)
		return nil, fmt.Errorf("failed to find screening: %w", err)
	}

	return &s, nil
}

// FindByFilm lists a film's screenings by start time. A non-nil from keeps
// only the screenings starting after it.
func (r *screeningRepository) FindByFilm(ctx context.Context, filmID int64, from *time.Time) ([]*entity.ScreeningDetail, error) {
	query := `
		SELECT p.id_proiezione, p.id_film, p.id_sala, p.data_ora, p.costo,
		       f.titolo, s.nome
		FROM proiezione p
		INNER JOIN film f ON f.id_film = p.id_film
		INNER JOIN sala s ON s.id_sala = p.id_sala
		WHERE p.id_film = $1
		  AND ($2::timestamptz IS NULL OR p.data_ora > $2)
		ORDER BY p.data_ora
	`

	rows, err := r.db.Query(ctx, query, filmID, from)
	if err != nil {
		r.log.Error("Failed to find screenings by film",
			zap.Error(err),
			zap.Int64("film_id", filmID),
		)
		return nil, fmt.Errorf("failed to find screenings: %w", err)
	}
	defer rows.Close()

	var screenings []*entity.ScreeningDetail
	for rows.Next() {
		var s entity.ScreeningDetail
		err := rows.Scan(
			&s.ID,
			&s.FilmID,
			&s.RoomID,
			&s.StartsAt,
			&s.Price,
			&s.FilmTitle,
			&s.RoomName,
		)
		if err != nil {
			r.log.Error("Failed to scan screening row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan screening: %w", err)
		}
		screenings = append(screenings, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return screenings, nil
}
