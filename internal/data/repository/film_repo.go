package repository

import (
	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/pkg/database"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FilmRepository interface {
	FindAll(ctx context.Context) ([]*entity.Film, error)
	FindByID(ctx context.Context, id int64) (*entity.Film, error)
	Genres(ctx context.Context) ([]string, error)
}

type filmRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewFilmRepository(db database.Querier, log *zap.Logger) FilmRepository {
	return &filmRepository{
		db:  db,
		log: log.With(zap.String("repository", "film")),
	}
}

const filmColumns = `id_film, titolo, regista, durata, url_copertina, descrizione, generi::text[]`

func scanFilm(row pgx.Row) (*entity.Film, error) {
	var film entity.Film
	err := row.Scan(
		&film.ID,
		&film.Title,
		&film.Director,
		&film.Runtime,
		&film.PosterURL,
		&film.Description,
		&film.Genres,
	)
	if err != nil {
		return nil, err
	}
	return &film, nil
}

func (r *filmRepository) FindAll(ctx context.Context) ([]*entity.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM film ORDER BY titolo`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all films", zap.Error(err))
		return nil, fmt.Errorf("failed to find films: %w", err)
	}
	defer rows.Close()

	var films []*entity.Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			r.log.Error("Failed to scan film row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		films = append(films, film)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return films, nil
}

func (r *filmRepository) FindByID(ctx context.Context, id int64) (*entity.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM film WHERE id_film = $1`

	film, err := scanFilm(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find film by ID",
			zap.Error(err),
			zap.Int64("film_id", id),
		)
		return nil, fmt.Errorf("failed to find film: %w", err)
	}

	return film, nil
}

// Genres lists the labels of the generefilm enum in declaration order
func (r *filmRepository) Genres(ctx context.Context) ([]string, error) {
	query := `SELECT unnest(enum_range(NULL::generefilm))::text`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list genres", zap.Error(err))
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	return genres, rows.Err()
}
