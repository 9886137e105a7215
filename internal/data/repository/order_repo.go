package repository

import (
	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/pkg/database"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// FindByIDForUpdate returns the user's order and locks it. Orders of
	// other users are reported as missing.
	FindByIDForUpdate(ctx context.Context, orderID, userID int64) (*entity.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID int64) (*entity.Order, error)
	FindByUser(ctx context.Context, userID int64) ([]*entity.OrderDetail, error)
	FindPDFURLsByUser(ctx context.Context, userID int64) ([]string, error)
	UpdatePDFURL(ctx context.Context, orderID int64, pdfURL string) error
	UpdateScreening(ctx context.Context, orderID, screeningID int64) error
	Delete(ctx context.Context, orderID int64) error
}

type orderRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOrderRepository(db database.Querier, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO ordine (id_utente, id_proiezione, data_acquisto)
		VALUES ($1, $2, $3)
		RETURNING id_ordine
	`

	err := r.db.QueryRow(ctx, query,
		order.UserID,
		order.ScreeningID,
		order.PurchasedAt,
	).Scan(&order.ID)

	if err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
			zap.Int64("screening_id", order.ScreeningID),
		)
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

const orderByIDQuery = `
	SELECT id_ordine, id_utente, id_proiezione, data_acquisto, pdf_url
	FROM ordine
	WHERE id_ordine = $1 AND id_utente = $2
`

func (r *orderRepository) FindByIDForUser(ctx context.Context, orderID, userID int64) (*entity.Order, error) {
	return r.findOne(ctx, orderByIDQuery, orderID, userID)
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, orderID, userID int64) (*entity.Order, error) {
	return r.findOne(ctx, orderByIDQuery+" FOR UPDATE", orderID, userID)
}

func (r *orderRepository) findOne(ctx context.Context, query string, orderID, userID int64) (*entity.Order, error) {
	var order entity.Order
	err := r.db.QueryRow(ctx, query, orderID, userID).Scan(
		&order.ID,
		&order.UserID,
		&order.ScreeningID,
		&order.PurchasedAt,
		&order.PDFURL,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.Int64("order_id", orderID),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return &order, nil
}

// FindByUser lists the user's orders, newest purchase first
func (r *orderRepository) FindByUser(ctx context.Context, userID int64) ([]*entity.OrderDetail, error) {
	query := `
		SELECT o.id_ordine, o.id_utente, o.id_proiezione, o.data_acquisto, o.pdf_url,
		       f.id_film, f.titolo, s.nome, p.data_ora, p.costo
		FROM ordine o
		INNER JOIN proiezione p ON p.id_proiezione = o.id_proiezione
		INNER JOIN film f ON f.id_film = p.id_film
		INNER JOIN sala s ON s.id_sala = p.id_sala
		WHERE o.id_utente = $1
		ORDER BY o.data_acquisto DESC, o.id_ordine DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find orders by user",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.OrderDetail
	for rows.Next() {
		var o entity.OrderDetail
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.ScreeningID,
			&o.PurchasedAt,
			&o.PDFURL,
			&o.FilmID,
			&o.FilmTitle,
			&o.RoomName,
			&o.StartsAt,
			&o.Price,
		)
		if err != nil {
			r.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) FindPDFURLsByUser(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT pdf_url
		FROM ordine
		WHERE id_utente = $1 AND pdf_url IS NOT NULL
		ORDER BY data_acquisto DESC, id_ordine DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find PDF URLs",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("failed to find pdf urls: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan pdf url: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

func (r *orderRepository) UpdatePDFURL(ctx context.Context, orderID int64, pdfURL string) error {
	query := `UPDATE ordine SET pdf_url = $2 WHERE id_ordine = $1`

	result, err := r.db.Exec(ctx, query, orderID, pdfURL)
	if err != nil {
		r.log.Error("Failed to update order PDF URL",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return fmt.Errorf("failed to update pdf url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", orderID)
	}

	return nil
}

func (r *orderRepository) UpdateScreening(ctx context.Context, orderID, screeningID int64) error {
	query := `UPDATE ordine SET id_proiezione = $2 WHERE id_ordine = $1`

	result, err := r.db.Exec(ctx, query, orderID, screeningID)
	if err != nil {
		r.log.Error("Failed to move order to screening",
			zap.Error(err),
			zap.Int64("order_id", orderID),
			zap.Int64("screening_id", screeningID),
		)
		return fmt.Errorf("failed to update order screening: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", orderID)
	}

	return nil
}

// Delete removes the order. Its tickets go with it through ON DELETE CASCADE.
func (r *orderRepository) Delete(ctx context.Context, orderID int64) error {
	query := `DELETE FROM ordine WHERE id_ordine = $1`

	result, err := r.db.Exec(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to delete order",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", orderID)
	}

	return nil
}
