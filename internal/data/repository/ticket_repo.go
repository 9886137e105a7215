package repository

import (
	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/pkg/database"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TicketRepository interface {
	// CreateBatch inserts the tickets in order and sets their IDs
	CreateBatch(ctx context.Context, tickets []*entity.Ticket) error
	FindByIDForUser(ctx context.Context, ticketID, userID int64) (*entity.Ticket, error)
	FindByOrder(ctx context.Context, orderID int64) ([]*entity.Ticket, error)
	// FindOccupiedSeatIDs returns the seats sold for a screening. Tickets of
	// excludeOrderID, when set, do not count as occupied.
	FindOccupiedSeatIDs(ctx context.Context, screeningID int64, excludeOrderID *int64) ([]int64, error)
	Reassign(ctx context.Context, ticket *entity.Ticket) error
	Delete(ctx context.Context, ticketID int64) error
	FindDetailsByOrder(ctx context.Context, orderID int64) ([]*entity.TicketDetail, error)
	FindDetailsByOrders(ctx context.Context, orderIDs []int64) ([]*entity.TicketDetail, error)
	FindDetailsByUser(ctx context.Context, userID int64) ([]*entity.TicketDetail, error)
}

type ticketRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTicketRepository(db database.Querier, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	query := `
		INSERT INTO biglietto (id_proiezione, id_utente, id_posto, id_ordine,
		                       nome_ospite, cognome_ospite)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_biglietto
	`

	for _, t := range tickets {
		err := r.db.QueryRow(ctx, query,
			t.ScreeningID,
			t.UserID,
			t.SeatID,
			t.OrderID,
			t.GuestFirstName,
			t.GuestLastName,
		).Scan(&t.ID)

		if database.IsUniqueViolation(err, seatConstraint) {
			return fmt.Errorf("%w: seat %d", ErrSeatConflict, t.SeatID)
		}
		if err != nil {
			r.log.Error("Failed to create ticket",
				zap.Error(err),
				zap.Int64("order_id", t.OrderID),
				zap.Int64("seat_id", t.SeatID),
			)
			return fmt.Errorf("failed to create ticket: %w", err)
		}
	}

	return nil
}

func (r *ticketRepository) FindByIDForUser(ctx context.Context, ticketID, userID int64) (*entity.Ticket, error) {
	query := `
		SELECT id_biglietto, id_proiezione, id_utente, id_posto, id_ordine,
		       nome_ospite, cognome_ospite
		FROM biglietto
		WHERE id_biglietto = $1 AND id_utente = $2
	`

	var t entity.Ticket
	err := r.db.QueryRow(ctx, query, ticketID, userID).Scan(
		&t.ID,
		&t.ScreeningID,
		&t.UserID,
		&t.SeatID,
		&t.OrderID,
		&t.GuestFirstName,
		&t.GuestLastName,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.Int64("ticket_id", ticketID),
		)
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return &t, nil
}

func (r *ticketRepository) FindByOrder(ctx context.Context, orderID int64) ([]*entity.Ticket, error) {
	query := `
		SELECT id_biglietto, id_proiezione, id_utente, id_posto, id_ordine,
		       nome_ospite, cognome_ospite
		FROM biglietto
		WHERE id_ordine = $1
		ORDER BY id_biglietto
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to find tickets by order",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return nil, fmt.Errorf("failed to find tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var t entity.Ticket
		err := rows.Scan(
			&t.ID,
			&t.ScreeningID,
			&t.UserID,
			&t.SeatID,
			&t.OrderID,
			&t.GuestFirstName,
			&t.GuestLastName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}

	return tickets, rows.Err()
}

func (r *ticketRepository) FindOccupiedSeatIDs(ctx context.Context, screeningID int64, excludeOrderID *int64) ([]int64, error) {
	query := `
		SELECT id_posto
		FROM biglietto
		WHERE id_proiezione = $1
		  AND ($2::integer IS NULL OR id_ordine <> $2)
	`

	rows, err := r.db.Query(ctx, query, screeningID, excludeOrderID)
	if err != nil {
		r.log.Error("Failed to find occupied seat IDs",
			zap.Error(err),
			zap.Int64("screening_id", screeningID),
		)
		return nil, fmt.Errorf("failed to find occupied seats: %w", err)
	}
	defer rows.Close()

	var seatIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan seat id: %w", err)
		}
		seatIDs = append(seatIDs, id)
	}

	return seatIDs, rows.Err()
}

// Reassign moves a ticket to ticket.ScreeningID / ticket.SeatID and stores
// its guest names.
func (r *ticketRepository) Reassign(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		UPDATE biglietto
		SET id_proiezione = $2, id_posto = $3, nome_ospite = $4, cognome_ospite = $5
		WHERE id_biglietto = $1
	`

	result, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.ScreeningID,
		ticket.SeatID,
		ticket.GuestFirstName,
		ticket.GuestLastName,
	)

	if database.IsUniqueViolation(err, seatConstraint) {
		return fmt.Errorf("%w: seat %d", ErrSeatConflict, ticket.SeatID)
	}
	if err != nil {
		r.log.Error("Failed to reassign ticket",
			zap.Error(err),
			zap.Int64("ticket_id", ticket.ID),
		)
		return fmt.Errorf("failed to reassign ticket: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d not found", ticket.ID)
	}

	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, ticketID int64) error {
	query := `DELETE FROM biglietto WHERE id_biglietto = $1`

	result, err := r.db.Exec(ctx, query, ticketID)
	if err != nil {
		r.log.Error("Failed to delete ticket",
			zap.Error(err),
			zap.Int64("ticket_id", ticketID),
		)
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d not found", ticketID)
	}

	return nil
}

const ticketDetailQuery = `
	SELECT b.id_biglietto, b.id_proiezione, b.id_utente, b.id_posto, b.id_ordine,
	       b.nome_ospite, b.cognome_ospite,
	       f.titolo, f.url_copertina, s.nome, p.data_ora, p.costo,
	       po.fila, po.numero, o.pdf_url, u.nome, u.cognome
	FROM biglietto b
	INNER JOIN proiezione p ON p.id_proiezione = b.id_proiezione
	INNER JOIN film f ON f.id_film = p.id_film
	INNER JOIN sala s ON s.id_sala = p.id_sala
	INNER JOIN posto po ON po.id_posto = b.id_posto
	INNER JOIN ordine o ON o.id_ordine = b.id_ordine
	INNER JOIN utente u ON u.id_utente = b.id_utente
`

func (r *ticketRepository) FindDetailsByOrder(ctx context.Context, orderID int64) ([]*entity.TicketDetail, error) {
	return r.findDetails(ctx, ticketDetailQuery+` WHERE b.id_ordine = $1 ORDER BY b.id_biglietto`, orderID)
}

func (r *ticketRepository) FindDetailsByOrders(ctx context.Context, orderIDs []int64) ([]*entity.TicketDetail, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	return r.findDetails(ctx, ticketDetailQuery+` WHERE b.id_ordine = ANY($1) ORDER BY b.id_ordine, b.id_biglietto`, orderIDs)
}

func (r *ticketRepository) FindDetailsByUser(ctx context.Context, userID int64) ([]*entity.TicketDetail, error) {
	return r.findDetails(ctx, ticketDetailQuery+` WHERE b.id_utente = $1 ORDER BY p.data_ora, b.id_biglietto`, userID)
}

func (r *ticketRepository) findDetails(ctx context.Context, query string, arg any) ([]*entity.TicketDetail, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		r.log.Error("Failed to find ticket details",
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("failed to find ticket details: %w", err)
	}
	defer rows.Close()

	var details []*entity.TicketDetail
	for rows.Next() {
		var d entity.TicketDetail
		err := rows.Scan(
			&d.ID,
			&d.ScreeningID,
			&d.UserID,
			&d.SeatID,
			&d.OrderID,
			&d.GuestFirstName,
			&d.GuestLastName,
			&d.FilmTitle,
			&d.FilmPosterURL,
			&d.RoomName,
			&d.StartsAt,
			&d.Price,
			&d.SeatRow,
			&d.SeatNumber,
			&d.PDFURL,
			&d.UserFirstName,
			&d.UserLastName,
		)
		if err != nil {
			r.log.Error("Failed to scan ticket detail row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan ticket detail: %w", err)
		}
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return details, nil
}
