package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID             int64   `db:"id_biglietto"`
	ScreeningID    int64   `db:"id_proiezione"`
	UserID         int64   `db:"id_utente"`
	SeatID         int64   `db:"id_posto"`
	OrderID        int64   `db:"id_ordine"`
	GuestFirstName *string `db:"nome_ospite"`
	GuestLastName  *string `db:"cognome_ospite"`
}

// TicketDetail is a ticket with everything needed to print or list it
type TicketDetail struct {
	Ticket
	FilmTitle     string
	FilmPosterURL string
	RoomName      string
	StartsAt      time.Time
	Price         decimal.Decimal
	SeatRow       string
	SeatNumber    int32
	PDFURL        *string
	UserFirstName string
	UserLastName  string
}
