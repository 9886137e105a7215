package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          int64     `db:"id_ordine"`
	UserID      int64     `db:"id_utente"`
	ScreeningID int64     `db:"id_proiezione"`
	PurchasedAt time.Time `db:"data_acquisto"`
	PDFURL      *string   `db:"pdf_url"`
}

// OrderDetail is an order with the screening it is booked for
type OrderDetail struct {
	Order
	FilmID    int64
	FilmTitle string
	RoomName  string
	StartsAt  time.Time
	Price     decimal.Decimal
}
