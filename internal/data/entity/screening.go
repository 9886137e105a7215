package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Screening struct {
	ID       int64           `db:"id_proiezione"`
	FilmID   int64           `db:"id_film"`
	RoomID   int64           `db:"id_sala"`
	StartsAt time.Time       `db:"data_ora"`
	Price    decimal.Decimal `db:"costo"`
}

// IsPast reports whether the screening has already started at now.
// Orders and tickets of a past screening are frozen.
func (s Screening) IsPast(now time.Time) bool {
	return !s.StartsAt.After(now)
}

// ScreeningDetail is a screening joined with its film and room
type ScreeningDetail struct {
	Screening
	FilmTitle string `db:"titolo"`
	RoomName  string `db:"nome"`
}
