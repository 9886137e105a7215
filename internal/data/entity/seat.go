package entity

import "fmt"

type Seat struct {
	ID     int64  `db:"id_posto"`
	RoomID int64  `db:"id_sala"`
	Row    string `db:"fila"`
	Number int32  `db:"numero"`
}

// Label is the printed seat name, e.g. "C7"
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}
