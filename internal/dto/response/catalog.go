package response

import "time"

type FilmResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"titolo"`
	Director    string   `json:"regista"`
	PosterURL   string   `json:"url_copertina"`
	Runtime     *int32   `json:"durata"`
	Description string   `json:"descrizione"`
	Genres      []string `json:"generi"`
}

type ScreeningResponse struct {
	ID       int64     `json:"id"`
	StartsAt time.Time `json:"data_ora"`
	Price    float64   `json:"costo"`
	Room     string    `json:"sala"`
}

type ScreeningListResponse struct {
	Screenings []ScreeningResponse `json:"proiezioni"`
}

type SeatResponse struct {
	ID     int64  `json:"id"`
	Row    string `json:"fila"`
	Number int32  `json:"numero"`
}

type OccupiedSeatResponse struct {
	Row    string `json:"fila"`
	Number int32  `json:"numero"`
}
