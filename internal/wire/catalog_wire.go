package wire

import (
	"cinema-pegasus/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	// GET /api/films - all films by title
	r.Get("/films", catalogHandler.GetFilms)
	r.Get("/films/genres", catalogHandler.GetGenres)
	r.Get("/films/{id}", catalogHandler.GetFilm)

	// GET /api/proiezioni?film_id=X - upcoming screenings of a film
	r.Get("/proiezioni", catalogHandler.GetUpcomingScreenings)
	r.Get("/proiezioni/{filmId}", catalogHandler.GetFilmScreenings)

	r.Get("/posti/{screeningId}", catalogHandler.GetSeats)
	r.Get("/posti/occupati/{screeningId}", catalogHandler.GetOccupiedSeats)
}
