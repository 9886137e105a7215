package adaptor

import (
	"net/http"

	"cinema-pegasus/internal/usecase"
	"cinema-pegasus/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the public film, screening and seat listings
type CatalogHandler struct {
	films      usecase.FilmService
	screenings usecase.ScreeningService
	seats      usecase.SeatService
	log        *zap.Logger
}

func NewCatalogHandler(films usecase.FilmService, screenings usecase.ScreeningService, seats usecase.SeatService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		films:      films,
		screenings: screenings,
		seats:      seats,
		log:        log.With(zap.String("handler", "catalog")),
	}
}

// GetFilms handles GET /api/films
func (h *CatalogHandler) GetFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.GetFilms(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get films")
		return
	}
	utils.ResponseSuccess(w, "success", films)
}

// GetGenres handles GET /api/films/genres
func (h *CatalogHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.films.GetGenres(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get genres")
		return
	}
	utils.ResponseSuccess(w, "success", genres)
}

// GetFilm handles GET /api/films/{id}
func (h *CatalogHandler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, chi.URLParam(r, "id"), "film ID")
	if !ok {
		return
	}

	film, err := h.films.GetFilm(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get film")
		return
	}
	utils.ResponseSuccess(w, "success", film)
}

// GetUpcomingScreenings handles GET /api/proiezioni?film_id=X
func (h *CatalogHandler) GetUpcomingScreenings(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("film_id")
	if raw == "" {
		utils.ResponseBadRequest(w, "Film ID is required", nil)
		return
	}
	filmID, ok := pathID(w, raw, "film ID")
	if !ok {
		return
	}

	screenings, err := h.screenings.GetUpcoming(r.Context(), filmID)
	if err != nil {
		handleServiceError(w, h.log, err, "get upcoming screenings")
		return
	}
	utils.ResponseSuccess(w, "success", screenings)
}

// GetFilmScreenings handles GET /api/proiezioni/{filmId}
func (h *CatalogHandler) GetFilmScreenings(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(w, chi.URLParam(r, "filmId"), "film ID")
	if !ok {
		return
	}

	screenings, err := h.screenings.GetByFilm(r.Context(), filmID)
	if err != nil {
		handleServiceError(w, h.log, err, "get film screenings")
		return
	}
	utils.ResponseSuccess(w, "success", screenings)
}

// GetSeats handles GET /api/posti/{screeningId}
func (h *CatalogHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := pathID(w, chi.URLParam(r, "screeningId"), "screening ID")
	if !ok {
		return
	}

	seats, err := h.seats.GetSeats(r.Context(), screeningID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seats")
		return
	}
	utils.ResponseSuccess(w, "success", seats)
}

// GetOccupiedSeats handles GET /api/posti/occupati/{screeningId}
func (h *CatalogHandler) GetOccupiedSeats(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := pathID(w, chi.URLParam(r, "screeningId"), "screening ID")
	if !ok {
		return
	}

	seats, err := h.seats.GetOccupied(r.Context(), screeningID)
	if err != nil {
		handleServiceError(w, h.log, err, "get occupied seats")
		return
	}
	utils.ResponseSuccess(w, "success", seats)
}
