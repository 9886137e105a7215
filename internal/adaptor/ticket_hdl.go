package adaptor

import (
	"net/http"

	"cinema-pegasus/internal/usecase"
	"cinema-pegasus/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service usecase.TicketService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// ListTickets handles GET /api/biglietti (protected)
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tickets, err := h.service.ListTickets(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// ListPDFs handles GET /api/biglietti/pdfs (protected)
func (h *TicketHandler) ListPDFs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	pdfs, err := h.service.ListPDFs(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list ticket pdfs")
		return
	}

	utils.ResponseSuccess(w, "success", pdfs)
}

// GetPDFURL handles GET /api/biglietti/{id}/pdf-url (protected)
func (h *TicketHandler) GetPDFURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	ticketID, ok := pathID(w, chi.URLParam(r, "id"), "ticket ID")
	if !ok {
		return
	}

	pdf, err := h.service.GetPDFURL(r.Context(), userID, ticketID)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket pdf")
		return
	}

	utils.ResponseSuccess(w, "success", pdf)
}
