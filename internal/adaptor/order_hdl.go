package adaptor

import (
	"net/http"

	"cinema-pegasus/internal/dto/request"
	"cinema-pegasus/internal/usecase"
	"cinema-pegasus/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// Purchase handles POST /api/biglietti/acquisto (protected)
func (h *OrderHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.PurchaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Purchase(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "purchase")
		return
	}

	utils.ResponseSuccess(w, "Purchase completed", resp)
}

// ListOrders handles GET /api/ordini (protected)
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListOrders(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// RemoveTicket handles DELETE /api/ordini/tickets/{id} and
// DELETE /api/biglietti/tickets/{id} (protected)
func (h *OrderHandler) RemoveTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	ticketID, ok := pathID(w, chi.URLParam(r, "id"), "ticket ID")
	if !ok {
		return
	}

	resp, err := h.service.RemoveTicket(r.Context(), userID, ticketID)
	if err != nil {
		handleServiceError(w, h.log, err, "remove ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket successfully deleted", resp)
}

// RemoveSeat handles POST /api/ordini/{id}/rimuovi-posto (protected)
func (h *OrderHandler) RemoveSeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, chi.URLParam(r, "id"), "order ID")
	if !ok {
		return
	}

	var req request.RemoveSeatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.RemoveSeat(r.Context(), userID, orderID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "remove seat")
		return
	}

	utils.ResponseSuccess(w, "Seat removed", resp)
}

// AddSeat handles POST /api/ordini/{id}/aggiungi-posto (protected)
func (h *OrderHandler) AddSeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, chi.URLParam(r, "id"), "order ID")
	if !ok {
		return
	}

	var req request.TicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.AddSeat(r.Context(), userID, orderID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add seat")
		return
	}

	utils.ResponseSuccess(w, "Seat added", resp)
}

// ChangeSeats handles POST /api/ordini/change-seats (protected)
func (h *OrderHandler) ChangeSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.ChangeSeatsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.ChangeSeats(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "change seats")
		return
	}

	utils.ResponseSuccess(w, "Seats changed successfully", resp)
}

// ChangeScreening handles POST /api/ordini/change-projection-and-seats (protected)
func (h *OrderHandler) ChangeScreening(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.ChangeScreeningRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.ChangeScreening(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "change screening")
		return
	}

	utils.ResponseSuccess(w, "Screening and seats changed successfully", resp)
}

// DeleteOrder handles DELETE /api/ordini/{id} (protected)
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, chi.URLParam(r, "id"), "order ID")
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), userID, orderID); err != nil {
		handleServiceError(w, h.log, err, "delete order")
		return
	}

	utils.ResponseSuccess(w, "Order deleted", nil)
}
