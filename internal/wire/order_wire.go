package wire

import (
	"cinema-pegasus/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOrder(r chi.Router, orderHandler *adaptor.OrderHandler, g guards) {
	r.Route("/ordini", func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/", orderHandler.ListOrders)
		r.Delete("/{id}", orderHandler.DeleteOrder)
		r.Delete("/tickets/{id}", orderHandler.RemoveTicket)
		r.Post("/{id}/aggiungi-posto", orderHandler.AddSeat)
		r.Post("/{id}/rimuovi-posto", orderHandler.RemoveSeat)
		r.Post("/change-seats", orderHandler.ChangeSeats)
		r.Post("/change-projection-and-seats", orderHandler.ChangeScreening)
	})
}
