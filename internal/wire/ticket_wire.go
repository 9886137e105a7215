package wire

import (
	"cinema-pegasus/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTicket(r chi.Router, ticketHandler *adaptor.TicketHandler, orderHandler *adaptor.OrderHandler, g guards) {
	r.Route("/biglietti", func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/acquisto", orderHandler.Purchase)
		r.Get("/", ticketHandler.ListTickets)
		r.Get("/pdfs", ticketHandler.ListPDFs)
		r.Get("/{id}/pdf-url", ticketHandler.GetPDFURL)
		r.Delete("/tickets/{id}", orderHandler.RemoveTicket)
	})
}
