package response

import "time"

type PurchaseResponse struct {
	OrderID   int64    `json:"order_id"`
	TicketIDs []int64  `json:"ticket_ids"`
	PDFURLs   []string `json:"pdf_urls"`
}

// OrderUpdateResponse is returned by every mutation that regenerates the PDF
type OrderUpdateResponse struct {
	OrderID   int64   `json:"order_id"`
	TicketIDs []int64 `json:"ticket_ids"`
	PDFURL    string  `json:"pdf_url"`
}

type OrderScreeningResponse struct {
	ID        int64     `json:"id"`
	FilmID    int64     `json:"film_id"`
	FilmTitle string    `json:"film_titolo"`
	StartsAt  time.Time `json:"data_ora"`
	Price     float64   `json:"costo"`
}

type OrderResponse struct {
	ID          int64                  `json:"id"`
	PurchasedAt time.Time              `json:"data_acquisto"`
	PDFURL      *string                `json:"pdf_url"`
	Screening   OrderScreeningResponse `json:"proiezione"`
	Tickets     []TicketResponse       `json:"biglietti"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type TicketSeatResponse struct {
	ID             int64   `json:"id"`
	Row            string  `json:"fila"`
	Number         int32   `json:"numero"`
	GuestFirstName *string `json:"nome_ospite"`
	GuestLastName  *string `json:"cognome_ospite"`
}

type TicketResponse struct {
	ID            int64                `json:"id_biglietto"`
	FilmTitle     string               `json:"film_titolo"`
	FilmPosterURL string               `json:"film_copertina"`
	RoomName      string               `json:"sala_nome"`
	StartsAt      time.Time            `json:"data_ora"`
	Price         float64              `json:"costo"`
	Seats         []TicketSeatResponse `json:"posti"`
	PDFURL        *string              `json:"pdf_url"`
}

type TicketListResponse struct {
	Upcoming []TicketResponse `json:"upcoming_tickets"`
	Past     []TicketResponse `json:"past_tickets"`
}

type PDFListResponse struct {
	PDFURLs []string `json:"pdf_urls"`
}

type PDFURLResponse struct {
	PDFURL string `json:"pdf_url"`
}
