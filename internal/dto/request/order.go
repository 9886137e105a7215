package request

// MaxTicketsPerOrder caps how many seats one order may hold
const MaxTicketsPerOrder = 10

// TicketRequest is one seat, optionally held under a guest's name
type TicketRequest struct {
	SeatID         int64   `json:"id_posto" validate:"required,gt=0"`
	GuestFirstName *string `json:"nome_ospite,omitempty" validate:"omitempty,max=50"`
	GuestLastName  *string `json:"cognome_ospite,omitempty" validate:"omitempty,max=50"`
}

type PurchaseRequest struct {
	ScreeningID int64           `json:"id_proiezione" validate:"required,gt=0"`
	Tickets     []TicketRequest `json:"biglietti" validate:"required,min=1,max=10,dive"`
}

type RemoveSeatRequest struct {
	SeatID int64 `json:"id_posto" validate:"required,gt=0"`
}

// ChangeSeatsRequest moves every ticket of an order to new seats of the
// same screening. NewSeats is matched to the tickets in ticket id order.
type ChangeSeatsRequest struct {
	OrderID  int64           `json:"order_id" validate:"required,gt=0"`
	NewSeats []TicketRequest `json:"new_seats" validate:"required,min=1,max=10,dive"`
}

type ChangeScreeningRequest struct {
	OrderID        int64           `json:"order_id" validate:"required,gt=0"`
	NewScreeningID int64           `json:"new_projection_id" validate:"required,gt=0"`
	NewSeats       []TicketRequest `json:"new_seats" validate:"required,min=1,max=10,dive"`
}
