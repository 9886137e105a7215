package usecase

import (
	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/internal/dto/response"
	"cinema-pegasus/pkg/ticketpdf"
)

func toFilmResponse(f *entity.Film) response.FilmResponse {
	genres := f.Genres
	if genres == nil {
		genres = []string{}
	}
	return response.FilmResponse{
		ID:          f.ID,
		Title:       f.Title,
		Director:    f.Director,
		PosterURL:   f.PosterURL,
		Runtime:     f.Runtime,
		Description: f.Description,
		Genres:      genres,
	}
}

func toScreeningResponse(s *entity.ScreeningDetail) response.ScreeningResponse {
	return response.ScreeningResponse{
		ID:       s.ID,
		StartsAt: s.StartsAt,
		Price:    s.Price.InexactFloat64(),
		Room:     s.RoomName,
	}
}

func toTicketResponse(d *entity.TicketDetail) response.TicketResponse {
	return response.TicketResponse{
		ID:            d.ID,
		FilmTitle:     d.FilmTitle,
		FilmPosterURL: d.FilmPosterURL,
		RoomName:      d.RoomName,
		StartsAt:      d.StartsAt,
		Price:         d.Price.InexactFloat64(),
		Seats: []response.TicketSeatResponse{{
			ID:             d.SeatID,
			Row:            d.SeatRow,
			Number:         d.SeatNumber,
			GuestFirstName: d.GuestFirstName,
			GuestLastName:  d.GuestLastName,
		}},
		PDFURL: d.PDFURL,
	}
}

func toOrderResponse(o *entity.OrderDetail, tickets []*entity.TicketDetail) response.OrderResponse {
	resp := response.OrderResponse{
		ID:          o.ID,
		PurchasedAt: o.PurchasedAt,
		PDFURL:      o.PDFURL,
		Screening: response.OrderScreeningResponse{
			ID:        o.ScreeningID,
			FilmID:    o.FilmID,
			FilmTitle: o.FilmTitle,
			StartsAt:  o.StartsAt,
			Price:     o.Price.InexactFloat64(),
		},
		Tickets: make([]response.TicketResponse, 0, len(tickets)),
	}
	for _, t := range tickets {
		resp.Tickets = append(resp.Tickets, toTicketResponse(t))
	}
	return resp
}

func toTicketInfo(d *entity.TicketDetail) ticketpdf.TicketInfo {
	return ticketpdf.TicketInfo{
		TicketID:       d.ID,
		FilmTitle:      d.FilmTitle,
		PosterURL:      d.FilmPosterURL,
		RoomName:       d.RoomName,
		StartsAt:       d.StartsAt,
		SeatRow:        d.SeatRow,
		SeatNumber:     d.SeatNumber,
		GuestFirstName: deref(d.GuestFirstName),
		GuestLastName:  deref(d.GuestLastName),
		UserFirstName:  d.UserFirstName,
		UserLastName:   d.UserLastName,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
