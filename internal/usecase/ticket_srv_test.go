package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestListTickets_SplitsUpcomingAndPast(t *testing.T) {
	h := newOrderHarness()
	h.st.addOrder(1, 10, 1)
	h.st.addOrder(1, 12, 2, 3)
	h.st.addOrder(2, 11, 4)

	svc := NewTicketService(h.st.repository(), func() time.Time { return h.now }, zap.NewNop())
	resp, err := svc.ListTickets(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(resp.Upcoming) != 1 || len(resp.Past) != 2 {
		t.Fatalf("upcoming = %d, past = %d", len(resp.Upcoming), len(resp.Past))
	}

	up := resp.Upcoming[0]
	if up.FilmTitle != "Dune" || up.RoomName != "Sala 1" || up.Price != 8.5 {
		t.Errorf("upcoming ticket = %+v", up)
	}
	if len(up.Seats) != 1 || up.Seats[0].Row != "A" || up.Seats[0].Number != 1 {
		t.Errorf("seats = %+v", up.Seats)
	}
}

func TestListTickets_EmptyListsAreNotNil(t *testing.T) {
	h := newOrderHarness()
	svc := NewTicketService(h.st.repository(), nil, zap.NewNop())

	resp, err := svc.ListTickets(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if resp.Upcoming == nil || resp.Past == nil {
		t.Errorf("lists must be empty, not nil: %+v", resp)
	}
}

func TestListPDFs(t *testing.T) {
	h := newOrderHarness()
	withPDF, _ := h.st.addOrder(1, 10, 1)
	h.st.addOrder(1, 11, 2)
	url := "https://cdn.test/a.pdf"
	o := h.st.orders[withPDF]
	o.PDFURL = &url
	h.st.orders[withPDF] = o

	svc := NewTicketService(h.st.repository(), nil, zap.NewNop())
	resp, err := svc.ListPDFs(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPDFs: %v", err)
	}
	if len(resp.PDFURLs) != 1 || resp.PDFURLs[0] != url {
		t.Errorf("pdf urls = %v", resp.PDFURLs)
	}

	empty, err := svc.ListPDFs(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListPDFs: %v", err)
	}
	if empty.PDFURLs == nil {
		t.Errorf("pdf urls must be an empty list")
	}
}

func TestGetPDFURL(t *testing.T) {
	h := newOrderHarness()
	withPDF, printed := h.st.addOrder(1, 10, 1)
	_, unprinted := h.st.addOrder(1, 11, 2)
	url := "https://cdn.test/a.pdf"
	o := h.st.orders[withPDF]
	o.PDFURL = &url
	h.st.orders[withPDF] = o

	svc := NewTicketService(h.st.repository(), nil, zap.NewNop())

	tests := []struct {
		name     string
		userID   int64
		ticketID int64
		want     string
		wantErr  error
	}{
		{name: "printed", userID: 1, ticketID: printed[0], want: url},
		{name: "no pdf yet", userID: 1, ticketID: unprinted[0], wantErr: ErrNotFound},
		{name: "other user", userID: 2, ticketID: printed[0], wantErr: ErrNotFound},
		{name: "unknown ticket", userID: 1, ticketID: 999, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetPDFURL(context.Background(), tt.userID, tt.ticketID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.PDFURL != tt.want {
				t.Errorf("pdf url = %q, want %q", resp.PDFURL, tt.want)
			}
		})
	}
}
