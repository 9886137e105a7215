// Package ticketpdf renders the printable tickets of an order: one Letter
// page per ticket with the cinema logo, the film poster, the screening
// details and a QR code for the entrance scanner.
package ticketpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-pegasus/pkg/utils"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// ErrNoTickets is returned when Render is called with an empty list
var ErrNoTickets = errors.New("cannot generate PDF: no tickets")

const (
	pageWidth  = 8.5 // inches, Letter
	margin     = 0.75
	logoSize   = 1.5
	posterW    = 3.0
	posterH    = 4.0
	qrSize     = 1.5
	qrPixels   = 300
	titleSize  = 16
	textSize   = 12
	lineHeight = 0.28
	brand      = "CINEMA PEGASUS"
)

// TicketInfo is everything printed on one ticket page
type TicketInfo struct {
	TicketID       int64
	FilmTitle      string
	PosterURL      string
	RoomName       string
	StartsAt       time.Time
	SeatRow        string
	SeatNumber     int32
	GuestFirstName string
	GuestLastName  string
	UserFirstName  string
	UserLastName   string
}

// HolderName prefers the guest's names and falls back to the buyer's,
// field by field.
func (t TicketInfo) HolderName() string {
	first := t.GuestFirstName
	if first == "" {
		first = t.UserFirstName
	}
	last := t.GuestLastName
	if last == "" {
		last = t.UserLastName
	}
	return strings.TrimSpace(first + " " + last)
}

// QRContent is the text encoded in the ticket's QR code, with the start
// time shown in loc like the rest of the page.
func (t TicketInfo) QRContent(loc *time.Location) string {
	return fmt.Sprintf("Ticket ID: %d, Film: %s, Date: %s",
		t.TicketID, t.FilmTitle, t.StartsAt.In(loc).Format("2006-01-02 15:04:05"))
}

type Renderer struct {
	fetcher  ImageFetcher
	logoURL  string
	location *time.Location
	log      *zap.Logger
}

func NewRenderer(fetcher ImageFetcher, logoURL string, location *time.Location, log *zap.Logger) *Renderer {
	if location == nil {
		location = time.Local
	}
	return &Renderer{
		fetcher:  fetcher,
		logoURL:  logoURL,
		location: location,
		log:      log.With(zap.String("component", "ticketpdf")),
	}
}

// Render builds the PDF for an order and returns it in memory
func (r *Renderer) Render(ctx context.Context, orderID int64, tickets []TicketInfo) ([]byte, error) {
	pdf, err := r.build(ctx, orderID, tickets)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.log.Error("Failed to write PDF", zap.Error(err), zap.Int64("order_id", orderID))
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) build(ctx context.Context, orderID int64, tickets []TicketInfo) (*fpdf.Fpdf, error) {
	if len(tickets) == 0 {
		return nil, ErrNoTickets
	}

	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(fmt.Sprintf("Order %d - %s", orderID, brand), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// every distinct image is downloaded and registered once per document
	images := map[string]string{}
	imageFor := func(url string) (string, bool) {
		if url == "" {
			return "", false
		}
		if name, seen := images[url]; seen {
			return name, name != ""
		}
		name := r.registerImage(ctx, pdf, fmt.Sprintf("img%d", len(images)), url)
		images[url] = name
		return name, name != ""
	}

	for _, t := range tickets {
		pdf.AddPage()
		y := margin

		if name, ok := imageFor(r.logoURL); ok {
			pdf.ImageOptions(name, pageWidth-margin-logoSize, y, logoSize, logoSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			y += logoSize + 0.1
		}

		if name, ok := imageFor(t.PosterURL); ok {
			pdf.ImageOptions(name, (pageWidth-posterW)/2, y, posterW, posterH, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			y += posterH + 0.2
		}

		startsAt := t.StartsAt.In(r.location)

		pdf.SetXY(margin, y)
		pdf.SetFont("Helvetica", "B", titleSize)
		pdf.CellFormat(0, 0.4, tr(fmt.Sprintf("Order ID: %d - %s", orderID, brand)), "", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", textSize)
		for _, line := range []string{
			"Film: " + t.FilmTitle,
			"Date: " + startsAt.Format("02/01/2006"),
			"Time: " + startsAt.Format("15:04"),
			"Room: " + t.RoomName,
		} {
			pdf.CellFormat(0, lineHeight, tr(line), "", 1, "C", false, 0, "")
		}

		qr, err := utils.GenerateQRCode(t.QRContent(r.location), qrPixels)
		if err != nil {
			return nil, fmt.Errorf("generate qr code for ticket %d: %w", t.TicketID, err)
		}
		qrName := fmt.Sprintf("qr%d", t.TicketID)
		pdf.RegisterImageOptionsReader(qrName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
		pdf.ImageOptions(qrName, (pageWidth-qrSize)/2, pdf.GetY()+0.1, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetY(pdf.GetY() + 0.1 + qrSize + 0.1)

		pdf.CellFormat(0, lineHeight, tr("Name: "+t.HolderName()), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, lineHeight, tr(fmt.Sprintf("Seat: %s%d", t.SeatRow, t.SeatNumber)), "", 1, "C", false, 0, "")

		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("render ticket %d: %w", t.TicketID, err)
		}
	}

	return pdf, nil
}

// registerImage downloads url and registers it under name. Any failure is
// logged and reported as "" so the page is rendered without that image.
func (r *Renderer) registerImage(ctx context.Context, pdf *fpdf.Fpdf, name, url string) string {
	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.log.Warn("Failed to fetch image", zap.String("url", url), zap.Error(err))
		return ""
	}

	normalized, err := normalizePNG(data)
	if err != nil {
		r.log.Warn("Failed to decode image", zap.String("url", url), zap.Error(err))
		return ""
	}

	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(normalized))
	return name
}
