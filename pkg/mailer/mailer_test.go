package mailer

import (
	"strings"
	"testing"
)

func TestRenderConfirmation(t *testing.T) {
	body, err := renderConfirmation(OrderConfirmation{
		OrderID:   31,
		FirstName: "Mario",
		FilmTitle: "Tom & Jerry <3>",
		RoomName:  "Sala 2",
		StartsAt:  "20/03/2025 20:30",
		Seats:     []string{"C7", "C8"},
		PDFURL:    "https://cdn.test/ticket31.pdf",
	})
	if err != nil {
		t.Fatalf("renderConfirmation: %v", err)
	}

	for _, want := range []string{
		"Ciao Mario",
		"#31",
		"Tom &amp; Jerry &lt;3&gt;",
		"C7, C8",
		`href="https://cdn.test/ticket31.pdf"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body misses %q", want)
		}
	}
}

func TestRenderConfirmation_WithoutPDF(t *testing.T) {
	body, err := renderConfirmation(OrderConfirmation{OrderID: 1, Seats: []string{"A1"}})
	if err != nil {
		t.Fatalf("renderConfirmation: %v", err)
	}
	if strings.Contains(body, "Scarica") {
		t.Error("download link rendered without a pdf url")
	}
}
