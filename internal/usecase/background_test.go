package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinema-pegasus/internal/dto/request"
	"cinema-pegasus/pkg/mailer"

	"go.uber.org/zap"
)

type blockingMailer struct {
	release chan struct{}

	mu   sync.Mutex
	sent []mailer.OrderConfirmation
}

func (m *blockingMailer) SendOrderConfirmation(ctx context.Context, to string, data mailer.OrderConfirmation) error {
	<-m.release
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}

func TestBackground_Wait(t *testing.T) {
	bg := NewBackground()
	release := make(chan struct{})
	bg.Go(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := bg.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait with a running job = %v, want deadline exceeded", err)
	}

	close(release)
	if err := bg.Wait(context.Background()); err != nil {
		t.Fatalf("Wait after release: %v", err)
	}
}

func TestPurchase_ConfirmationIsDrainedBeforeShutdown(t *testing.T) {
	h := newOrderHarness()
	mail := &blockingMailer{release: make(chan struct{})}
	bg := NewBackground()
	svc := NewOrderService(OrderDeps{
		Tx:         h.tx,
		Repo:       h.st.repository(),
		Renderer:   h.renderer,
		Uploader:   h.uploader,
		Publisher:  h.publisher,
		Mailer:     mail,
		Background: bg,
		Now:        func() time.Time { return h.now },
	}, zap.NewNop())

	resp, err := svc.Purchase(context.Background(), 1, &request.PurchaseRequest{
		ScreeningID: 10,
		Tickets:     seats(3, 4),
	})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := bg.Wait(ctx); err == nil {
		t.Fatal("Wait returned while the confirmation mail was still pending")
	}

	close(mail.release)
	if err := bg.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	mail.mu.Lock()
	defer mail.mu.Unlock()
	if len(mail.sent) != 1 || mail.sent[0].OrderID != resp.OrderID || len(mail.sent[0].Seats) != 2 {
		t.Fatalf("sent = %+v", mail.sent)
	}
}
