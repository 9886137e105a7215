package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestLocalUploader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdf")
	u, err := NewLocalUploader(dir, "http://localhost:8080/files/", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalUploader: %v", err)
	}

	url, err := u.UploadPDF(context.Background(), []byte("first"), "ticket1220250101120000")
	if err != nil {
		t.Fatalf("UploadPDF: %v", err)
	}
	if url != "http://localhost:8080/files/ticket1220250101120000.pdf" {
		t.Errorf("url = %q", url)
	}

	// same id replaces the file
	if _, err := u.UploadPDF(context.Background(), []byte("second"), "ticket1220250101120000"); err != nil {
		t.Fatalf("UploadPDF: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(u.Dir(), "ticket1220250101120000.pdf"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir holds %d entries, want 1", len(entries))
	}
}

func TestLocalUploader_RejectsUnsafeIDs(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "http://localhost/files", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalUploader: %v", err)
	}

	for _, id := range []string{"../escape", "a/b", "", "name.pdf"} {
		if _, err := u.UploadPDF(context.Background(), []byte("x"), id); err == nil {
			t.Errorf("UploadPDF(%q) should fail", id)
		}
	}
}

func TestLocalUploader_CanceledContext(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "http://localhost/files", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalUploader: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := u.UploadPDF(ctx, []byte("x"), "ticket1"); err == nil {
		t.Error("expected context error")
	}
}
