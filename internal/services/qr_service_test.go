package services

import (
	"bytes"
	"testing"
)

func TestScanURLPointsAtPublicRoute(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://assets.example.com/")

	svc := NewQRService()
	got := svc.ScanURL("abc-123")
	if got != "https://assets.example.com/public/cards/abc-123" {
		t.Errorf("unexpected scan URL %q", got)
	}
}

func TestGenerateCardTagProducesPNG(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://assets.example.com")

	svc := NewQRService()
	png, err := svc.GenerateCardTag("abc-123", 0)
	if err != nil {
		t.Fatalf("GenerateCardTag: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected a PNG image")
	}
}
