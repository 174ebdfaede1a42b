package services

import (
	"fmt"
	"os"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRService renders QR tag images pointing at a card's public scan URL
type QRService struct {
	publicBaseURL string
}

func NewQRService() *QRService {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return &QRService{publicBaseURL: strings.TrimSuffix(base, "/")}
}

// ScanURL returns the public scan URL encoded into a card's tag
func (s *QRService) ScanURL(cardID string) string {
	return fmt.Sprintf("%s/public/cards/%s", s.publicBaseURL, cardID)
}

// GenerateCardTag renders the QR PNG for a card. Size is the image edge
// in pixels; values below 64 are raised to 256.
func (s *QRService) GenerateCardTag(cardID string, size int) ([]byte, error) {
	if size < 64 {
		size = 256
	}
	png, err := qrcode.Encode(s.ScanURL(cardID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR tag: %w", err)
	}
	return png, nil
}
