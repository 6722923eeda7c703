// Package qr renders room-join QR codes for the join-convenience
// endpoint.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Generator builds join-code QR images against a configured base URL,
// e.g. "https://partyhost.example.com/join".
type Generator struct {
	baseURL string
}

// New creates a Generator that encodes join URLs under baseURL.
func New(baseURL string) *Generator {
	return &Generator{baseURL: baseURL}
}

// JoinCode renders a PNG QR code encoding the join URL for roomID.
func (g *Generator) JoinCode(roomID string) ([]byte, error) {
	url := fmt.Sprintf("%s?roomId=%s", g.baseURL, roomID)
	return qrcode.Encode(url, qrcode.Medium, 256)
}
