package invite

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of invite QR codes.
const DefaultQRSize = 256

// QRCode renders the invite URL of a token as a PNG, for sharing in person.
func (l *Linker) QRCode(token string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(l.InviteURL(token), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invite QR: %w", err)
	}
	return png, nil
}
