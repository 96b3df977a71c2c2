package payment

import (
	"fmt"

	"github.com/nikolayk812/ownmart-pos/internal/domain"
	qrcode "github.com/skip2/go-qrcode"
)

const DefaultCodeSize = 256

// QRRenderer turns a payment-request URI into a square PNG QR code.
type QRRenderer struct {
	Size  int
	Level qrcode.RecoveryLevel
}

func NewQRRenderer(size int) QRRenderer {
	if size <= 0 {
		size = DefaultCodeSize
	}

	return QRRenderer{Size: size, Level: qrcode.Medium}
}

func (r QRRenderer) Render(uri string) ([]byte, error) {
	if uri == "" {
		return nil, fmt.Errorf("uri is empty: %w", domain.ErrEncodingFailure)
	}

	size := r.Size
	if size <= 0 {
		size = DefaultCodeSize
	}

	png, err := qrcode.Encode(uri, r.Level, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode.Encode: %w: %w", domain.ErrEncodingFailure, err)
	}

	return png, nil
}
