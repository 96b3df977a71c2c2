package port

import "context"

// ReceiptPrinter hands receipt text to a print subsystem.
type ReceiptPrinter interface {
	Print(ctx context.Context, text string) (string, error)
}

// CodeRenderer turns a payment-request URI into image bytes.
type CodeRenderer interface {
	Render(uri string) ([]byte, error)
}
