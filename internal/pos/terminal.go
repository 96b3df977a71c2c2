// Package pos is the headless checkout terminal: the actions a cashier's
// form triggers, wired to the cart store, pricing, receipt and payment code.
package pos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/ownmart-pos/internal/catalog"
	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/nikolayk812/ownmart-pos/internal/obs"
	"github.com/nikolayk812/ownmart-pos/internal/payment"
	"github.com/nikolayk812/ownmart-pos/internal/port"
	"github.com/nikolayk812/ownmart-pos/internal/pricing"
	"github.com/nikolayk812/ownmart-pos/internal/receipt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Config struct {
	Catalog   *catalog.Catalog
	Carts     port.CartRepository
	Policy    pricing.Policy
	Formatter *receipt.Formatter
	Payments  payment.Builder
	Renderer  port.CodeRenderer
	Printer   port.ReceiptPrinter
	Metrics   *obs.Metrics
	Logger    zerolog.Logger
}

// PaymentCode is a payment-request URI and its rendered image.
type PaymentCode struct {
	URI    string
	Amount decimal.Decimal
	PNG    []byte
}

// Terminal serves one cashier and is not safe for concurrent use. Carts live
// in the repository keyed by the terminal's session id.
type Terminal struct {
	sessionID string

	catalog   *catalog.Catalog
	carts     port.CartRepository
	policy    pricing.Policy
	formatter *receipt.Formatter
	payments  payment.Builder
	renderer  port.CodeRenderer
	printer   port.ReceiptPrinter
	metrics   *obs.Metrics
	// base has no session_id; logger is derived from it per session.
	base   zerolog.Logger
	logger zerolog.Logger
}

func NewTerminal(cfg Config) (*Terminal, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if cfg.Carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if cfg.Printer == nil {
		return nil, fmt.Errorf("printer is nil")
	}
	for _, e := range cfg.Catalog.Entries() {
		if e.UnitPrice.Currency != cfg.Payments.Currency {
			return nil, fmt.Errorf("payment currency[%s] does not match item[%s] currency[%s]",
				cfg.Payments.Currency, e.Name, e.UnitPrice.Currency)
		}
	}

	policy := cfg.Policy
	if policy == (pricing.Policy{}) {
		policy = pricing.DefaultPolicy()
	}

	formatter := cfg.Formatter
	if formatter == nil {
		formatter = receipt.NewFormatter(receipt.WithPolicy(policy))
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = obs.NewMetrics("pos", prometheus.NewRegistry())
	}

	t := &Terminal{
		sessionID: uuid.NewString(),
		catalog:   cfg.Catalog,
		carts:     cfg.Carts,
		policy:    policy,
		formatter: formatter,
		payments:  cfg.Payments,
		renderer:  cfg.Renderer,
		printer:   cfg.Printer,
		metrics:   metrics,
		base:      cfg.Logger,
	}
	t.logger = t.sessionLogger()

	return t, nil
}

func (t *Terminal) SessionID() string {
	return t.sessionID
}

func (t *Terminal) Items() []catalog.Entry {
	return t.catalog.Entries()
}

// ItemAt resolves a 1-based position in the item list.
func (t *Terminal) ItemAt(n int) (catalog.Entry, error) {
	entries := t.catalog.Entries()
	if n < 1 || n > len(entries) {
		return catalog.Entry{}, fmt.Errorf("item #%d: %w", n, domain.ErrUnknownItem)
	}

	return entries[n-1], nil
}

// UnitPrice returns the formatted unit price shown next to the item selector.
func (t *Terminal) UnitPrice(name string) (string, error) {
	price, err := t.catalog.PriceOf(name)
	if err != nil {
		return "", err
	}

	return t.formatter.FormatMoney(price.Amount), nil
}

// Add parses qtyText as typed by the cashier and appends the item.
func (t *Terminal) Add(ctx context.Context, name, qtyText string) (domain.LineItem, error) {
	item, err := t.add(ctx, name, qtyText)
	t.record("add", err)
	if err != nil {
		t.logger.Warn().Err(err).Str("item", name).Str("qty", qtyText).Msg("add item rejected")
		return domain.LineItem{}, err
	}

	t.logger.Info().
		Str("item", item.ItemName).
		Int("qty", item.Quantity).
		Str("line_total", item.LineTotal.Amount.StringFixed(2)).
		Msg("item added")

	return item, nil
}

func (t *Terminal) add(ctx context.Context, name, qtyText string) (domain.LineItem, error) {
	if name == "" {
		return domain.LineItem{}, fmt.Errorf("no item selected: %w", domain.ErrUnknownItem)
	}

	qty, err := domain.ParseQuantity(qtyText)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("domain.ParseQuantity: %w", err)
	}

	item, err := t.carts.AddItem(ctx, t.sessionID, name, qty)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("carts.AddItem: %w", err)
	}

	return item, nil
}

func (t *Terminal) RemoveLast(ctx context.Context) (domain.LineItem, error) {
	item, err := t.carts.RemoveLast(ctx, t.sessionID)
	t.record("remove_last", err)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("carts.RemoveLast: %w", err)
	}

	t.logger.Info().Str("item", item.ItemName).Int("qty", item.Quantity).Msg("last item removed")

	return item, nil
}

func (t *Terminal) Clear(ctx context.Context) error {
	err := t.carts.Clear(ctx, t.sessionID)
	t.record("clear", err)
	if err != nil {
		return fmt.Errorf("carts.Clear: %w", err)
	}

	t.logger.Info().Msg("cart cleared")

	return nil
}

// NewSale drops the current cart and starts a fresh session.
func (t *Terminal) NewSale(ctx context.Context) error {
	if _, err := t.carts.DeleteCart(ctx, t.sessionID); err != nil {
		return fmt.Errorf("carts.DeleteCart: %w", err)
	}

	previous := t.sessionID
	t.sessionID = uuid.NewString()
	t.logger = t.sessionLogger()
	t.logger.Info().Str("previous_session_id", previous).Msg("new sale started")

	return nil
}

func (t *Terminal) Lines(ctx context.Context) ([]domain.LineItem, error) {
	cart, err := t.carts.GetCart(ctx, t.sessionID)
	if err != nil {
		return nil, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart.Items(), nil
}

// Totals recomputes from the current cart on every call.
func (t *Terminal) Totals(ctx context.Context) (pricing.Totals, error) {
	items, err := t.Lines(ctx)
	if err != nil {
		return pricing.Totals{}, err
	}

	return t.policy.Compute(items), nil
}

func (t *Terminal) Receipt(ctx context.Context) (string, error) {
	items, err := t.Lines(ctx)
	if err != nil {
		return "", err
	}

	text := t.formatter.Format(items, t.policy.Compute(items))
	t.metrics.ReceiptsRendered.Inc()

	return text, nil
}

// FormatMoney formats an amount the way the receipt does.
func (t *Terminal) FormatMoney(amount decimal.Decimal) string {
	return t.formatter.FormatMoney(amount)
}

// Print renders the receipt and hands it to the printer. Cart state is not
// touched whatever the outcome.
func (t *Terminal) Print(ctx context.Context) (string, error) {
	text, err := t.Receipt(ctx)
	if err != nil {
		return "", err
	}

	path, err := t.printer.Print(ctx, text)
	t.metrics.ReceiptsPrinted.WithLabelValues(obs.Result(err)).Inc()
	if err != nil {
		t.logger.Error().Err(err).Msg("print receipt")
		return "", fmt.Errorf("printer.Print: %w", err)
	}

	t.logger.Info().Str("path", path).Msg("receipt sent to printer")

	return path, nil
}

// PaymentCode builds the payment-request URI for the current payable total
// and renders it. An empty cart yields domain.ErrInvalidAmount.
func (t *Terminal) PaymentCode(ctx context.Context) (PaymentCode, error) {
	code, err := t.paymentCode(ctx)
	t.metrics.PaymentRequests.WithLabelValues(obs.Result(err)).Inc()
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.logger.Error().Err(err).Msg("generate payment code")
		}
		return PaymentCode{}, err
	}

	t.logger.Info().Str("amount", code.Amount.StringFixed(2)).Msg("payment code generated")

	return code, nil
}

func (t *Terminal) paymentCode(ctx context.Context) (PaymentCode, error) {
	totals, err := t.Totals(ctx)
	if err != nil {
		return PaymentCode{}, err
	}

	amount := totals.Payable()

	uri, err := t.payments.Build(amount)
	if err != nil {
		return PaymentCode{}, fmt.Errorf("payments.Build: %w", err)
	}

	png, err := t.renderer.Render(uri)
	if err != nil {
		return PaymentCode{}, fmt.Errorf("renderer.Render: %w", err)
	}

	return PaymentCode{URI: uri, Amount: amount, PNG: png}, nil
}

func (t *Terminal) sessionLogger() zerolog.Logger {
	return t.base.With().Str("session_id", t.sessionID).Logger()
}

func (t *Terminal) record(operation string, err error) {
	t.metrics.CartOperations.WithLabelValues(operation, obs.Result(err)).Inc()
}
