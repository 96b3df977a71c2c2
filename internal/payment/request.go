// Package payment builds UPI payment-request URIs and renders them as QR
// codes. It never contacts a payment network and cannot observe whether a
// payment happened.
package payment

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const Scheme = "upi"

var vpaPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+$`)

var validate = newValidator()

type Request struct {
	PayeeID   string `validate:"required,vpa"`
	PayeeName string `validate:"required"`
	Amount    decimal.Decimal
	Currency  currency.Unit
	Note      string `validate:"required"`
}

// Builder fills the fixed payee fields of a Request so callers only supply
// the amount.
type Builder struct {
	PayeeID   string
	PayeeName string
	Note      string
	Currency  currency.Unit
}

func (b Builder) Request(amount decimal.Decimal) Request {
	return Request{
		PayeeID:   b.PayeeID,
		PayeeName: b.PayeeName,
		Amount:    amount,
		Currency:  b.Currency,
		Note:      b.Note,
	}
}

func (b Builder) Build(amount decimal.Decimal) (string, error) {
	return BuildURI(b.Request(amount))
}

// BuildURI renders req as
// upi://pay?pa=<payee>&pn=<name>&am=<amount>&cu=<currency>&tn=<note>.
// Key order is fixed; scanning apps rely on it.
func BuildURI(req Request) (string, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return "", fmt.Errorf("amount[%s] must be positive: %w", req.Amount, domain.ErrInvalidAmount)
	}

	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("validate.Struct: %w", err)
	}
	if req.Currency == (currency.Unit{}) {
		return "", fmt.Errorf("currency is empty")
	}

	return fmt.Sprintf("%s://pay?pa=%s&pn=%s&am=%s&cu=%s&tn=%s",
		Scheme,
		req.PayeeID,
		url.QueryEscape(req.PayeeName),
		amount.StringFixed(2),
		req.Currency.String(),
		url.QueryEscape(req.Note),
	), nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("vpa", func(fl validator.FieldLevel) bool {
		return vpaPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Errorf("register vpa validation: %w", err))
	}

	return v
}
