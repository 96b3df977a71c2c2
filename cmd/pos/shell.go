package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nikolayk812/ownmart-pos/internal/catalog"
	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/nikolayk812/ownmart-pos/internal/pos"
	"github.com/nikolayk812/ownmart-pos/internal/printer"
)

const helpText = `commands:
  items              list items with their unit prices
  price <n>          show the unit price of item n
  add <n> [qty]      add qty (default 1) of item n to the cart
  undo               remove the last added line
  clear              empty the cart
  total              show subtotal, tax, discount and grand total
  receipt            show the receipt
  print              send the receipt to the printer
  pay                generate the payment QR code for the grand total
  new                start a new sale
  help               show this help
  quit               exit`

type shell struct {
	term    *pos.Terminal
	out     io.Writer
	qrPath  string
	payeeID string
}

func newShell(term *pos.Terminal, out io.Writer, payeeID string) *shell {
	return &shell{
		term:    term,
		out:     out,
		qrPath:  filepath.Join(os.TempDir(), "upi-qr.png"),
		payeeID: payeeID,
	}
}

// Run reads one command per line until quit, EOF or ctx cancellation.
// Cancellation returns at once even while a read is pending; the reader
// goroutine exits when in is closed or yields its next line.
func (s *shell) Run(ctx context.Context, in io.Reader) error {
	lines, readErr := readLines(ctx, in)

	s.printf("%s\n", helpText)
	for {
		s.printf("> ")

		var line string
		select {
		case <-ctx.Done():
			s.printf("\n")
			return nil
		case l, ok := <-lines:
			if !ok {
				s.printf("\n")
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}

		quit, err := s.exec(ctx, line)
		if err != nil {
			s.printf("%s\n", userMessage(err))
		}
		if quit {
			return nil
		}
	}
}

// readLines scans in on its own goroutine. The scanner error, if any, is
// sent on the second channel before the lines channel is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}

func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "help", "?":
		s.printf("%s\n", helpText)
	case "items", "ls":
		for i, e := range s.term.Items() {
			s.printf("%3d. %-30s %s\n", i+1, e.Name, s.term.FormatMoney(e.UnitPrice.Amount))
		}
	case "price":
		entry, err := s.item(args)
		if err != nil {
			return false, err
		}
		price, err := s.term.UnitPrice(entry.Name)
		if err != nil {
			return false, err
		}
		s.printf("%s: %s\n", entry.Name, price)
	case "add":
		entry, err := s.item(args)
		if err != nil {
			return false, err
		}
		qty := "1"
		if len(args) > 1 {
			qty = args[1]
		}
		if _, err := s.term.Add(ctx, entry.Name, qty); err != nil {
			return false, err
		}
		return false, s.showReceipt(ctx)
	case "undo", "remove":
		if _, err := s.term.RemoveLast(ctx); err != nil {
			return false, err
		}
		return false, s.showReceipt(ctx)
	case "clear":
		if err := s.term.Clear(ctx); err != nil {
			return false, err
		}
		return false, s.showReceipt(ctx)
	case "total", "calc":
		totals, err := s.term.Totals(ctx)
		if err != nil {
			return false, err
		}
		s.printf("Subtotal:    %s\n", s.term.FormatMoney(totals.Subtotal))
		s.printf("Tax:         %s\n", s.term.FormatMoney(totals.Tax))
		s.printf("Discount:    %s\n", s.term.FormatMoney(totals.Discount))
		s.printf("Grand Total: %s\n", s.term.FormatMoney(totals.GrandTotal))
	case "receipt":
		return false, s.showReceipt(ctx)
	case "print":
		if _, err := s.term.Print(ctx); err != nil {
			return false, err
		}
		s.printf("Receipt sent to printer successfully.\n")
	case "pay":
		code, err := s.term.PaymentCode(ctx)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(s.qrPath, code.PNG, 0o644); err != nil {
			return false, fmt.Errorf("write qr: %w: %w", domain.ErrEncodingFailure, err)
		}
		s.printf("Scan to pay: %s\n", s.qrPath)
		s.printf("Amount: %s\n", s.term.FormatMoney(code.Amount))
		s.printf("UPI ID: %s\n", s.payeeID)
		s.printf("%s\n", code.URI)
	case "new":
		if err := s.term.NewSale(ctx); err != nil {
			return false, err
		}
		s.printf("New sale started.\n")
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}

	return false, nil
}

func (s *shell) item(args []string) (entry catalog.Entry, err error) {
	if len(args) == 0 {
		return entry, fmt.Errorf("no item selected: %w", domain.ErrUnknownItem)
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return entry, fmt.Errorf("item[%s] is not a list number: %w", args[0], domain.ErrUnknownItem)
	}

	return s.term.ItemAt(n)
}

func (s *shell) showReceipt(ctx context.Context) error {
	text, err := s.term.Receipt(ctx)
	if err != nil {
		return err
	}
	s.printf("%s", text)
	return nil
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// userMessage turns an error into the single line shown to the cashier.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "Invalid quantity: quantity must be a positive whole number."
	case errors.Is(err, domain.ErrUnknownItem):
		return "Select item: please choose an item from the list."
	case errors.Is(err, domain.ErrEmptyCart):
		return "Cart empty: there is nothing to remove."
	case errors.Is(err, domain.ErrInvalidAmount):
		return "No amount: add items before generating a payment code."
	case errors.Is(err, printer.ErrNothingToPrint):
		return "No data: there is no receipt to print."
	case errors.Is(err, printer.ErrPrintFailure):
		return "Print error: " + err.Error()
	case errors.Is(err, domain.ErrEncodingFailure):
		return "Payment code error: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
