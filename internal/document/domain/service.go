package domain

import (
	"context"
	"errors"
	"time"

	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
	stockdomain "github.com/atelierbooks/facturio/internal/stock/domain"
)

// Draft carries the editable fields of a document.
type Draft struct {
	Date              time.Time
	Client            clientdomain.Client
	Items             []LineItem
	DiscountValue     float64
	DiscountIsPercent bool
	Place             string
}

type CreateQuoteRequest struct {
	// Number is optional; when empty the next free number for the quote
	// date is assigned.
	Number string
	Draft
}

type SaveInvoiceRequest struct {
	Draft
	// Serials is the edited binding list produced by the allocation
	// tracker, one entry per unit.
	Serials []SerialBinding
}

// LotOption is one selectable stock lot for a serial slot. Available is
// self-exclusive: it includes whatever this serial already holds of the
// lot, since saving releases that amount back before consuming anew.
type LotOption struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Lot       string `json:"lot"`
	Available int    `json:"available"`
	Selected  bool   `json:"selected"`
	Qty       int    `json:"qty"`
}

// SerialSlot is the tracker view of one enumerated unit.
type SerialSlot struct {
	Serial  string      `json:"serial"`
	UnitID  string      `json:"unit_id,omitempty"`
	Product string      `json:"product"`
	Options []LotOption `json:"options"`
}

// Totals is the priced summary of a document.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

type Service interface {
	List(ctx context.Context, status Status) ([]Document, error)
	Get(ctx context.Context, number string) (Document, error)
	Totals(ctx context.Context, number string) (Totals, error)

	CreateQuote(ctx context.Context, req CreateQuoteRequest) (Document, error)
	UpdateQuote(ctx context.Context, number string, draft Draft) (Document, error)
	ConvertToInvoice(ctx context.Context, number string) (Document, error)

	SerialSlots(ctx context.Context, number string) ([]SerialSlot, error)
	SaveInvoice(ctx context.Context, number string, req SaveInvoiceRequest) (Document, error)

	Render(ctx context.Context, number string) ([]byte, error)
	Send(ctx context.Context, number string, to string) error
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrDuplicateNumber = errors.New("duplicate_number")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidItems    = errors.New("invalid_items")
	ErrInvalidDiscount = errors.New("invalid_discount")
	ErrNotAQuote       = errors.New("not_a_quote")
	ErrNotAnInvoice    = errors.New("not_an_invoice")
	ErrAlreadyInvoice  = errors.New("already_invoice")
	ErrSerialMismatch  = errors.New("serial_mismatch")
	ErrMailNotSet      = errors.New("mail_not_configured")
)

// ErrInsufficientStock is surfaced from reconciliation so callers can
// match it without importing the stock domain.
var ErrInsufficientStock = stockdomain.ErrInsufficientStock
