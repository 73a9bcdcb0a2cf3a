package pdf

import "context"

// MaterialLine is an indented traceability sub-row under a serialized
// unit.
type MaterialLine struct {
	Label string
	Qty   string
}

// Color is the RGB accent applied to the title and table header.
type Color struct {
	R, G, B int
}

// Line is one row of the document table. Ref carries the quantity for
// quotes and the serial number for invoices with serial tracking. All
// amounts arrive pre-formatted; the renderer does no arithmetic.
type Line struct {
	Description string
	Price       string
	Ref         string
	Total       string
	Materials   []MaterialLine
}

// DocumentData is everything the renderer needs for one document.
type DocumentData struct {
	Title     string
	IsInvoice bool

	// MetaLines sit under the title: number, date, place.
	MetaLines []string

	Tint *Color

	// LogoPath points at an optional logo asset; empty or missing files
	// are skipped.
	LogoPath string

	CompanyLines []string
	ClientLines  []string

	RefHeader string
	Lines     []Line

	Subtotal string
	Discount string
	Tax      string
	Total    string
	TaxNote  string

	PaymentTerms   []string
	SignatureLines []string
	ValidityFooter string
}

type Provider interface {
	GenerateDocument(ctx context.Context, data DocumentData) ([]byte, error)
}
