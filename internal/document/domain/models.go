// Package domain contains quote and invoice records.
package domain

import (
	"encoding/json"
	"time"

	clientdomain "github.com/atelierbooks/facturio/internal/client/domain"
)

// Status is the document lifecycle state. A document starts as a quote
// and becomes an invoice exactly once.
type Status string

const (
	StatusQuote   Status = "quote"
	StatusInvoice Status = "invoice"
)

// LineItem is one priced line of a document. Mutable while drafting,
// frozen once the document is rendered and delivered.
type LineItem struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// MaterialUse records the consumption of one stock lot by one unit.
type MaterialUse struct {
	Name string `json:"name"`
	Lot  string `json:"lot"`
	Qty  int    `json:"qty"`
}

// SerialBinding ties one serialized unit to the stock lots consumed to
// produce it. Serial labels are recomputed from line-item order on each
// edit; UnitID is a stable identifier assigned when the label is first
// bound and carried across edits.
type SerialBinding struct {
	UnitID    string        `json:"unit_id,omitempty"`
	Serial    string        `json:"serial"`
	Product   string        `json:"product"`
	Materials []MaterialUse `json:"materials"`
}

// Document is a quote or invoice. Client is a snapshot taken at drafting
// time, not a reference into the client book. Materials is a legacy
// column carried through untouched for older records.
type Document struct {
	Number            string              `json:"number"`
	Date              time.Time           `json:"date"`
	Client            clientdomain.Client `json:"client"`
	Items             []LineItem          `json:"items"`
	DiscountValue     float64             `json:"discount_value"`
	DiscountIsPercent bool                `json:"discount_is_percent"`
	Place             string              `json:"place"`
	Status            Status              `json:"status"`
	Materials         json.RawMessage     `json:"materials,omitempty"`
	Serials           []SerialBinding     `json:"serials,omitempty"`
}

// Units is the number of physical units across all line items, which is
// the number of serials an invoice carries.
func (d Document) Units() int {
	total := 0
	for _, item := range d.Items {
		total += item.Quantity
	}
	return total
}
