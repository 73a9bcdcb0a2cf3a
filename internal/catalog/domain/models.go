// Package domain contains the catalog records.
package domain

// Item is a sellable catalog entry. Quantity is the default quantity
// proposed when the item is added to a quote.
type Item struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}
