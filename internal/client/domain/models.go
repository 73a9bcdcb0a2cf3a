// Package domain contains the client records.
package domain

// Client is an address-book entry. City doubles as the default signing
// place when a quote is drafted for the client.
type Client struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	City    string `json:"city"`
}
