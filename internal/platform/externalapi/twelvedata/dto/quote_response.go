// Package dto defines the Twelve Data response payloads.
package dto

// QuoteResponse is the subset of the /quote payload the client reads.
// On failure Twelve Data answers 200 with Status "error", a Code and a Message.
type QuoteResponse struct {
	Status   string `json:"status,omitempty"`
	Code     int    `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Close    string `json:"close"`
}
