package domain

// DefaultProductDescription is used when a generated plan has no description.
const DefaultProductDescription = "Generated by AI"

// PaymentLinkRequest describes the product a payment link sells.
type PaymentLinkRequest struct {
	Title       string
	Description string
	Images      []string
	// Price is in whole currency units.
	Price int64
	// ReferenceID ties the link back to the trip it sells.
	ReferenceID string
}

// PaymentLink is a hosted checkout page.
type PaymentLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
