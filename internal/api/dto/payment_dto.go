package dto

// OrderCheckoutRequest payload.
type OrderCheckoutRequest struct {
	// Shipping amount in minor currency units, added to the order total.
	Shipping int64 `json:"shipping"`
}

// CheckoutSessionResponse carries the hosted checkout session handle.
type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
