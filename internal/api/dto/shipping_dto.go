package dto

import "github.com/bioproximity/support-service/internal/shipping"

// AddressRequest is a postal address submitted for validation or shipping.
type AddressRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// CarrierAddress maps the request onto the carrier address shape.
func (a AddressRequest) CarrierAddress() shipping.Address {
	return shipping.Address{
		Name:    a.Name,
		Company: a.Company,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

// AddressValidationResponse reports the validation verdict. Message is
// empty for a deliverable address.
type AddressValidationResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ShipmentLegResponse is one purchased leg.
type ShipmentLegResponse struct {
	Leg            int     `json:"leg"`
	TransactionID  *string `json:"transaction_id"`
	TrackingNumber *string `json:"tracking_number"`
	TrackingURL    *string `json:"tracking_url"`
}

// StartShipmentRequest payload.
type StartShipmentRequest struct {
	Destination AddressRequest `json:"destination"`
}

// ShipmentResponse carries the purchased legs.
type ShipmentResponse struct {
	Success bool                  `json:"success"`
	Legs    []ShipmentLegResponse `json:"legs,omitempty"`
}
