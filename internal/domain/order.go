package domain

import "time"

// ShippingType enumerates how samples travel to the lab.
type ShippingType string

const (
	// ShippingWithKit means the lab ships a sample kit to the user first.
	ShippingWithKit ShippingType = "with_kit"
	// ShippingWithoutKit means the user already has a kit and only the
	// return leg is needed.
	ShippingWithoutKit ShippingType = "without_kit"
	// ShippingSenderPays means the user pays for the return shipment on
	// their own carrier account.
	ShippingSenderPays ShippingType = "sender_pays"
)

// ShipmentLeg holds per-leg shipment scheduling and billing data.
type ShipmentLeg struct {
	ID             string
	OrderID        string
	Leg            int
	SubmissionDate *time.Time
	AccountNumber  string
	TransactionID  *string
	TrackingNumber *string
	TrackingURL    *string
}

// Order is a purchase of lab services by a user.
type Order struct {
	ID           string
	UserID       string
	ShippingType ShippingType
	// Total in minor currency units.
	Total     int64
	LegOne    *ShipmentLeg
	LegTwo    *ShipmentLeg
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShippingWithKit reports whether an outbound kit shipment is required.
func (o *Order) ShippingWithKitRequired() bool {
	return o.ShippingType == ShippingWithKit
}

// SenderPays reports whether the user covers return shipping themselves.
func (o *Order) SenderPays() bool {
	return o.ShippingType == ShippingSenderPays
}

// ProjectStatus enumerates lab project lifecycle states.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusComplete ProjectStatus = "complete"
)

// OrderedAssay is a lab project instance tied to an order.
type OrderedAssay struct {
	ID            string
	UserID        string
	OrderID       string
	Name          string
	ProjectStatus ProjectStatus
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
