package shipping

// TransactionStatusSuccess is the carrier's terminal success status for
// label purchases and refunds.
const TransactionStatusSuccess = "SUCCESS"

// Address is a carrier-side postal address.
type Address struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Parcel describes one package in imperial units.
type Parcel struct {
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

// BillingPartySender marks the shipment sender as the billed party.
const BillingPartySender = "SENDER"

// BillingAccount routes a shipment's cost to a third-party carrier account.
type BillingAccount struct {
	Type    string `json:"type"`
	Account string `json:"account"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// Extra carries optional shipment flags.
type Extra struct {
	IsReturn bool            `json:"is_return,omitempty"`
	Billing  *BillingAccount `json:"billing,omitempty"`
}

// ShipmentRequest asks the carrier to rate a shipment.
type ShipmentRequest struct {
	AddressFrom Address  `json:"address_from"`
	AddressTo   Address  `json:"address_to"`
	Parcels     []Parcel `json:"parcels"`
	Extra       *Extra   `json:"extra,omitempty"`
	Async       bool     `json:"async"`
}

// Rate is one priced shipping option.
type Rate struct {
	ObjectID          string `json:"object_id"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Provider          string `json:"provider"`
	ServiceLevelToken string `json:"servicelevel_token"`
}

// Shipment is the carrier's rated shipment.
type Shipment struct {
	ObjectID string `json:"object_id"`
	Status   string `json:"status"`
	Rates    []Rate `json:"rates"`
}

// TransactionRequest purchases a label for a shipment in one call.
type TransactionRequest struct {
	Shipment          ShipmentRequest `json:"shipment"`
	CarrierAccount    string          `json:"carrier_account"`
	ServiceLevelToken string          `json:"servicelevel_token"`
	Metadata          string          `json:"metadata,omitempty"`
	LabelFileType     string          `json:"label_file_type,omitempty"`
}

// APIMessage is a diagnostic attached to a carrier object.
type APIMessage struct {
	Source string `json:"source"`
	Code   string `json:"code"`
	Text   string `json:"text"`
}

// Transaction is a purchased (or failed) label.
type Transaction struct {
	ObjectID            string       `json:"object_id"`
	Status              string       `json:"status"`
	TrackingNumber      string       `json:"tracking_number"`
	TrackingURLProvider string       `json:"tracking_url_provider"`
	LabelURL            string       `json:"label_url"`
	Messages            []APIMessage `json:"messages"`
}

// Refund is the carrier's answer to a label refund request.
type Refund struct {
	ObjectID    string `json:"object_id"`
	Status      string `json:"status"`
	Transaction string `json:"transaction"`
}

// ValidationResults reports whether the carrier considers an address real.
type ValidationResults struct {
	IsValid  bool         `json:"is_valid"`
	Messages []APIMessage `json:"messages"`
}

// ValidatedAddress is the carrier's echo of a submitted address with
// validation verdicts attached.
type ValidatedAddress struct {
	ObjectID          string            `json:"object_id"`
	IsComplete        bool              `json:"is_complete"`
	ValidationResults ValidationResults `json:"validation_results"`
}
