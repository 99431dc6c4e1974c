package shipping

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/config"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/notify"
	"github.com/bioproximity/support-service/internal/observability"
)

type fakeCarrier struct {
	transactions []TransactionRequest
	txResults    []*Transaction
	txErrs       []error

	refunds      []string
	refundResult *Refund
	refundErr    error

	shipment    *Shipment
	shipmentErr error

	validated   *ValidatedAddress
	validateErr error

	fetched  *Transaction
	fetchErr error

	tracks []string
}

func (f *fakeCarrier) CreateTransaction(_ context.Context, req TransactionRequest) (*Transaction, error) {
	i := len(f.transactions)
	f.transactions = append(f.transactions, req)
	if i < len(f.txErrs) && f.txErrs[i] != nil {
		return nil, f.txErrs[i]
	}
	if i < len(f.txResults) {
		return f.txResults[i], nil
	}
	return nil, errors.New("unexpected transaction")
}

func (f *fakeCarrier) CreateRefund(_ context.Context, transactionID string) (*Refund, error) {
	f.refunds = append(f.refunds, transactionID)
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	if f.refundResult != nil {
		return f.refundResult, nil
	}
	return &Refund{Status: TransactionStatusSuccess, Transaction: transactionID}, nil
}

func (f *fakeCarrier) CreateShipment(context.Context, ShipmentRequest) (*Shipment, error) {
	return f.shipment, f.shipmentErr
}

func (f *fakeCarrier) ValidateAddress(context.Context, Address) (*ValidatedAddress, error) {
	return f.validated, f.validateErr
}

func (f *fakeCarrier) GetTransaction(context.Context, string) (*Transaction, error) {
	return f.fetched, f.fetchErr
}

func (f *fakeCarrier) RegisterTrackingWebhook(_ context.Context, carrier, trackingNumber string) error {
	f.tracks = append(f.tracks, carrier+"/"+trackingNumber)
	return nil
}

type fakeOrderRepo struct {
	saved []domain.ShipmentLeg
}

func (f *fakeOrderRepo) GetByID(context.Context, string) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrderRepo) ExistsForUser(context.Context, string, string) (bool, error) {
	return false, nil
}

func (f *fakeOrderRepo) SaveLegResult(_ context.Context, leg *domain.ShipmentLeg) error {
	leg.ID = "leg-saved"
	f.saved = append(f.saved, *leg)
	return nil
}

func shippingConfig() config.ShippingConfig {
	return config.ShippingConfig{
		APIToken:       "token",
		BaseURL:        "https://carrier.test",
		CarrierAccount: "acct-company",
		ServiceLevel:   "fedex_priority_overnight",
		CompanyAddress: config.Address{
			Name:    "Bioproximity",
			Company: "Bioproximity, LLC",
			Street1: "1 Lab Way",
			City:    "Richmond",
			State:   "VA",
			Zip:     "23220",
			Country: "US",
		},
	}
}

func newTestService(carrier Carrier) (*Service, *fakeOrderRepo, *notify.MemoryQueue) {
	orders := &fakeOrderRepo{}
	queue := notify.NewMemoryQueue()
	errs := notify.NewQueueErrorNotifier(queue, zap.NewNop())
	svc := NewService(carrier, orders, shippingConfig(), errs, zap.NewNop(), observability.NewMetrics())
	return svc, orders, queue
}

func successTx(id string) *Transaction {
	return &Transaction{
		ObjectID:            id,
		Status:              TransactionStatusSuccess,
		TrackingNumber:      "track-" + id,
		TrackingURLProvider: "https://carrier.test/track/" + id,
		LabelURL:            "https://carrier.test/label/" + id,
	}
}

func kitOrder() *domain.Order {
	return &domain.Order{ID: "order-1", UserID: "user-1", ShippingType: domain.ShippingWithKit}
}

func userAddress() Address {
	return Address{Name: "Dana Tester", Street1: "2 Home St", City: "Austin", State: "TX", Zip: "78701", Country: "US"}
}

func TestStartShipmentWithKit(t *testing.T) {
	carrier := &fakeCarrier{txResults: []*Transaction{successTx("tx-1"), successTx("tx-2")}}
	svc, orders, _ := newTestService(carrier)

	result := svc.StartShipment(context.Background(), kitOrder(), userAddress())
	if result == nil {
		t.Fatal("expected shipment result")
	}
	if result.LegOne == nil || result.LegTwo == nil {
		t.Fatalf("expected both legs, got %+v", result)
	}
	if *result.LegOne.TransactionID != "tx-1" || *result.LegTwo.TransactionID != "tx-2" {
		t.Errorf("transaction ids = %v / %v", *result.LegOne.TransactionID, *result.LegTwo.TransactionID)
	}
	if *result.LegTwo.TrackingNumber != "track-tx-2" {
		t.Errorf("tracking number = %q", *result.LegTwo.TrackingNumber)
	}

	if len(carrier.transactions) != 2 {
		t.Fatalf("carrier called %d times", len(carrier.transactions))
	}
	legOne := carrier.transactions[0]
	if legOne.Metadata != "Leg 1, Order #order-1" {
		t.Errorf("leg 1 metadata = %q", legOne.Metadata)
	}
	if legOne.Shipment.AddressFrom.Company != "Bioproximity, LLC" || legOne.Shipment.AddressTo.Name != "Dana Tester" {
		t.Error("leg 1 must run company to user")
	}
	if legOne.Shipment.Parcels[0].Weight != "1" {
		t.Errorf("kit parcel weight = %q", legOne.Shipment.Parcels[0].Weight)
	}
	legTwo := carrier.transactions[1]
	if legTwo.Metadata != "Leg 2, Order #order-1" {
		t.Errorf("leg 2 metadata = %q", legTwo.Metadata)
	}
	if legTwo.Shipment.Extra == nil || !legTwo.Shipment.Extra.IsReturn {
		t.Error("leg 2 must be flagged as a return")
	}
	if legTwo.Shipment.Parcels[0].Weight != "10" {
		t.Errorf("sample parcel weight = %q", legTwo.Shipment.Parcels[0].Weight)
	}

	if len(carrier.refunds) != 0 {
		t.Errorf("unexpected refunds %v", carrier.refunds)
	}
	if len(orders.saved) != 2 {
		t.Errorf("saved %d legs, want 2", len(orders.saved))
	}
}

func TestStartShipmentLegOneFailure(t *testing.T) {
	tests := []struct {
		name    string
		carrier *fakeCarrier
	}{
		{"transport error", &fakeCarrier{txErrs: []error{errors.New("timeout")}}},
		{"rejected status", &fakeCarrier{txResults: []*Transaction{{ObjectID: "tx-1", Status: "ERROR"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, queue := newTestService(tt.carrier)
			result := svc.StartShipment(context.Background(), kitOrder(), userAddress())
			if result != nil {
				t.Fatalf("expected nil result, got %+v", result)
			}
			if len(tt.carrier.refunds) != 0 {
				t.Errorf("refund issued without a purchased leg: %v", tt.carrier.refunds)
			}
			if len(orders.saved) != 0 {
				t.Errorf("legs persisted on failure: %v", orders.saved)
			}
			if queue.Len() != 1 {
				t.Errorf("expected one error report, got %d", queue.Len())
			}
		})
	}
}

func TestStartShipmentLegTwoFailureRefundsOnce(t *testing.T) {
	tests := []struct {
		name    string
		carrier *fakeCarrier
	}{
		{"transport error", &fakeCarrier{
			txResults: []*Transaction{successTx("tx-1")},
			txErrs:    []error{nil, errors.New("timeout")},
		}},
		{"rejected status", &fakeCarrier{
			txResults: []*Transaction{successTx("tx-1"), {ObjectID: "tx-2", Status: "ERROR"}},
		}},
		{"refund itself fails", &fakeCarrier{
			txResults: []*Transaction{successTx("tx-1"), {ObjectID: "tx-2", Status: "ERROR"}},
			refundErr: errors.New("too late"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, _ := newTestService(tt.carrier)
			result := svc.StartShipment(context.Background(), kitOrder(), userAddress())
			if result != nil {
				t.Fatalf("expected nil result, got %+v", result)
			}
			if len(tt.carrier.refunds) != 1 {
				t.Fatalf("refund called %d times, want exactly once", len(tt.carrier.refunds))
			}
			if tt.carrier.refunds[0] != "tx-1" {
				t.Errorf("refunded %q, want tx-1", tt.carrier.refunds[0])
			}
			if len(orders.saved) != 0 {
				t.Errorf("legs persisted on failure: %v", orders.saved)
			}
		})
	}
}

func TestStartShipmentWithoutKit(t *testing.T) {
	carrier := &fakeCarrier{txResults: []*Transaction{successTx("tx-9")}}
	svc, orders, _ := newTestService(carrier)

	order := &domain.Order{ID: "order-2", ShippingType: domain.ShippingWithoutKit}
	result := svc.StartShipment(context.Background(), order, userAddress())
	if result == nil {
		t.Fatal("expected shipment result")
	}
	if result.LegOne != nil {
		t.Errorf("leg one should be absent, got %+v", result.LegOne)
	}
	if result.LegTwo == nil || *result.LegTwo.TransactionID != "tx-9" {
		t.Fatalf("unexpected leg two %+v", result.LegTwo)
	}

	req := carrier.transactions[0]
	if req.Metadata != "Without shipping kit. Order #order-2" {
		t.Errorf("metadata = %q", req.Metadata)
	}
	if req.Shipment.AddressFrom.Name != "Dana Tester" || req.Shipment.AddressTo.Company != "Bioproximity, LLC" {
		t.Error("return shipment must run user to company")
	}
	if req.Shipment.Extra != nil {
		t.Errorf("unexpected extras %+v", req.Shipment.Extra)
	}
	if len(orders.saved) != 1 || orders.saved[0].Leg != 2 {
		t.Errorf("saved legs = %+v", orders.saved)
	}
}

func TestStartShipmentSenderPays(t *testing.T) {
	carrier := &fakeCarrier{txResults: []*Transaction{successTx("tx-5")}}
	svc, _, _ := newTestService(carrier)

	order := &domain.Order{
		ID:           "order-3",
		ShippingType: domain.ShippingSenderPays,
		LegTwo:       &domain.ShipmentLeg{OrderID: "order-3", Leg: 2, AccountNumber: "acct-user"},
	}
	result := svc.StartShipment(context.Background(), order, userAddress())
	if result == nil {
		t.Fatal("expected shipment result")
	}

	req := carrier.transactions[0]
	if req.Metadata != "Without shipping kit. Sender pays. Order #order-3" {
		t.Errorf("metadata = %q", req.Metadata)
	}
	extra := req.Shipment.Extra
	if extra == nil || extra.Billing == nil || extra.Billing.Account != "acct-user" {
		t.Fatalf("expected billing on user account, got %+v", extra)
	}
	if extra.Billing.Type != BillingPartySender {
		t.Errorf("billing type = %q, want %q", extra.Billing.Type, BillingPartySender)
	}
	if result.LegTwo.AccountNumber != "acct-user" {
		t.Errorf("leg account = %q", result.LegTwo.AccountNumber)
	}
}

func TestEstimateShippingPrice(t *testing.T) {
	tests := []struct {
		name    string
		carrier *fakeCarrier
		want    string
		wantNil bool
	}{
		{"matching rate", &fakeCarrier{shipment: &Shipment{
			Status: TransactionStatusSuccess,
			Rates: []Rate{
				{Amount: "55.10", ServiceLevelToken: "usps_priority"},
				{Amount: "82.35", ServiceLevelToken: "fedex_priority_overnight"},
			},
		}}, "82.35", false},
		{"no matching rate", &fakeCarrier{shipment: &Shipment{
			Status: TransactionStatusSuccess,
			Rates:  []Rate{{Amount: "55.10", ServiceLevelToken: "usps_priority"}},
		}}, "", true},
		{"bad status", &fakeCarrier{shipment: &Shipment{Status: "ERROR"}}, "", true},
		{"carrier down", &fakeCarrier{shipmentErr: errors.New("timeout")}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.carrier)
			got := svc.EstimateShippingPrice(context.Background(), &domain.Order{ID: "order-1"}, userAddress())
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil amount, got %q", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("amount = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		carrier *fakeCarrier
		want    string
	}{
		{"valid", &fakeCarrier{validated: &ValidatedAddress{
			IsComplete:        true,
			ValidationResults: ValidationResults{IsValid: true},
		}}, ""},
		{"incomplete", &fakeCarrier{validated: &ValidatedAddress{
			IsComplete:        false,
			ValidationResults: ValidationResults{IsValid: true},
		}}, AddressIncompleteMessage},
		{"invalid and incomplete surfaces validity first", &fakeCarrier{validated: &ValidatedAddress{
			IsComplete: false,
			ValidationResults: ValidationResults{
				IsValid:  false,
				Messages: []APIMessage{{Text: "City not found"}},
			},
		}}, "City not found"},
		{"invalid with messages", &fakeCarrier{validated: &ValidatedAddress{
			IsComplete: true,
			ValidationResults: ValidationResults{
				IsValid: false,
				Messages: []APIMessage{
					{Text: "City not found"},
					{Text: "Zip does not match state"},
				},
			},
		}}, "City not found; Zip does not match state"},
		{"invalid without messages", &fakeCarrier{validated: &ValidatedAddress{
			IsComplete:        true,
			ValidationResults: ValidationResults{IsValid: false},
		}}, AddressInvalidMessage},
		{"service down", &fakeCarrier{validateErr: errors.New("timeout")}, AddressServiceUnavailableMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.carrier)
			if got := svc.ValidateAddress(context.Background(), userAddress()); got != tt.want {
				t.Errorf("ValidateAddress = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchLabelURL(t *testing.T) {
	svc, _, _ := newTestService(&fakeCarrier{fetched: successTx("tx-1")})
	if got := svc.FetchLabelURL(context.Background(), "tx-1"); got != "https://carrier.test/label/tx-1" {
		t.Errorf("label url = %q", got)
	}

	svc, _, queue := newTestService(&fakeCarrier{fetchErr: errors.New("gone")})
	if got := svc.FetchLabelURL(context.Background(), "tx-404"); got != "" {
		t.Errorf("expected empty url, got %q", got)
	}
	if queue.Len() != 1 {
		t.Errorf("expected one error report, got %d", queue.Len())
	}
}
