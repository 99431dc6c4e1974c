package shipping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/config"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/notify"
	"github.com/bioproximity/support-service/internal/observability"
	"github.com/bioproximity/support-service/internal/repository"
)

// User-facing address validation outcomes.
const (
	AddressInvalidMessage            = "Address is not valid"
	AddressIncompleteMessage         = "Address is not fully entered"
	AddressServiceUnavailableMessage = "Address validation service is not available. Please try later."
)

// ShipmentResult carries the purchased legs of a started shipment. LegOne is
// nil for orders that only need the return leg.
type ShipmentResult struct {
	LegOne *domain.ShipmentLeg
	LegTwo *domain.ShipmentLeg
}

// Service drives kit and sample shipments through the carrier. Carrier
// faults are logged, reported to the error notifier and absorbed; callers
// get a nil result instead of an error.
type Service struct {
	carrier Carrier
	orders  repository.OrderRepository
	cfg     config.ShippingConfig
	company Address
	errors  notify.ErrorNotifier
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService wires the shipping service. The company return address comes
// from configuration once, at construction.
func NewService(carrier Carrier, orders repository.OrderRepository, cfg config.ShippingConfig, errs notify.ErrorNotifier, logger *zap.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carrier: carrier,
		orders:  orders,
		cfg:     cfg,
		company: carrierAddress(cfg.CompanyAddress),
		errors:  errs,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// StartShipment purchases the labels an order needs and records the leg
// results. With-kit orders get an outbound kit leg plus a return leg; other
// orders get the return leg only. Any carrier failure yields nil after the
// fault has been reported, and a bought-but-unusable outbound label is
// refunded before giving up.
func (s *Service) StartShipment(ctx context.Context, order *domain.Order, dest Address) *ShipmentResult {
	if order.ShippingWithKitRequired() {
		return s.startKitShipment(ctx, order, dest)
	}
	return s.startReturnShipment(ctx, order, dest)
}

func (s *Service) startKitShipment(ctx context.Context, order *domain.Order, dest Address) *ShipmentResult {
	legOne, ok := s.purchase(ctx, order, 1, TransactionRequest{
		Shipment: ShipmentRequest{
			AddressFrom: s.company,
			AddressTo:   dest,
			Parcels:     []Parcel{kitParcel()},
		},
		CarrierAccount:    s.cfg.CarrierAccount,
		ServiceLevelToken: s.cfg.ServiceLevel,
		Metadata:          fmt.Sprintf("Leg 1, Order #%s", order.ID),
	})
	if !ok {
		return nil
	}

	legTwo, ok := s.purchase(ctx, order, 2, TransactionRequest{
		Shipment: ShipmentRequest{
			AddressFrom: s.company,
			AddressTo:   dest,
			Parcels:     []Parcel{sampleParcel()},
			Extra:       &Extra{IsReturn: true},
		},
		CarrierAccount:    s.cfg.CarrierAccount,
		ServiceLevelToken: s.cfg.ServiceLevel,
		Metadata:          fmt.Sprintf("Leg 2, Order #%s", order.ID),
	})
	if !ok {
		s.refundLeg(ctx, order, legOne)
		return nil
	}

	result := &ShipmentResult{
		LegOne: s.legRecord(order, 1, s.cfg.CarrierAccount, legOne),
		LegTwo: s.legRecord(order, 2, s.cfg.CarrierAccount, legTwo),
	}
	s.saveLegs(ctx, order, result.LegOne, result.LegTwo)
	return result
}

func (s *Service) startReturnShipment(ctx context.Context, order *domain.Order, dest Address) *ShipmentResult {
	shipment := ShipmentRequest{
		AddressFrom: dest,
		AddressTo:   s.company,
		Parcels:     []Parcel{sampleParcel()},
	}
	metadata := fmt.Sprintf("Without shipping kit. Order #%s", order.ID)
	account := s.cfg.CarrierAccount
	if order.SenderPays() {
		metadata = fmt.Sprintf("Without shipping kit. Sender pays. Order #%s", order.ID)
		if billing := senderBilling(order); billing != nil {
			shipment.Extra = &Extra{Billing: billing}
			account = billing.Account
		}
	}

	tx, ok := s.purchase(ctx, order, 2, TransactionRequest{
		Shipment:          shipment,
		CarrierAccount:    s.cfg.CarrierAccount,
		ServiceLevelToken: s.cfg.ServiceLevel,
		Metadata:          metadata,
	})
	if !ok {
		return nil
	}

	result := &ShipmentResult{LegTwo: s.legRecord(order, 2, account, tx)}
	s.saveLegs(ctx, order, result.LegTwo)
	return result
}

// purchase buys one label and checks the carrier's status. A transport
// error or a non-success status reports the fault and returns ok=false.
func (s *Service) purchase(ctx context.Context, order *domain.Order, leg int, req TransactionRequest) (*Transaction, bool) {
	tx, err := s.carrier.CreateTransaction(ctx, req)
	s.metrics.RecordAdapterCall("carrier", "create_transaction", err == nil)
	if err != nil {
		s.report(ctx, "shipment label purchase failed", map[string]string{
			"order_id": order.ID,
			"leg":      fmt.Sprint(leg),
			"error":    err.Error(),
		})
		return nil, false
	}
	if tx.Status != TransactionStatusSuccess {
		s.report(ctx, "shipment label purchase rejected", map[string]string{
			"order_id": order.ID,
			"leg":      fmt.Sprint(leg),
			"status":   tx.Status,
			"messages": joinMessages(tx.Messages),
		})
		return nil, false
	}
	return tx, true
}

// refundLeg voids the already-purchased outbound label. The outcome is
// logged and reported but never retried.
func (s *Service) refundLeg(ctx context.Context, order *domain.Order, tx *Transaction) {
	refund, err := s.carrier.CreateRefund(ctx, tx.ObjectID)
	s.metrics.RecordAdapterCall("carrier", "create_refund", err == nil)
	details := map[string]string{
		"order_id":       order.ID,
		"transaction_id": tx.ObjectID,
	}
	if err != nil {
		details["error"] = err.Error()
		s.report(ctx, "kit label refund failed", details)
		return
	}
	details["refund_status"] = refund.Status
	s.logger.Info("kit label refunded after return leg failure",
		zap.String("order_id", order.ID),
		zap.String("refund_status", refund.Status))
	s.report(ctx, "kit label refunded", details)
}

func (s *Service) legRecord(order *domain.Order, leg int, account string, tx *Transaction) *domain.ShipmentLeg {
	at := s.now()
	return &domain.ShipmentLeg{
		OrderID:        order.ID,
		Leg:            leg,
		SubmissionDate: &at,
		AccountNumber:  account,
		TransactionID:  &tx.ObjectID,
		TrackingNumber: &tx.TrackingNumber,
		TrackingURL:    &tx.TrackingURLProvider,
	}
}

func (s *Service) saveLegs(ctx context.Context, order *domain.Order, legs ...*domain.ShipmentLeg) {
	for _, leg := range legs {
		if err := s.orders.SaveLegResult(ctx, leg); err != nil {
			s.report(ctx, "shipment leg persistence failed", map[string]string{
				"order_id": order.ID,
				"leg":      fmt.Sprint(leg.Leg),
				"error":    err.Error(),
			})
		}
	}
}

// EstimateShippingPrice quotes the return shipment from the given address
// and returns the amount for the configured service level, or nil when the
// carrier cannot quote it.
func (s *Service) EstimateShippingPrice(ctx context.Context, order *domain.Order, from Address) *string {
	shipment, err := s.carrier.CreateShipment(ctx, ShipmentRequest{
		AddressFrom: from,
		AddressTo:   s.company,
		Parcels:     []Parcel{sampleParcel()},
	})
	s.metrics.RecordAdapterCall("carrier", "create_shipment", err == nil)
	if err != nil {
		s.report(ctx, "shipping estimate failed", map[string]string{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return nil
	}
	if shipment.Status != TransactionStatusSuccess {
		s.report(ctx, "shipping estimate rejected", map[string]string{
			"order_id": order.ID,
			"status":   shipment.Status,
		})
		return nil
	}
	for _, rate := range shipment.Rates {
		if rate.ServiceLevelToken == s.cfg.ServiceLevel {
			amount := rate.Amount
			return &amount
		}
	}
	s.report(ctx, "shipping estimate missing rate", map[string]string{
		"order_id":      order.ID,
		"service_level": s.cfg.ServiceLevel,
	})
	return nil
}

// ValidateAddress returns an empty string for a deliverable, fully entered
// address and a user-facing message otherwise.
func (s *Service) ValidateAddress(ctx context.Context, addr Address) string {
	validated, err := s.carrier.ValidateAddress(ctx, addr)
	s.metrics.RecordAdapterCall("carrier", "validate_address", err == nil)
	if err != nil {
		s.logger.Warn("address validation unavailable", zap.Error(err))
		return AddressServiceUnavailableMessage
	}
	if !validated.ValidationResults.IsValid {
		if msg := joinMessages(validated.ValidationResults.Messages); msg != "" {
			return msg
		}
		return AddressInvalidMessage
	}
	if !validated.IsComplete {
		return AddressIncompleteMessage
	}
	return ""
}

// FetchLabelURL looks up the printable label for a purchased transaction.
func (s *Service) FetchLabelURL(ctx context.Context, transactionID string) string {
	tx, err := s.carrier.GetTransaction(ctx, transactionID)
	s.metrics.RecordAdapterCall("carrier", "get_transaction", err == nil)
	if err != nil {
		s.report(ctx, "label lookup failed", map[string]string{
			"transaction_id": transactionID,
			"error":          err.Error(),
		})
		return ""
	}
	return tx.LabelURL
}

// RegisterTrackingWebhook subscribes to tracking updates for a shipment.
func (s *Service) RegisterTrackingWebhook(ctx context.Context, carrier, trackingNumber string) error {
	err := s.carrier.RegisterTrackingWebhook(ctx, carrier, trackingNumber)
	s.metrics.RecordAdapterCall("carrier", "register_tracking", err == nil)
	if err != nil {
		s.report(ctx, "tracking webhook registration failed", map[string]string{
			"carrier":         carrier,
			"tracking_number": trackingNumber,
			"error":           err.Error(),
		})
		return fmt.Errorf("register tracking webhook: %w", err)
	}
	return nil
}

func (s *Service) report(ctx context.Context, subject string, details map[string]string) {
	s.logger.Error(subject, zap.Any("details", details))
	if s.errors != nil {
		s.errors.Notify(ctx, subject, details)
	}
}

// senderBilling pulls the user's own carrier account from the order's
// return leg, recorded when the order was placed.
func senderBilling(order *domain.Order) *BillingAccount {
	if order.LegTwo == nil || order.LegTwo.AccountNumber == "" {
		return nil
	}
	return &BillingAccount{Type: BillingPartySender, Account: order.LegTwo.AccountNumber}
}

func kitParcel() Parcel {
	return Parcel{
		Length: "12", Width: "9", Height: "9", DistanceUnit: "in",
		Weight: "1", MassUnit: "lb",
	}
}

func sampleParcel() Parcel {
	return Parcel{
		Length: "12", Width: "9", Height: "9", DistanceUnit: "in",
		Weight: "10", MassUnit: "lb",
	}
}

func joinMessages(msgs []APIMessage) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Text != "" {
			parts = append(parts, m.Text)
		}
	}
	return strings.Join(parts, "; ")
}

func carrierAddress(a config.Address) Address {
	return Address{
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
