package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/balancetransaction"
	"github.com/stripe/stripe-go/v76/charge"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/config"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/observability"
)

// Source classifies where the money in a charge came from.
type Source string

const (
	SourceCard        Source = "card"
	SourceBankAccount Source = "bank_account"
	SourceAccount     Source = "account"
	SourceOffline     Source = "offline"
)

// Payment type tags carried in checkout session metadata so webhook
// processing can route the resulting payment intent.
const (
	TypeOrderPayment = "order_payment"
	TypePlanPayment  = "plan_payment"
	TypeAccountFund  = "account_fund"
)

// CheckoutSession is the subset of a hosted checkout session callers need.
type CheckoutSession struct {
	ID  string
	URL string
}

// Service wraps the payment processor API. The processor calls are held as
// function values so tests can substitute them.
type Service struct {
	cfg     config.PaymentConfig
	logger  *zap.Logger
	metrics *observability.Metrics

	createSession         func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getCharge             func(string, *stripe.ChargeParams) (*stripe.Charge, error)
	getBalanceTransaction func(string, *stripe.BalanceTransactionParams) (*stripe.BalanceTransaction, error)
}

// NewService configures the processor client with the account API key.
func NewService(cfg config.PaymentConfig, logger *zap.Logger, metrics *observability.Metrics) *Service {
	stripe.Key = cfg.APIKey
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:                   cfg,
		logger:                logger,
		metrics:               metrics,
		createSession:         session.New,
		getCharge:             charge.Get,
		getBalanceTransaction: balancetransaction.Get,
	}
}

// CreateOrderSession opens a card checkout session covering an order's total
// plus its shipping amount. Amounts are in minor currency units.
func (s *Service) CreateOrderSession(ctx context.Context, order *domain.Order, shipping int64, ip string) (*CheckoutSession, error) {
	meta := orderMetadata(order, shipping, ip)
	name := fmt.Sprintf("Order #%s", order.ID)
	return s.newSession(ctx, "create_order_session", name, order.Total+shipping, s.cfg.OrderSuccessURL, s.cfg.OrderCancelURL, meta)
}

// CreatePlanSession opens a card checkout session for a plan purchase.
func (s *Service) CreatePlanSession(ctx context.Context, user *domain.User, plan *domain.Plan, ip string) (*CheckoutSession, error) {
	meta := planMetadata(user, plan, ip)
	name := fmt.Sprintf("%s plan", plan.Name)
	return s.newSession(ctx, "create_plan_session", name, plan.Price, s.cfg.PlanSuccessURL, s.cfg.PlanCancelURL, meta)
}

// CreateAccountFundSession opens a card checkout session that tops up a
// user's account balance.
func (s *Service) CreateAccountFundSession(ctx context.Context, userID, fundID string, amount int64, ip string) (*CheckoutSession, error) {
	meta := accountFundMetadata(userID, fundID, ip)
	return s.newSession(ctx, "create_account_fund_session", "Account funds", amount, s.cfg.AccountSuccessURL, s.cfg.AccountSuccessURL, meta)
}

func (s *Service) newSession(ctx context.Context, op, name string, amount int64, successURL, cancelURL string, meta map[string]string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: meta,
		},
	}
	params.Context = ctx

	sess, err := s.createSession(params)
	s.metrics.RecordAdapterCall("stripe", op, err == nil)
	if err != nil {
		s.logger.Error("checkout session create failed",
			zap.String("operation", op),
			zap.Int64("amount", amount),
			zap.Error(err))
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// FetchNet returns the net amount received for a charge after processor
// fees. A previously stored value short-circuits the API round trip.
func (s *Service) FetchNet(ctx context.Context, stored *int64, chargeID string) (int64, error) {
	if stored != nil {
		return *stored, nil
	}

	ch, err := s.fetchCharge(ctx, "fetch_net", chargeID)
	if err != nil {
		return 0, err
	}
	if ch.BalanceTransaction == nil {
		return 0, fmt.Errorf("charge %s has no balance transaction", chargeID)
	}

	btParams := &stripe.BalanceTransactionParams{}
	btParams.Context = ctx
	bt, err := s.getBalanceTransaction(ch.BalanceTransaction.ID, btParams)
	s.metrics.RecordAdapterCall("stripe", "get_balance_transaction", err == nil)
	if err != nil {
		s.logger.Error("balance transaction fetch failed",
			zap.String("charge_id", chargeID),
			zap.Error(err))
		return 0, fmt.Errorf("get balance transaction: %w", err)
	}
	return bt.Net, nil
}

// DefineSource reports whether a charge was funded by a card or a bank
// account.
func (s *Service) DefineSource(ctx context.Context, chargeID string) (Source, error) {
	ch, err := s.fetchCharge(ctx, "define_source", chargeID)
	if err != nil {
		return "", err
	}
	if ch.Source == nil {
		return "", fmt.Errorf("charge %s has no source", chargeID)
	}
	switch string(ch.Source.Type) {
	case string(SourceCard):
		return SourceCard, nil
	case string(SourceBankAccount):
		return SourceBankAccount, nil
	default:
		return "", fmt.Errorf("unsupported charge source %q", ch.Source.Type)
	}
}

func (s *Service) fetchCharge(ctx context.Context, op, chargeID string) (*stripe.Charge, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx
	ch, err := s.getCharge(chargeID, params)
	s.metrics.RecordAdapterCall("stripe", op, err == nil)
	if err != nil {
		s.logger.Error("charge fetch failed",
			zap.String("charge_id", chargeID),
			zap.Error(err))
		return nil, fmt.Errorf("get charge: %w", err)
	}
	return ch, nil
}

func orderMetadata(order *domain.Order, shipping int64, ip string) map[string]string {
	meta := map[string]string{
		"order_id": order.ID,
		"shipping": strconv.FormatInt(shipping, 10),
		"type":     TypeOrderPayment,
	}
	return withIP(meta, ip)
}

func planMetadata(user *domain.User, plan *domain.Plan, ip string) map[string]string {
	meta := map[string]string{
		"user_id": user.ID,
		"plan":    plan.Code,
		"type":    TypePlanPayment,
	}
	return withIP(meta, ip)
}

func accountFundMetadata(userID, fundID, ip string) map[string]string {
	meta := map[string]string{
		"user_id":         userID,
		"account_fund_id": fundID,
		"type":            TypeAccountFund,
	}
	return withIP(meta, ip)
}

func withIP(meta map[string]string, ip string) map[string]string {
	if ip != "" {
		meta["IP"] = ip
	}
	return meta
}
