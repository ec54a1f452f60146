package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
	"github.com/ridehub/ridehub-api/internal/pkg/push"
	"github.com/ridehub/ridehub-api/internal/pkg/razorpay"
)

// placeholderPaymentID fills the payment slot of the informational
// signature returned with a new order, before any payment exists.
const placeholderPaymentID = "pay_test123456"

// Gateway is the payment gateway surface the wallet needs
type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
	KeyID() string
	KeySecret() string
}

// DriverDirectory resolves drivers for push delivery
type DriverDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error)
}

// Service handles wallet business logic
type Service struct {
	repo     Repository
	drivers  DriverDirectory
	gateway  Gateway
	push     *push.FCMClient
	currency string
}

// NewService creates wallet service
func NewService(repo Repository, drivers DriverDirectory, gateway Gateway, fcm *push.FCMClient, currency string) *Service {
	return &Service{
		repo:     repo,
		drivers:  drivers,
		gateway:  gateway,
		push:     fcm,
		currency: currency,
	}
}

// GetBalance returns the driver's wallet state
func (s *Service) GetBalance(ctx context.Context, driverID uuid.UUID) (*BalanceResponse, error) {
	b, err := s.repo.GetBalance(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrDriverNotFound
	}

	return &BalanceResponse{
		WalletBalance: b.WalletBalance,
		CreditRideCnt: b.CreditRideCnt,
	}, nil
}

// ListReports returns ledger entries for the driver
func (s *Service) ListReports(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListReports(ctx, driverID, limit, offset)
}

// AddMoney creates a gateway order for a wallet top-up. No balance is
// touched here; the credit happens in VerifyPayment once the gateway
// payment succeeds.
func (s *Service) AddMoney(ctx context.Context, driverID uuid.UUID, req *TopupRequest) (*TopupResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	b, err := s.repo.GetBalance(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrDriverNotFound
	}

	order, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   req.Amount,
		Currency: s.currency,
		Receipt:  fmt.Sprintf("topup_%s", uuid.New().String()[:8]),
		Notes:    map[string]string{"driver_id": driverID.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	topup := &TopupOrder{
		ID:       uuid.New(),
		DriverID: driverID,
		OrderID:  order.ID,
		Amount:   req.Amount,
		Currency: s.currency,
		Status:   OrderCreated,
	}
	if err := s.repo.CreateOrder(ctx, topup); err != nil {
		return nil, err
	}

	return &TopupResponse{
		OrderID:   order.ID,
		Amount:    req.Amount,
		Currency:  s.currency,
		KeyID:     s.gateway.KeyID(),
		Signature: razorpay.SignPayment(order.ID, placeholderPaymentID, s.gateway.KeySecret()),
	}, nil
}

// VerifyPayment checks the gateway signature and credits the wallet.
// A signature mismatch leaves the wallet and ledger untouched.
func (s *Service) VerifyPayment(ctx context.Context, driverID uuid.UUID, req *VerifyRequest) (*VerifyResponse, error) {
	order, err := s.repo.GetOrderByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.DriverID != driverID {
		return nil, ErrOrderNotOwned
	}
	if order.Status != OrderCreated {
		return nil, ErrOrderAlreadyPaid
	}

	if !razorpay.VerifyPaymentSignature(req.OrderID, req.PaymentID, s.gateway.KeySecret(), req.Signature) {
		return nil, ErrInvalidSignature
	}

	report, err := s.repo.CompleteTopup(ctx, order, req.PaymentID)
	if err != nil {
		return nil, err
	}

	s.notifyTopup(ctx, driverID, order.Amount, report.BalanceAfter)

	return &VerifyResponse{
		WalletBalance: report.BalanceAfter,
		Report:        report,
	}, nil
}

// DebitRide charges a completed ride fare against the wallet
func (s *Service) DebitRide(ctx context.Context, driverID uuid.UUID, fare int64, rideID uuid.UUID) (*Report, error) {
	if fare <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.DebitRide(ctx, driverID, fare, rideID.String())
}

// notifyTopup sends the post-commit push. Best-effort only.
func (s *Service) notifyTopup(ctx context.Context, driverID uuid.UUID, amount, balance int64) {
	d, err := s.drivers.GetByID(ctx, driverID)
	if err != nil || d == nil || !d.DeviceToken.Valid {
		if err != nil {
			log.Warn().Err(err).Str("driver_id", driverID.String()).Msg("Failed to load driver for top-up push")
		}
		return
	}

	s.push.SendAsync(&push.PushMessage{
		Token: d.DeviceToken.String,
		Title: "Wallet topped up",
		Body:  fmt.Sprintf("%.2f %s added to your wallet.", float64(amount)/100, s.currency),
		Data:  map[string]string{"balance": fmt.Sprintf("%d", balance)},
	})
}
