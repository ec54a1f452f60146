package wallet

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
	"github.com/ridehub/ridehub-api/internal/pkg/razorpay"
)

const testSecret = "test_secret"

type fakeRepo struct {
	balances map[uuid.UUID]*Balance
	orders   map[string]*TopupOrder
	reports  []*Report
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		balances: make(map[uuid.UUID]*Balance),
		orders:   make(map[string]*TopupOrder),
	}
}

func (f *fakeRepo) GetBalance(_ context.Context, driverID uuid.UUID) (*Balance, error) {
	b, ok := f.balances[driverID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) ListReports(_ context.Context, driverID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	out := []*Report{}
	for _, rep := range f.reports {
		if rep.DriverID == driverID {
			out = append(out, rep)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) CreateOrder(_ context.Context, order *TopupOrder) error {
	cp := *order
	f.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeRepo) GetOrderByOrderID(_ context.Context, orderID string) (*TopupOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) CompleteTopup(_ context.Context, order *TopupOrder, paymentID string) (*Report, error) {
	b, ok := f.balances[order.DriverID]
	if !ok {
		return nil, ErrDriverNotFound
	}
	stored := f.orders[order.OrderID]
	if stored.Status != OrderCreated {
		return nil, ErrOrderAlreadyPaid
	}

	newBalance := b.WalletBalance + order.Amount
	if b.WalletBalance < 0 && newBalance >= 0 {
		b.CreditRideCnt = 0
	}
	b.WalletBalance = newBalance

	stored.Status = OrderPaid
	stored.PaymentID = sql.NullString{String: paymentID, Valid: true}

	report := &Report{
		ID:              uuid.New(),
		DriverID:        order.DriverID,
		TransactionType: TransactionCredit,
		Amount:          order.Amount,
		BalanceAfter:    newBalance,
		Status:          ReportCompleted,
		ReferenceID:     sql.NullString{String: paymentID, Valid: true},
		CreatedAt:       time.Now(),
	}
	f.reports = append(f.reports, report)
	return report, nil
}

func (f *fakeRepo) DebitRide(_ context.Context, driverID uuid.UUID, amount int64, referenceID string) (*Report, error) {
	b, ok := f.balances[driverID]
	if !ok {
		return nil, ErrDriverNotFound
	}

	b.WalletBalance -= amount
	if b.WalletBalance < 0 {
		b.CreditRideCnt++
	}

	report := &Report{
		ID:              uuid.New(),
		DriverID:        driverID,
		TransactionType: TransactionDebit,
		Amount:          amount,
		BalanceAfter:    b.WalletBalance,
		Status:          ReportCompleted,
		ReferenceID:     sql.NullString{String: referenceID, Valid: true},
		CreatedAt:       time.Now(),
	}
	f.reports = append(f.reports, report)
	return report, nil
}

type fakeGateway struct {
	orders  int
	lastReq razorpay.CreateOrderRequest
	fail    error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	g.orders++
	g.lastReq = req
	return &razorpay.Order{
		ID:       "order_test_" + uuid.New().String()[:8],
		Amount:   req.Amount,
		Currency: req.Currency,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) KeyID() string     { return "rzp_test_key" }
func (g *fakeGateway) KeySecret() string { return testSecret }

type fakeDirectory struct{}

func (fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (*driver.Driver, error) {
	return nil, nil
}

func newTestService(repo *fakeRepo, gw *fakeGateway) *Service {
	return NewService(repo, fakeDirectory{}, gw, nil, "AED")
}

func TestAddMoney(t *testing.T) {
	repo := newFakeRepo()
	driverID := uuid.New()
	repo.balances[driverID] = &Balance{DriverID: driverID}
	gw := &fakeGateway{}
	svc := newTestService(repo, gw)

	result, err := svc.AddMoney(context.Background(), driverID, &TopupRequest{Amount: 5000})
	if err != nil {
		t.Fatalf("add money: %v", err)
	}
	if result.Amount != 5000 || result.Currency != "AED" {
		t.Fatalf("unexpected order %+v", result)
	}
	if result.KeyID != "rzp_test_key" {
		t.Fatalf("key id = %q", result.KeyID)
	}

	// The returned signature is informational, computed over the order
	// id and the placeholder payment id
	want := razorpay.SignPayment(result.OrderID, placeholderPaymentID, testSecret)
	if result.Signature != want {
		t.Fatalf("signature = %q, want %q", result.Signature, want)
	}

	order := repo.orders[result.OrderID]
	if order == nil {
		t.Fatal("order was not stored")
	}
	if order.Status != OrderCreated || order.DriverID != driverID {
		t.Fatalf("stored order %+v", order)
	}

	// Balance untouched before verification
	if repo.balances[driverID].WalletBalance != 0 {
		t.Fatal("balance must not change on order creation")
	}

	if _, err := svc.AddMoney(context.Background(), driverID, &TopupRequest{Amount: 0}); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestVerifyPayment(t *testing.T) {
	repo := newFakeRepo()
	driverID := uuid.New()
	repo.balances[driverID] = &Balance{DriverID: driverID, WalletBalance: 1000}
	gw := &fakeGateway{}
	svc := newTestService(repo, gw)
	ctx := context.Background()

	topup, err := svc.AddMoney(ctx, driverID, &TopupRequest{Amount: 2500})
	if err != nil {
		t.Fatalf("add money: %v", err)
	}

	paymentID := "pay_real_12345"
	sig := razorpay.SignPayment(topup.OrderID, paymentID, testSecret)

	result, err := svc.VerifyPayment(ctx, driverID, &VerifyRequest{
		OrderID:   topup.OrderID,
		PaymentID: paymentID,
		Signature: sig,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.WalletBalance != 3500 {
		t.Fatalf("balance = %d, want 3500", result.WalletBalance)
	}
	if result.Report.BalanceAfter != 3500 || result.Report.TransactionType != TransactionCredit {
		t.Fatalf("report %+v", result.Report)
	}
	if repo.orders[topup.OrderID].Status != OrderPaid {
		t.Fatal("order must be marked paid")
	}

	// Second verify of the same order is rejected
	_, err = svc.VerifyPayment(ctx, driverID, &VerifyRequest{
		OrderID:   topup.OrderID,
		PaymentID: paymentID,
		Signature: sig,
	})
	if err != ErrOrderAlreadyPaid {
		t.Fatalf("expected ErrOrderAlreadyPaid, got %v", err)
	}
}

func TestVerifyPaymentSignatureMismatch(t *testing.T) {
	repo := newFakeRepo()
	driverID := uuid.New()
	repo.balances[driverID] = &Balance{DriverID: driverID, WalletBalance: 1000}
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	topup, err := svc.AddMoney(ctx, driverID, &TopupRequest{Amount: 2500})
	if err != nil {
		t.Fatalf("add money: %v", err)
	}

	_, err = svc.VerifyPayment(ctx, driverID, &VerifyRequest{
		OrderID:   topup.OrderID,
		PaymentID: "pay_real_12345",
		Signature: "deadbeef",
	})
	if err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	// Zero mutation on mismatch
	if repo.balances[driverID].WalletBalance != 1000 {
		t.Fatalf("balance = %d, must be unchanged", repo.balances[driverID].WalletBalance)
	}
	if len(repo.reports) != 0 {
		t.Fatalf("ledger entries = %d, want 0", len(repo.reports))
	}
	if repo.orders[topup.OrderID].Status != OrderCreated {
		t.Fatal("order status must be unchanged")
	}
}

func TestVerifyPaymentOwnership(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	other := uuid.New()
	repo.balances[owner] = &Balance{DriverID: owner}
	repo.balances[other] = &Balance{DriverID: other}
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	topup, err := svc.AddMoney(ctx, owner, &TopupRequest{Amount: 100})
	if err != nil {
		t.Fatalf("add money: %v", err)
	}

	sig := razorpay.SignPayment(topup.OrderID, "pay_x", testSecret)
	_, err = svc.VerifyPayment(ctx, other, &VerifyRequest{
		OrderID:   topup.OrderID,
		PaymentID: "pay_x",
		Signature: sig,
	})
	if err != ErrOrderNotOwned {
		t.Fatalf("expected ErrOrderNotOwned, got %v", err)
	}

	_, err = svc.VerifyPayment(ctx, owner, &VerifyRequest{
		OrderID:   "order_unknown",
		PaymentID: "pay_x",
		Signature: sig,
	})
	if err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestCreditResetsCreditRideCount(t *testing.T) {
	repo := newFakeRepo()
	driverID := uuid.New()
	// Driver owes money after two credit rides
	repo.balances[driverID] = &Balance{DriverID: driverID, WalletBalance: -10, CreditRideCnt: 2}
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	topup, err := svc.AddMoney(ctx, driverID, &TopupRequest{Amount: 20})
	if err != nil {
		t.Fatalf("add money: %v", err)
	}

	sig := razorpay.SignPayment(topup.OrderID, "pay_reset", testSecret)
	result, err := svc.VerifyPayment(ctx, driverID, &VerifyRequest{
		OrderID:   topup.OrderID,
		PaymentID: "pay_reset",
		Signature: sig,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if result.WalletBalance != 10 {
		t.Fatalf("balance = %d, want 10", result.WalletBalance)
	}
	b := repo.balances[driverID]
	if b.CreditRideCnt != 0 {
		t.Fatalf("credit_ride_count = %d, want 0 after crossing to non-negative", b.CreditRideCnt)
	}
}

func TestCreditStillNegativeKeepsCount(t *testing.T) {
	repo := newFakeRepo()
	driverID := uuid.New()
	repo.balances[driverID] = &Balance{DriverID: driverID, WalletBalance: -100, CreditRideCnt: 3}
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	topup, err := svc.AddMoney(ctx, driverID, &TopupRequest{Amount: 40})
	if err != nil {
		t.Fatalf("add money: %v", err)
	}

	sig := razorpay.SignPayment(topup.OrderID, "pay_partial", testSecret)
	result, err := svc.VerifyPayment(ctx, driverID, &VerifyRequest{
		OrderID:   topup.OrderID,
		PaymentID: "pay_partial",
		Signature: sig,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if result.WalletBalance != -60 {
		t.Fatalf("balance = %d, want -60", result.WalletBalance)
	}
	if repo.balances[driverID].CreditRideCnt != 3 {
		t.Fatal("credit_ride_count must not reset while balance stays negative")
	}
}

func TestDebitRide(t *testing.T) {
	repo := newFakeRepo()
	driverID := uuid.New()
	repo.balances[driverID] = &Balance{DriverID: driverID, WalletBalance: 30}
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	rideID := uuid.New()
	report, err := svc.DebitRide(ctx, driverID, 50, rideID)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if report.BalanceAfter != -20 {
		t.Fatalf("balance_after = %d, want -20", report.BalanceAfter)
	}
	if repo.balances[driverID].CreditRideCnt != 1 {
		t.Fatalf("credit_ride_count = %d, want 1 after going negative", repo.balances[driverID].CreditRideCnt)
	}

	if _, err := svc.DebitRide(ctx, driverID, -5, rideID); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestLedgerBalanceConsistency(t *testing.T) {
	repo := newFakeRepo()
	driverID := uuid.New()
	repo.balances[driverID] = &Balance{DriverID: driverID}
	svc := newTestService(repo, &fakeGateway{})
	ctx := context.Background()

	// Interleave credits and debits, then check the last ledger entry
	// matches the live balance
	amounts := []int64{500, -200, -400, 300, -100}
	for _, a := range amounts {
		if a > 0 {
			topup, err := svc.AddMoney(ctx, driverID, &TopupRequest{Amount: a})
			if err != nil {
				t.Fatalf("add money: %v", err)
			}
			sig := razorpay.SignPayment(topup.OrderID, "pay_seq", testSecret)
			if _, err := svc.VerifyPayment(ctx, driverID, &VerifyRequest{
				OrderID: topup.OrderID, PaymentID: "pay_seq", Signature: sig,
			}); err != nil {
				t.Fatalf("verify: %v", err)
			}
		} else {
			if _, err := svc.DebitRide(ctx, driverID, -a, uuid.New()); err != nil {
				t.Fatalf("debit: %v", err)
			}
		}
	}

	last := repo.reports[len(repo.reports)-1]
	if last.BalanceAfter != repo.balances[driverID].WalletBalance {
		t.Fatalf("last balance_after = %d, live balance = %d",
			last.BalanceAfter, repo.balances[driverID].WalletBalance)
	}
	if repo.balances[driverID].WalletBalance != 100 {
		t.Fatalf("final balance = %d, want 100", repo.balances[driverID].WalletBalance)
	}
}
