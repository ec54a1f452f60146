package wallet

// TopupRequest for POST /v1/wallet/topup
type TopupRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// TopupResponse returns the gateway order for the mobile checkout.
// Signature is informational: it is computed over the order id and a
// placeholder payment id, since no payment exists yet. Verification
// uses only the signature submitted with verify.
type TopupResponse struct {
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	KeyID     string `json:"key_id"`
	Signature string `json:"signature"`
}

// VerifyRequest for POST /v1/wallet/verify
type VerifyRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// VerifyResponse after a successful top-up
type VerifyResponse struct {
	WalletBalance int64   `json:"wallet_balance"`
	Report        *Report `json:"report"`
}

// BalanceResponse for GET /v1/wallet
type BalanceResponse struct {
	WalletBalance  int64 `json:"wallet_balance"`
	CreditRideCnt  int   `json:"credit_ride_count"`
}
