package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// BuildPaymentSignatureBase joins order and payment identifiers the way the
// gateway signs payment confirmations.
func BuildPaymentSignatureBase(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

// Sign computes the HMAC-SHA256 hex digest of base keyed with secret
func Sign(base, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayment computes the signature for a payment confirmation
func SignPayment(orderID, paymentID, secret string) string {
	return Sign(BuildPaymentSignatureBase(orderID, paymentID), secret)
}

// VerifySignature compares two hex signatures in constant time
func VerifySignature(expectedHex, receivedHex string) bool {
	expected := strings.ToLower(strings.TrimSpace(expectedHex))
	received := strings.ToLower(strings.TrimSpace(receivedHex))
	if len(expected) != len(received) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

// VerifyPaymentSignature recomputes the payment signature and compares it
// against the one supplied by the client
func VerifyPaymentSignature(orderID, paymentID, secret, receivedHex string) bool {
	return VerifySignature(SignPayment(orderID, paymentID, secret), receivedHex)
}
