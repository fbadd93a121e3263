package webhook

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader carries the hex-encoded HMAC-SHA512 digest Paystack
// computes over the raw request body.
const SignatureHeader = "X-Paystack-Signature"

// VerifySignature checks the header digest against the raw body. It must be
// called on the exact bytes received, before any parsing: re-serialized JSON
// would not byte-match the signed payload.
func VerifySignature(rawBody []byte, signature string, secret []byte) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, secret)
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign produces the digest Paystack would send for body. Used by the
// send-webhook tool and tests.
func Sign(rawBody []byte, secret []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
