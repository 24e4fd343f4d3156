package intake

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the request
// body, keyed with the shared intake secret.
const SignatureHeader = "X-Triggerfish-Signature"

// Sign computes the hex signature for a payload. Exported so the
// platform side (and tests) can produce valid requests.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature reports whether the presented hex signature matches
// the payload. Comparison is constant time.
func verifySignature(secret string, body []byte, presented string) bool {
	if presented == "" {
		return false
	}
	expected, err := hex.DecodeString(presented)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
