package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

const (
	checkoutCookie = "checkout_step"
	cookieMaxAge   = 60 * 60 * 24 * 7
)

var errBadSignature = errors.New("cookie signature mismatch")

// signer produces "sig.payload" cookie values, both parts base64url encoded,
// with an HMAC-SHA256 signature over the payload.
type signer struct{ key []byte }

func (s signer) sign(payload []byte) string {
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return sig + "." + base64.RawURLEncoding.EncodeToString(payload)
}

func (s signer) verify(value string) ([]byte, error) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return nil, errBadSignature
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errBadSignature
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errBadSignature
	}
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil, errBadSignature
	}
	return payload, nil
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
