package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// Signer produces HMAC-SHA256 request signatures for the exchange REST
// API. Credentials arrive per request, so a Signer is cheap and
// short-lived.
type Signer struct {
	apiKey     string
	apiSecret  string
	recvWindow int64
}

// NewSigner creates a signer with the default 5s recv window
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: 5000,
	}
}

// APIKey returns the API key, sent in the X-MBX-APIKEY header
func (s *Signer) APIKey() string {
	return s.apiKey
}

// Sign returns the hex HMAC-SHA256 of the encoded parameters
func (s *Signer) Sign(params url.Values) string {
	h := hmac.New(sha256.New, []byte(s.apiSecret))
	h.Write([]byte(params.Encode()))
	return hex.EncodeToString(h.Sum(nil))
}

// SignedQuery returns a copy of params with a fresh timestamp, the recv
// window, and the signature appended.
func (s *Signer) SignedQuery(params url.Values) url.Values {
	signed := make(url.Values, len(params)+3)
	for key, values := range params {
		for _, value := range values {
			signed.Add(key, value)
		}
	}

	signed.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	if signed.Get("recvWindow") == "" {
		signed.Set("recvWindow", strconv.FormatInt(s.recvWindow, 10))
	}

	signed.Set("signature", s.Sign(signed))
	return signed
}
