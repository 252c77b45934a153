// Package postback verifies offerwall provider callbacks. Each provider
// signs its postbacks with one of a small set of schemes; the verifier hides
// which one behind a common interface.
package postback

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/pointward/backend/pkg/crypto"
)

// Params carries the postback fields that participate in the signature.
type Params struct {
	UserID  string
	OfferID string
	Points  uint64

	// Raw holds every query parameter of the callback, signature included.
	Raw map[string]string
}

type Verifier interface {
	Verify(params Params, signature string) bool
}

func NewVerifier(scheme, secret string) (Verifier, error) {
	switch scheme {
	case "md5":
		return &md5Verifier{secret: secret}, nil
	case "hmac-sha256":
		return &hmacVerifier{secret: secret}, nil
	default:
		return nil, fmt.Errorf("unsupported signature scheme %s", scheme)
	}
}

// md5Verifier implements the legacy provider convention:
// md5(user_id + offer_id + points + secret) in lowercase hex.
type md5Verifier struct {
	secret string
}

func (v *md5Verifier) Verify(params Params, signature string) bool {
	payload := fmt.Sprintf("%s%s%d%s", params.UserID, params.OfferID, params.Points, v.secret)
	expected := crypto.MD5Hex([]byte(payload))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// hmacVerifier signs the sorted query string, with the signature parameter
// itself excluded, using HMAC-SHA256 in lowercase hex.
type hmacVerifier struct {
	secret string
}

func (v *hmacVerifier) Verify(params Params, signature string) bool {
	keys := make([]string, 0, len(params.Raw))
	for k := range params.Raw {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Raw[k])
	}

	expected := crypto.HMAC(sha256.New, []byte(strings.Join(pairs, "&")), []byte(v.secret))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
