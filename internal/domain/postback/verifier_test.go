package postback

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_NewVerifier_unsupportedScheme(t *testing.T) {
	_, err := NewVerifier("sha1", "secret")
	require.Error(t, err)
}

func Test_md5Verifier(t *testing.T) {
	verifier, err := NewVerifier("md5", "s3cret")
	require.NoError(t, err)

	params := Params{UserID: "user1", OfferID: "offer9", Points: 250}
	sum := md5.Sum([]byte("user1offer9250s3cret"))
	signature := hex.EncodeToString(sum[:])

	require.True(t, verifier.Verify(params, signature))
	require.True(t, verifier.Verify(params, fmt.Sprintf("%X", sum)), "case insensitive")
	require.False(t, verifier.Verify(params, "deadbeef"))

	params.Points = 251
	require.False(t, verifier.Verify(params, signature), "tampered points")
}

func Test_hmacVerifier(t *testing.T) {
	verifier, err := NewVerifier("hmac-sha256", "s3cret")
	require.NoError(t, err)

	params := Params{
		UserID:  "user1",
		OfferID: "offer9",
		Points:  250,
		Raw: map[string]string{
			"user_id":   "user1",
			"offer_id":  "offer9",
			"points":    "250",
			"signature": "ignored",
		},
	}

	// Keys sorted, signature excluded.
	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte("offer_id=offer9&points=250&user_id=user1"))
	signature := hex.EncodeToString(mac.Sum(nil))

	require.True(t, verifier.Verify(params, signature))
	require.False(t, verifier.Verify(params, "deadbeef"))

	params.Raw["points"] = "9999"
	require.False(t, verifier.Verify(params, signature), "tampered raw params")
}
