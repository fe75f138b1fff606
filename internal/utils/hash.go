package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayload computes an HMAC-SHA256 signature over data with key and
// returns it hex-encoded. Webhook receivers recompute it to authenticate
// the sender.
//
//	signature := utils.SignPayload(body, "my-secret-key")
func SignPayload(data []byte, key string) string {
	return hex.EncodeToString(hashBytes(data, key))
}

// VerifyPayload reports whether signature is the hex HMAC-SHA256 of data
// under key. The comparison is constant-time.
func VerifyPayload(data []byte, key, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, hashBytes(data, key))
}

func hashBytes(data []byte, key string) []byte {
	hasher := hmac.New(sha256.New, []byte(key))
	hasher.Write(data)
	return hasher.Sum(nil)
}
