package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ValidSignature checks the X-Hub-Signature-256 header against the raw body:
// "sha256=" followed by hex HMAC-SHA256 of the body keyed by the app secret.
func ValidSignature(body []byte, header, appSecret string) bool {
	provided, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(provided), []byte(expected))
}
