package slogx

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Redact renders a credential as a short stable fingerprint so two log lines
// can be correlated without the token itself ever being written.
func Redact(secret string) slog.Value {
	if secret == "" {
		return slog.StringValue("")
	}
	sum := sha256.Sum256([]byte(secret))
	return slog.StringValue("sha256:" + hex.EncodeToString(sum[:4]))
}
