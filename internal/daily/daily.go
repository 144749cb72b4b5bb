// Package daily derives the shared seed for the daily challenge and stores
// its results.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic engine seed for a date using HMAC(salt, YYYY-MM-DD).
// Every player of the same date gets the same spawn sequence.
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
