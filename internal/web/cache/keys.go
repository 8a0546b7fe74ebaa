package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// SummaryKey builds the cache key for one recipe's rendered summary.
// The recipe name is hashed: names are free text and could otherwise
// produce awkward or oversized Redis keys.
func SummaryKey(recipeName string) string {
	hash := sha256.Sum256([]byte(recipeName))
	// 16 bytes keeps keys short with no practical collision risk
	return "summary:" + hex.EncodeToString(hash[:16])
}
