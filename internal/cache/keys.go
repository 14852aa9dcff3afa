package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// AnalysisKey addresses the cached analysis of a description by content hash.
func AnalysisKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "analysis:" + hex.EncodeToString(sum[:])
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
