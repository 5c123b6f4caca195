package cache

import "fmt"

// GenerationKey is the memoization key for one generation request hash.
func GenerationKey(requestHash string) string {
	return fmt.Sprintf("gen:result:%s", requestHash)
}

// RateLimitKey is the per-key-prefix rate limit counter key.
func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
