package cache

import "strings"

const (
	GlobalKeyPrefix = "gyandeep"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

func ResultKey(resultID string) string {
	return GenerateCacheKey("result", "summary", resultID)
}

func AnalysisKey(resultID string) string {
	return GenerateCacheKey("ai", "analysis", resultID)
}

// EmbeddingKey addresses a cached vector by the hash of its source text.
func EmbeddingKey(source, textHash string) string {
	return GenerateCacheKey("embedding", source, textHash)
}
