package cache

import "strings"

const (
	GlobalKeyPrefix = "examhub"
)

// GenerateCacheKey builds "<prefix>:<service>:<object>:<id>", with any params
// joined by "_" appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ExamQuestionsKey is the key of an exam's cached question set.
func ExamQuestionsKey(examID string) string {
	return GenerateCacheKey("exam", "questions", examID)
}
