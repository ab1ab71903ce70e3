package util

import (
	"time"

	"github.com/google/uuid"
)

const uuidMaxRetry = 10

// NewUUID returns a UUID v7 string, so identifiers sort roughly by creation
// time. Generation can fail under clock pressure; retries back off just past
// v7's 100ns timestamp precision, and after the final attempt a random v4 is
// used instead.
func NewUUID() string {
	for i := 0; i < uuidMaxRetry; i++ {
		if id, err := uuid.NewV7(); err == nil {
			return id.String()
		}
		if i < uuidMaxRetry-1 {
			time.Sleep(200 * time.Nanosecond)
		}
	}
	return uuid.New().String()
}
