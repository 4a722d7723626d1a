package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// RetryableError decides whether a failed operation is worth re-attempting.
type RetryableError func(err error) bool

const DefaultMaxRetries = 3

// TryTransient executes an operation, retrying transient store failures
// (timeouts, network blips) with incremental backoff. Duplicate key errors
// are never retried here: for the availability collection they mean another
// booking holds the date, which the caller must treat as a conflict.
func TryTransient(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsTransientError)
}

// WithRetries executes an operation up to 1+maxRetries times, retrying only
// when isRetryable approves of the error.
func WithRetries(op Operation, maxRetries int, isRetryable RetryableError) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		if isRetryable(err) {
			time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond) // incremental backoff
		} else {
			return err
		}
	}
	return err
}

// IsTransientError reports whether an error is a retryable store failure.
// Context cancellation is not retryable; the request is gone.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// IsMongoDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
func IsMongoDuplicateKeyError(err error) bool {
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	// BulkWriteException can also carry duplicate key errors
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, writeError := range bwe.WriteErrors {
			if writeError.Code == 11000 {
				return true
			}
		}
	}
	return false
}
